package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"mime/multipart"

	"github.com/lendme/lendme-go/internal/model"
	"github.com/lendme/lendme-go/internal/repository"
	"github.com/lendme/lendme-go/internal/upload"
)

var (
	ErrMissingRequiredFields = errors.New("required fields missing: name, category, model_number, serial_number, condition and location are required")
	ErrInvalidCondition      = errors.New("condition must be one of: excellent, good, fair, poor")
	ErrSerialTaken           = errors.New("an equipment item with this serial number already exists")
)

var validConditions = map[string]bool{
	model.ConditionExcellent: true,
	model.ConditionGood:      true,
	model.ConditionFair:      true,
	model.ConditionPoor:      true,
}

// EquipmentRepository is the store surface the equipment service needs.
// Satisfied by repository.EquipmentRepository.
type EquipmentRepository interface {
	Create(ctx context.Context, e *model.Equipment) error
	GetBySerialNumber(ctx context.Context, serial string) (*model.Equipment, error)
	AddImage(ctx context.Context, equipmentID int64, imagePath string) (*model.EquipmentImage, error)
	ListByOwner(ctx context.Context, userID int64) ([]model.Equipment, error)
	ImagesByOwner(ctx context.Context, userID int64) (map[int64][]string, error)
	Delete(ctx context.Context, id int64) error
}

// EquipmentService handles equipment business logic: validation, serial
// uniqueness and image attachment.
type EquipmentService struct {
	repo    EquipmentRepository
	uploads *upload.Store
}

// NewEquipmentService creates a new EquipmentService.
func NewEquipmentService(repo EquipmentRepository, uploads *upload.Store) *EquipmentService {
	return &EquipmentService{repo: repo, uploads: uploads}
}

// Create validates and persists a new equipment record for the given owner,
// then stores its image attachments.
//
// The files are validated before the row is inserted so an oversized or
// unsupported upload never leaves a record behind. The serial-number lookup
// is an early exit only: two concurrent requests can both pass it, in which
// case the unique key rejects the loser and that failure is still reported as
// a conflict.
func (s *EquipmentService) Create(ctx context.Context, userID int64, req model.EquipmentRequest, files []*multipart.FileHeader) (model.EquipmentResponse, error) {
	if req.Name == "" || req.Category == "" || req.ModelNumber == "" ||
		req.SerialNumber == "" || req.Condition == "" || req.Location == "" {
		return model.EquipmentResponse{}, ErrMissingRequiredFields
	}
	if !validConditions[req.Condition] {
		return model.EquipmentResponse{}, ErrInvalidCondition
	}
	if err := upload.Validate(files); err != nil {
		return model.EquipmentResponse{}, err
	}

	if _, err := s.repo.GetBySerialNumber(ctx, req.SerialNumber); err == nil {
		return model.EquipmentResponse{}, ErrSerialTaken
	} else if !errors.Is(err, repository.ErrEquipmentNotFound) {
		return model.EquipmentResponse{}, err
	}

	e := &model.Equipment{
		Name:                req.Name,
		Category:            req.Category,
		ModelNumber:         req.ModelNumber,
		SerialNumber:        req.SerialNumber,
		Description:         nullString(req.Description),
		Condition:           req.Condition,
		Location:            req.Location,
		MaintenanceSchedule: nullString(req.MaintenanceSchedule),
		Notes:               nullString(req.Notes),
		UserID:              userID,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicateSerial) {
			return model.EquipmentResponse{}, ErrSerialTaken
		}
		return model.EquipmentResponse{}, err
	}

	paths, err := s.uploads.SaveAll(files)
	if err != nil {
		s.removeOrphan(ctx, e.ID)
		return model.EquipmentResponse{}, err
	}

	for _, p := range paths {
		if _, err := s.repo.AddImage(ctx, e.ID, p); err != nil {
			s.removeOrphan(ctx, e.ID)
			return model.EquipmentResponse{}, err
		}
	}

	slog.Info("equipment created", "id", e.ID, "serial_number", e.SerialNumber, "user_id", userID, "images", len(paths))

	resp := toResponse(*e)
	resp.Images = paths
	return resp, nil
}

// removeOrphan deletes an equipment row whose images could not be stored, so
// a failed create is not observable as a half-built record. Best effort: the
// image-side error is what the caller sees either way.
func (s *EquipmentService) removeOrphan(ctx context.Context, id int64) {
	if err := s.repo.Delete(ctx, id); err != nil {
		slog.Warn("could not remove equipment row after image failure", "id", id, "error", err)
	}
}

// ListForOwner returns all equipment owned by a user, newest first, with
// each item's image paths attached.
func (s *EquipmentService) ListForOwner(ctx context.Context, userID int64) ([]model.EquipmentResponse, error) {
	items, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.ImagesByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.EquipmentResponse, len(items))
	for i, e := range items {
		result[i] = toResponse(e)
		result[i].Images = images[e.ID]
		if result[i].Images == nil {
			result[i].Images = []string{}
		}
	}
	return result, nil
}

// toResponse converts an equipment row to its API shape. Images are filled in
// by the caller.
func toResponse(e model.Equipment) model.EquipmentResponse {
	return model.EquipmentResponse{
		ID:                  e.ID,
		Name:                e.Name,
		Category:            e.Category,
		ModelNumber:         e.ModelNumber,
		SerialNumber:        e.SerialNumber,
		Description:         e.Description.String,
		Condition:           e.Condition,
		Location:            e.Location,
		MaintenanceSchedule: e.MaintenanceSchedule.String,
		Notes:               e.Notes.String,
		UserID:              e.UserID,
		CreatedAt:           e.CreatedAt,
		Images:              []string{},
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
