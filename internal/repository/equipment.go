package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lendme/lendme-go/internal/model"
)

var (
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrDuplicateSerial   = errors.New("serial number already exists")
)

// EquipmentRepository handles equipment persistence operations.
type EquipmentRepository struct {
	db *sql.DB
}

// NewEquipmentRepository creates a new EquipmentRepository.
func NewEquipmentRepository(db *sql.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// Create inserts a new equipment record and sets the generated ID on the
// struct. Callers pre-check the serial number, but the unique key remains the
// authoritative guard: a concurrent insert with the same serial surfaces here
// as ErrDuplicateSerial.
func (r *EquipmentRepository) Create(ctx context.Context, e *model.Equipment) error {
	query := `INSERT INTO equipment (
		name, category, model_number, serial_number, description,
		cond, location, maintenance_schedule, notes, user_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		e.Name, e.Category, e.ModelNumber, e.SerialNumber, e.Description,
		e.Condition, e.Location, e.MaintenanceSchedule, e.Notes, e.UserID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateSerial
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	e.ID = id
	return nil
}

// GetBySerialNumber retrieves an equipment record by its serial number,
// regardless of owner. Serial numbers are globally unique.
func (r *EquipmentRepository) GetBySerialNumber(ctx context.Context, serial string) (*model.Equipment, error) {
	query := `SELECT id, name, category, model_number, serial_number, description,
		cond, location, maintenance_schedule, notes, user_id, created_at
		FROM equipment WHERE serial_number = ?`

	e := &model.Equipment{}
	err := r.db.QueryRowContext(ctx, query, serial).Scan(
		&e.ID, &e.Name, &e.Category, &e.ModelNumber, &e.SerialNumber, &e.Description,
		&e.Condition, &e.Location, &e.MaintenanceSchedule, &e.Notes, &e.UserID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}

	return e, nil
}

// AddImage appends an image record to an equipment item. The foreign key
// rejects references to equipment that does not exist.
func (r *EquipmentRepository) AddImage(ctx context.Context, equipmentID int64, imagePath string) (*model.EquipmentImage, error) {
	query := `INSERT INTO equipment_images (equipment_id, image_path) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, equipmentID, imagePath)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.EquipmentImage{
		ID:          id,
		EquipmentID: equipmentID,
		ImagePath:   imagePath,
	}, nil
}

// Delete removes an equipment record; its image rows cascade. Only used to
// back out a record whose attachments could not be stored.
func (r *EquipmentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = ?`, id)
	return err
}

// ListByOwner retrieves all equipment owned by a user, most recently created
// first.
func (r *EquipmentRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Equipment, error) {
	query := `SELECT id, name, category, model_number, serial_number, description,
		cond, location, maintenance_schedule, notes, user_id, created_at
		FROM equipment WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Equipment
	for rows.Next() {
		var e model.Equipment
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Category, &e.ModelNumber, &e.SerialNumber, &e.Description,
			&e.Condition, &e.Location, &e.MaintenanceSchedule, &e.Notes, &e.UserID, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, e)
	}

	return items, rows.Err()
}

// ImagesByOwner retrieves the image paths for all of a user's equipment in a
// single query, keyed by equipment ID. Used by the list endpoint to avoid a
// per-item lookup.
func (r *EquipmentRepository) ImagesByOwner(ctx context.Context, userID int64) (map[int64][]string, error) {
	query := `SELECT i.equipment_id, i.image_path
		FROM equipment_images i
		JOIN equipment e ON e.id = i.equipment_id
		WHERE e.user_id = ?
		ORDER BY i.id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make(map[int64][]string)
	for rows.Next() {
		var equipmentID int64
		var path string
		if err := rows.Scan(&equipmentID, &path); err != nil {
			return nil, err
		}
		images[equipmentID] = append(images[equipmentID], path)
	}

	return images, rows.Err()
}
