package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lendme/lendme-go/internal/middleware"
	"github.com/lendme/lendme-go/internal/model"
	"github.com/lendme/lendme-go/internal/service"
	"github.com/lendme/lendme-go/internal/upload"
)

// maxEquipmentBody bounds the whole multipart request: 3 images of 5MB plus
// text fields and encoding overhead.
const maxEquipmentBody = 16 << 20

// EquipmentHandler handles HTTP requests for equipment operations.
type EquipmentHandler struct {
	service *service.EquipmentService
}

// NewEquipmentHandler creates a new EquipmentHandler.
func NewEquipmentHandler(svc *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{service: svc}
}

// HandleCreate handles POST /api/equipment requests. The body is a multipart
// form with the equipment text fields and up to 3 image files under "images".
func (h *EquipmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxEquipmentBody)
	if err := r.ParseMultipartForm(maxEquipmentBody); err != nil {
		if isBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid multipart form"))
		return
	}

	req := model.EquipmentRequest{
		Name:                r.FormValue("name"),
		Category:            r.FormValue("category"),
		ModelNumber:         r.FormValue("modelNumber"),
		SerialNumber:        r.FormValue("serialNumber"),
		Description:         r.FormValue("description"),
		Condition:           r.FormValue("condition"),
		Location:            r.FormValue("location"),
		MaintenanceSchedule: r.FormValue("maintenanceSchedule"),
		Notes:               r.FormValue("notes"),
	}

	files := r.MultipartForm.File["images"]

	resp, err := h.service.Create(r.Context(), userID, req, files)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRequiredFields),
			errors.Is(err, service.ErrInvalidCondition),
			errors.Is(err, upload.ErrTooManyFiles),
			errors.Is(err, upload.ErrFileTooLarge),
			errors.Is(err, upload.ErrUnsupportedType):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrSerialTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			slog.Error("equipment creation failed", "error", err, "user_id", userID)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]model.EquipmentResponse{"equipment": resp})
}

// HandleList handles GET /api/equipment requests, returning the caller's
// equipment, newest first.
func (h *EquipmentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	items, err := h.service.ListForOwner(r.Context(), userID)
	if err != nil {
		slog.Error("equipment listing failed", "error", err, "user_id", userID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.EquipmentListResponse{Equipment: items})
}
