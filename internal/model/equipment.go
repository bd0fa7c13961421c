package model

import (
	"database/sql"
	"time"
)

// Condition values accepted for equipment records.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

// Equipment represents an equipment row in the database.
type Equipment struct {
	ID                  int64
	Name                string
	Category            string
	ModelNumber         string
	SerialNumber        string
	Description         sql.NullString
	Condition           string
	Location            string
	MaintenanceSchedule sql.NullString
	Notes               sql.NullString
	UserID              int64
	CreatedAt           time.Time
}

// EquipmentImage represents an image attached to an equipment record.
type EquipmentImage struct {
	ID          int64
	EquipmentID int64
	ImagePath   string
	CreatedAt   time.Time
}

// EquipmentRequest carries the text fields of a multipart equipment-creation
// request. Image files travel alongside it and are handled separately.
type EquipmentRequest struct {
	Name                string
	Category            string
	ModelNumber         string
	SerialNumber        string
	Description         string
	Condition           string
	Location            string
	MaintenanceSchedule string
	Notes               string
}

// EquipmentResponse represents an equipment record in API responses,
// including the relative paths of its attached images.
type EquipmentResponse struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Category            string    `json:"category"`
	ModelNumber         string    `json:"model_number"`
	SerialNumber        string    `json:"serial_number"`
	Description         string    `json:"description,omitempty"`
	Condition           string    `json:"condition"`
	Location            string    `json:"location"`
	MaintenanceSchedule string    `json:"maintenance_schedule,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	UserID              int64     `json:"user_id"`
	CreatedAt           time.Time `json:"created_at"`
	Images              []string  `json:"images"`
}

// EquipmentListResponse wraps the owner-scoped equipment listing.
type EquipmentListResponse struct {
	Equipment []EquipmentResponse `json:"equipment"`
}
