package models

import (
	"time"

	"github.com/lib/pq"
)

// GrievanceStatus tracks the triage lifecycle of a complaint.
type GrievanceStatus string

const (
	StatusPending   GrievanceStatus = "pending"
	StatusRunning   GrievanceStatus = "running"
	StatusCompleted GrievanceStatus = "completed"
)

// Valid reports whether the status is one of the three lifecycle values.
func (s GrievanceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted:
		return true
	}
	return false
}

// GrievanceCategory classifies the complaint subject.
type GrievanceCategory string

const (
	CategoryCleanliness GrievanceCategory = "cleanliness"
	CategorySecurity    GrievanceCategory = "security"
	CategoryMaintenance GrievanceCategory = "maintenance"
	CategoryMess        GrievanceCategory = "mess"
	CategoryInternet    GrievanceCategory = "internet"
	CategoryOther       GrievanceCategory = "other"
)

// Grievance represents a complaint ticket filed by a student. hostel_name
// is stamped from the owner's stored hostel at creation time and never
// re-derived: the grievance belongs to the hostel it was filed in.
type Grievance struct {
	ID             string            `db:"id" json:"id"`
	RegistrationID string            `db:"registration_id" json:"registration_id"`
	HostelName     string            `db:"hostel_name" json:"hostel_name"`
	Title          string            `db:"title" json:"title"`
	Description    string            `db:"description" json:"description"`
	Category       GrievanceCategory `db:"category" json:"category"`
	Images         pq.StringArray    `db:"images" json:"images" swaggertype:"array,string"`
	Status         GrievanceStatus   `db:"status" json:"status"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// CreateGrievanceRequest carries the multipart form fields of a new
// grievance. Image links are collected separately by the upload layer.
type CreateGrievanceRequest struct {
	Title       string            `form:"title" validate:"required"`
	Description string            `form:"description" validate:"required"`
	Category    GrievanceCategory `form:"category" validate:"required,oneof=cleanliness security maintenance mess internet other"`
}

// UpdateStatusRequest carries the requested status transition.
type UpdateStatusRequest struct {
	Status GrievanceStatus `json:"status" validate:"required"`
}
