package models

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/lifecycle"
	"github.com/google/uuid"
)

// Complaint is the record a student files and staff move through the lifecycle.
//
// ResolvedAt is non-nil exactly when Status is resolved or closed. StudentID and
// Mood are written once at creation. Version is bumped on every update and is
// used as the compare-and-set guard for concurrent writers.
type Complaint struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string             `gorm:"size:200;not null" json:"title"`
	Description     string             `gorm:"type:text;not null" json:"description"`
	Status          lifecycle.Status   `gorm:"size:20;not null;default:'open';index" json:"status"`
	Priority        lifecycle.Priority `gorm:"size:20;not null;default:'medium';index" json:"priority"`
	StudentID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"student_id"`
	AssignedAdminID *uuid.UUID         `gorm:"type:uuid;index" json:"assigned_admin_id"`
	CategoryID      *uuid.UUID         `gorm:"type:uuid;index" json:"category_id"`
	Location        *string            `gorm:"size:255" json:"location"`
	Mood            *lifecycle.Mood    `gorm:"size:20" json:"mood"`
	ResolutionNotes *string            `gorm:"type:text" json:"resolution_notes"`
	Version         int                `gorm:"not null;default:1" json:"-"`
	CreatedAt       time.Time          `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	ResolvedAt      *time.Time         `json:"resolved_at"`
	Category        *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Complaint) TableName() string {
	return "complaints"
}
