package dto

import (
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/google/uuid"
)

type CreateComplaintRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required,max=5000"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Location    *string    `json:"location" validate:"omitempty,max=255"`
	Mood        *string    `json:"mood" validate:"omitempty,oneof=happy neutral stressed"`
}

// UpdateComplaintRequest is a partial update; nil fields are left untouched.
type UpdateComplaintRequest struct {
	Status          *string    `json:"status" validate:"omitempty,oneof=open assigned in_progress on_hold resolved closed"`
	Priority        *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	ResolutionNotes *string    `json:"resolution_notes" validate:"omitempty,max=5000"`
	AssignedAdminID *uuid.UUID `json:"assigned_admin_id"`
}

type ComplaintDetail struct {
	Complaint models.Complaint  `json:"complaint"`
	Rank      int               `json:"rank"`
	Progress  []lifecycle.Stage `json:"progress"`
}

type ComplaintListResponse struct {
	Complaints []models.Complaint `json:"complaints"`
	Count      int                `json:"count"`
}

type ComplaintStats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Urgent     int64 `json:"urgent"`
}

type TransitionsResponse struct {
	Current lifecycle.Status   `json:"current"`
	Next    []lifecycle.Status `json:"next"`
}

type CreateCommentRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type SubmitRatingRequest struct {
	Rating   int     `json:"rating" validate:"min=1,max=5"`
	Feedback *string `json:"feedback" validate:"omitempty,max=2000"`
}
