package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db, now: utcNow}
}

// Add appends a comment from the complaint's owner or any staff member.
func (s *CommentService) Add(ctx context.Context, actor access.Actor, complaintID uuid.UUID, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if !actor.Can(access.OpComment) {
		return nil, &Error{Kind: ErrUnauthorized, Message: "your role cannot comment"}
	}

	req.Message = strings.TrimSpace(req.Message)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var comment models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Shares the row with concurrent comments but waits for an in-flight update.
		if _, err := loadComplaint(tx, actor, complaintID, "SHARE"); err != nil {
			return err
		}

		comment = models.Comment{
			ComplaintID: complaintID,
			UserID:      actor.ID,
			Message:     req.Message,
			CreatedAt:   s.now(),
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("comment added", "complaint_id", complaintID, "actor_id", actor.ID, "comment_id", comment.ID)
	return &comment, nil
}

// List returns the complaint's comments in creation order.
func (s *CommentService) List(ctx context.Context, actor access.Actor, complaintID uuid.UUID) ([]models.Comment, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadComplaint(db, actor, complaintID, ""); err != nil {
		return nil, err
	}

	comments := make([]models.Comment, 0)
	err := db.Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
