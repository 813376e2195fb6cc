package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db, now: utcNow}
}

// Submit records the owning student's rating of a resolved or closed complaint.
// The unique index on complaint_id backs the pre-check, so two racing
// submissions still yield a single row.
func (s *RatingService) Submit(ctx context.Context, actor access.Actor, complaintID uuid.UUID, req *dto.SubmitRatingRequest) (*models.Rating, error) {
	if !actor.Can(access.OpRateComplaint) {
		return nil, ErrStudentOnly
	}

	trimOptional(&req.Feedback)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var rating models.Rating
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		complaint, err := loadComplaint(tx, actor, complaintID, "SHARE")
		if err != nil {
			return err
		}
		if complaint.StudentID != actor.ID {
			return ErrNotOwner
		}
		if !complaint.Status.IsResolution() {
			return ErrNotResolved
		}

		var existing int64
		if err := tx.Model(&models.Rating{}).Where("complaint_id = ?", complaintID).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check rating: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyRated
		}

		rating = models.Rating{
			ComplaintID: complaintID,
			StudentID:   actor.ID,
			Rating:      req.Rating,
			Feedback:    req.Feedback,
			CreatedAt:   s.now(),
		}
		if err := tx.Create(&rating).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRated
			}
			return fmt.Errorf("failed to create rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("complaint rated", "complaint_id", complaintID, "actor_id", actor.ID, "rating", rating.Rating)
	return &rating, nil
}

// Get returns the rating of a complaint the actor can see.
func (s *RatingService) Get(ctx context.Context, actor access.Actor, complaintID uuid.UUID) (*models.Rating, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadComplaint(db, actor, complaintID, ""); err != nil {
		return nil, err
	}

	var rating models.Rating
	if err := db.First(&rating, "complaint_id = ?", complaintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}
	return &rating, nil
}
