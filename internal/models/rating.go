package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is the owning student's score for a resolved complaint. The unique
// index on ComplaintID is what guarantees a single rating per complaint.
type Rating struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"complaint_id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Rating      int       `gorm:"not null" json:"rating"`
	Feedback    *string   `gorm:"type:text" json:"feedback"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
