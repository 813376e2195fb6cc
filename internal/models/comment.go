package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an append-only message on a complaint. The autoincrement ID breaks
// ties between comments stamped with the same CreatedAt.
type Comment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_complaint_created,priority:1" json:"complaint_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `gorm:"not null;index:idx_comments_complaint_created,priority:2" json:"created_at"`
}
