package models

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/lifecycle"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ComplaintStatusHistory records one applied staff update of a complaint.
// Changes holds the per-field {from, to} pairs of that update.
type ComplaintStatusHistory struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	ComplaintID uuid.UUID        `gorm:"type:uuid;not null;index" json:"complaint_id"`
	FromStatus  lifecycle.Status `gorm:"size:20;not null" json:"from_status"`
	ToStatus    lifecycle.Status `gorm:"size:20;not null" json:"to_status"`
	ChangedBy   uuid.UUID        `gorm:"type:uuid;not null" json:"changed_by"`
	Changes     datatypes.JSON   `json:"changes"`
	CreatedAt   time.Time        `gorm:"not null" json:"created_at"`
}

func (ComplaintStatusHistory) TableName() string {
	return "complaint_status_history"
}
