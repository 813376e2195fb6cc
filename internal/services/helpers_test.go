package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stepClock advances one second per call so created_at values are strictly increasing.
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	db         *gorm.DB
	clock      *stepClock
	complaints *ComplaintService
	comments   *CommentService
	ratings    *RatingService
	users      *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.Open(t)
	clock := newStepClock()

	complaints := NewComplaintService(db)
	complaints.now = clock.now
	comments := NewCommentService(db)
	comments.now = clock.now
	ratings := NewRatingService(db)
	ratings.now = clock.now

	return &fixture{
		db:         db,
		clock:      clock,
		complaints: complaints,
		comments:   comments,
		ratings:    ratings,
		users:      NewUserService(db),
	}
}

func (f *fixture) user(t *testing.T, role access.Role) access.Actor {
	t.Helper()
	u := models.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@campus.edu",
		Password: "x",
		FullName: string(role) + " user",
		Role:     role,
	}
	require.NoError(t, f.db.Create(&u).Error)
	return access.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) file(t *testing.T, student access.Actor, title string) *models.Complaint {
	t.Helper()
	c, err := f.complaints.Create(context.Background(), student, &dto.CreateComplaintRequest{
		Title:       title,
		Description: "details for " + title,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) models.Complaint {
	t.Helper()
	var c models.Complaint
	require.NoError(t, f.db.First(&c, "id = ?", id).Error)
	return c
}

func strPtr(s string) *string {
	return &s
}
