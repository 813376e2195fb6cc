package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, f *fixture, admin access.Actor, c *models.Complaint) {
	t.Helper()
	_, err := f.complaints.Update(context.Background(), admin, c.ID, &dto.UpdateComplaintRequest{
		Status:          strPtr("resolved"),
		ResolutionNotes: strPtr("Fixed"),
	})
	require.NoError(t, err)
}

func TestRatingSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, access.RoleStudent)
	admin := f.user(t, access.RoleAdmin)
	c := f.file(t, student, "Leaky faucet")
	resolve(t, f, admin, c)
	ctx := context.Background()

	r, err := f.ratings.Submit(ctx, student, c.ID, &dto.SubmitRatingRequest{Rating: 5, Feedback: strPtr("quick fix")})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, student.ID, r.StudentID)

	_, err = f.ratings.Submit(ctx, student, c.ID, &dto.SubmitRatingRequest{Rating: 3})
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	require.NoError(t, f.db.Model(&models.Rating{}).Where("complaint_id = ?", c.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := f.ratings.Get(ctx, admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, "quick fix", *got.Feedback)
}

func TestRatingPreconditions(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, access.RoleStudent)
	other := f.user(t, access.RoleStudent)
	admin := f.user(t, access.RoleAdmin)
	ctx := context.Background()

	open := f.file(t, owner, "Still broken")
	done := f.file(t, owner, "Fixed one")
	resolve(t, f, admin, done)

	tests := []struct {
		name    string
		actor   access.Actor
		c       *models.Complaint
		rating  int
		wantErr error
	}{
		{"zero", owner, done, 0, ErrValidation},
		{"six", owner, done, 6, ErrValidation},
		{"not resolved", owner, open, 4, ErrUnauthorized},
		{"other student", other, done, 4, ErrUnauthorized},
		{"staff", admin, done, 4, ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ratings.Submit(ctx, tt.actor, tt.c.ID, &dto.SubmitRatingRequest{Rating: tt.rating})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Rating{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRatingAbsent(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, access.RoleStudent)
	c := f.file(t, student, "Leaky faucet")

	_, err := f.ratings.Get(context.Background(), student, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRatingUniqueIndex(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, access.RoleStudent)
	c := f.file(t, student, "Leaky faucet")

	require.NoError(t, f.db.Create(&models.Rating{ComplaintID: c.ID, StudentID: student.ID, Rating: 4}).Error)
	err := f.db.Create(&models.Rating{ComplaintID: c.ID, StudentID: student.ID, Rating: 2}).Error
	assert.Error(t, err)
}
