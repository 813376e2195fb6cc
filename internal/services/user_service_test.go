package services

import (
	"context"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRoleRequiresSuperAdmin(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, access.RoleAdmin)
	student := f.user(t, access.RoleStudent)

	_, err := f.users.SetRole(context.Background(), admin, student.ID, &dto.SetRoleRequest{Role: "admin"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.users.SetRole(context.Background(), student, student.ID, &dto.SetRoleRequest{Role: "super_admin"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSetRole(t *testing.T) {
	f := newFixture(t)
	super := f.user(t, access.RoleSuperAdmin)
	student := f.user(t, access.RoleStudent)
	ctx := context.Background()

	u, err := f.users.SetRole(ctx, super, student.ID, &dto.SetRoleRequest{Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, access.RoleAdmin, u.Role)

	var stored models.User
	require.NoError(t, f.db.First(&stored, "id = ?", student.ID).Error)
	assert.Equal(t, access.RoleAdmin, stored.Role)

	_, err = f.users.SetRole(ctx, super, student.ID, &dto.SetRoleRequest{Role: "dean"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.users.SetRole(ctx, super, uuid.New(), &dto.SetRoleRequest{Role: "admin"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLastSuperAdminCannotBeDemoted(t *testing.T) {
	f := newFixture(t)
	super := f.user(t, access.RoleSuperAdmin)
	ctx := context.Background()

	_, err := f.users.SetRole(ctx, super, super.ID, &dto.SetRoleRequest{Role: "admin"})
	assert.ErrorIs(t, err, ErrConflict)

	// Re-applying the current role is a no-op.
	_, err = f.users.SetRole(ctx, super, super.ID, &dto.SetRoleRequest{Role: "super_admin"})
	require.NoError(t, err)

	second := f.user(t, access.RoleSuperAdmin)
	u, err := f.users.SetRole(ctx, super, super.ID, &dto.SetRoleRequest{Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, access.RoleAdmin, u.Role)

	_, err = f.users.SetRole(ctx, second, second.ID, &dto.SetRoleRequest{Role: "student"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMutualDemotionKeepsOneSuperAdmin(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, access.RoleSuperAdmin)
	b := f.user(t, access.RoleSuperAdmin)
	ctx := context.Background()

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, pair := range [][2]access.Actor{{a, b}, {b, a}} {
		wg.Add(1)
		go func(i int, actor, target access.Actor) {
			defer wg.Done()
			_, errs[i] = f.users.SetRole(ctx, actor, target.ID, &dto.SetRoleRequest{Role: "admin"})
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrLastSuperAdmin)
	}
	assert.Equal(t, 1, succeeded)

	var supers int64
	require.NoError(t, f.db.Model(&models.User{}).Where("role = ?", string(access.RoleSuperAdmin)).Count(&supers).Error)
	assert.Equal(t, int64(1), supers)
}

func TestListUsersAndOverview(t *testing.T) {
	f := newFixture(t)
	super := f.user(t, access.RoleSuperAdmin)
	admin := f.user(t, access.RoleAdmin)
	student := f.user(t, access.RoleStudent)
	ctx := context.Background()

	c := f.file(t, student, "Leaky faucet")
	f.file(t, student, "Broken window")
	_, err := f.complaints.Update(ctx, admin, c.ID, &dto.UpdateComplaintRequest{Status: strPtr("closed")})
	require.NoError(t, err)

	users, err := f.users.List(ctx, super, "")
	require.NoError(t, err)
	assert.Len(t, users, 3)

	admins, err := f.users.List(ctx, super, access.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)

	_, err = f.users.List(ctx, admin, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	ov, err := f.users.Overview(ctx, super)
	require.NoError(t, err)
	assert.Equal(t, dto.OverviewResponse{TotalUsers: 3, TotalComplaints: 2, Resolved: 1, Admins: 1}, *ov)

	_, err = f.users.Overview(ctx, admin)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
