package access_test

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPermissionTable(t *testing.T) {
	tests := []struct {
		op      access.Operation
		student bool
		admin   bool
		super   bool
	}{
		{access.OpFileComplaint, true, false, false},
		{access.OpViewAllComplaints, false, true, true},
		{access.OpUpdateComplaint, false, true, true},
		{access.OpComment, true, true, true},
		{access.OpRateComplaint, true, false, false},
		{access.OpListUsers, false, false, true},
		{access.OpSetUserRole, false, false, true},
		{access.OpViewOverview, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.student, access.Allowed(access.RoleStudent, tt.op))
			assert.Equal(t, tt.admin, access.Allowed(access.RoleAdmin, tt.op))
			assert.Equal(t, tt.super, access.Allowed(access.RoleSuperAdmin, tt.op))
		})
	}
}

func TestUnknownRoleAndOperationAreDenied(t *testing.T) {
	assert.False(t, access.Allowed(access.Role("janitor"), access.OpComment))
	assert.False(t, access.Allowed(access.RoleSuperAdmin, access.Operation("complaint.delete")))
}

func TestActor(t *testing.T) {
	a := access.Actor{ID: uuid.New(), Role: access.RoleAdmin}
	assert.True(t, a.IsStaff())
	assert.True(t, a.Can(access.OpUpdateComplaint))
	assert.False(t, a.Can(access.OpSetUserRole))

	s := access.Actor{ID: uuid.New(), Role: access.RoleStudent}
	assert.False(t, s.IsStaff())
}

func TestParseRole(t *testing.T) {
	r, ok := access.ParseRole("super_admin")
	assert.True(t, ok)
	assert.Equal(t, access.RoleSuperAdmin, r)

	_, ok = access.ParseRole("root")
	assert.False(t, ok)
}
