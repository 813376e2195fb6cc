// Package access holds the closed set of roles and the table of which role may
// perform which operation. Ownership checks (a student acting on their own
// complaint) live with the services; this package only answers role questions.
package access

import "github.com/google/uuid"

type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleStudent, RoleAdmin, RoleSuperAdmin:
		return r, true
	}
	return "", false
}

// IsStaff reports whether the role is admin or super_admin.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Operation names a capability checked against the permission table.
type Operation string

const (
	OpFileComplaint     Operation = "complaint.create"
	OpViewAllComplaints Operation = "complaint.view_all"
	OpUpdateComplaint   Operation = "complaint.update"
	OpComment           Operation = "comment.create"
	OpRateComplaint     Operation = "rating.create"
	OpListUsers         Operation = "user.list"
	OpSetUserRole       Operation = "user.set_role"
	OpViewOverview      Operation = "system.overview"
)

var permissions = map[Operation]map[Role]bool{
	OpFileComplaint:     {RoleStudent: true},
	OpViewAllComplaints: {RoleAdmin: true, RoleSuperAdmin: true},
	OpUpdateComplaint:   {RoleAdmin: true, RoleSuperAdmin: true},
	OpComment:           {RoleStudent: true, RoleAdmin: true, RoleSuperAdmin: true},
	OpRateComplaint:     {RoleStudent: true},
	OpListUsers:         {RoleSuperAdmin: true},
	OpSetUserRole:       {RoleSuperAdmin: true},
	OpViewOverview:      {RoleSuperAdmin: true},
}

// Allowed reports whether role may perform op. Unknown operations are denied.
func Allowed(role Role, op Operation) bool {
	return permissions[op][role]
}

// Actor is the authenticated principal issuing a request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) Can(op Operation) bool {
	return Allowed(a.Role, op)
}

func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}
