package dto

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin super_admin"`
}

// OverviewResponse backs the super admin dashboard. Admins counts role admin only.
type OverviewResponse struct {
	TotalUsers      int64 `json:"total_users"`
	TotalComplaints int64 `json:"total_complaints"`
	Resolved        int64 `json:"resolved"`
	Admins          int64 `json:"admins"`
}

// CategorySeed is one entry of the categories seed file.
type CategorySeed struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoriesFile struct {
	Categories []CategorySeed `json:"categories"`
}
