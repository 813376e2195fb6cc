package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// List returns all profiles, optionally restricted to one role.
func (s *UserService) List(ctx context.Context, actor access.Actor, role access.Role) ([]models.User, error) {
	if !actor.Can(access.OpListUsers) {
		return nil, ErrSuperAdminOnly
	}

	q := s.db.WithContext(ctx).Order("email ASC")
	if role != "" {
		if _, ok := access.ParseRole(string(role)); !ok {
			return nil, validationError(fmt.Sprintf("unknown role %q", role))
		}
		q = q.Where("role = ?", string(role))
	}

	users := make([]models.User, 0)
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetRole changes a user's role. A change that would leave no super_admin is
// refused with ErrLastSuperAdmin, including a super_admin demoting themself.
func (s *UserService) SetRole(ctx context.Context, actor access.Actor, targetID uuid.UUID, req *dto.SetRoleRequest) (*models.User, error) {
	if !actor.Can(access.OpSetUserRole) {
		return nil, ErrSuperAdminOnly
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	newRole, _ := access.ParseRole(req.Role)

	var target models.User
	var previous access.Role
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock order: the super_admin set by id, then the target row.
		var superIDs []uuid.UUID
		err := rowLock(tx, "UPDATE").Model(&models.User{}).
			Where("role = ?", string(access.RoleSuperAdmin)).
			Order("id ASC").
			Pluck("id", &superIDs).Error
		if err != nil {
			return fmt.Errorf("failed to lock super admins: %w", err)
		}

		if err := rowLock(tx, "UPDATE").First(&target, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		previous = target.Role
		if target.Role == newRole {
			return nil
		}
		if target.Role == access.RoleSuperAdmin && len(superIDs) <= 1 {
			return ErrLastSuperAdmin
		}

		if err := tx.Model(&target).Update("role", string(newRole)).Error; err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}
		target.Role = newRole
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previous != newRole {
		slog.Info("user role changed", "actor_id", actor.ID, "user_id", targetID, "from", previous, "to", newRole)
	}
	return &target, nil
}

// Overview returns system-wide counters for the super admin dashboard.
func (s *UserService) Overview(ctx context.Context, actor access.Actor) (*dto.OverviewResponse, error) {
	if !actor.Can(access.OpViewOverview) {
		return nil, ErrSuperAdminOnly
	}

	db := s.db.WithContext(ctx)
	var out dto.OverviewResponse
	if err := db.Model(&models.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.User{}).
		Where("role = ?", string(access.RoleAdmin)).
		Count(&out.Admins).Error; err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if err := db.Model(&models.Complaint{}).Count(&out.TotalComplaints).Error; err != nil {
		return nil, fmt.Errorf("failed to count complaints: %w", err)
	}
	if err := db.Model(&models.Complaint{}).
		Where("status IN ?", lifecycle.StatusStrings([]lifecycle.Status{lifecycle.StatusResolved, lifecycle.StatusClosed})).
		Count(&out.Resolved).Error; err != nil {
		return nil, fmt.Errorf("failed to count resolved complaints: %w", err)
	}
	return &out, nil
}
