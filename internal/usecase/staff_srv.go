package usecase

import (
	"context"
	"fmt"
	"strings"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/dto/response"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/permission"
	"cinema-backoffice/pkg/utils"

	"go.uber.org/zap"
)

type StaffService interface {
	GetStaff(ctx context.Context, req *request.StaffListRequest) (*response.PaginatedResponse[response.UserResponse], error)
	GetStaffByID(ctx context.Context, staffID string) (*response.UserResponse, error)
	CreateStaff(ctx context.Context, actor Actor, req *request.StaffRequest) (*response.UserResponse, error)
	UpdateStaff(ctx context.Context, actor Actor, staffID string, req *request.StaffUpdateRequest) (*response.UserResponse, error)
	DeleteStaff(ctx context.Context, actor Actor, staffID string) error
	// EnsureSuperAdmin creates a SUPER_ADMIN account unless a user with the
	// email already exists. It reports whether an account was created.
	EnsureSuperAdmin(ctx context.Context, email, password, name string) (bool, error)
}

type staffService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewStaffService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) StaffService {
	return &staffService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "staff")),
	}
}

func (s *staffService) GetStaff(ctx context.Context, req *request.StaffListRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := entity.UserFilter{
		Role:     req.Role,
		Search:   req.Search,
		IsActive: req.IsActive,
	}

	users, err := s.repo.User.FindAll(ctx, filter, listParams(req.PaginatedRequest))
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}

	total, err := s.repo.User.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count staff: %w", err)
	}

	items := make([]response.UserResponse, len(users))
	for i, user := range users {
		items[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *staffService) GetStaffByID(ctx context.Context, staffID string) (*response.UserResponse, error) {
	user, err := s.findStaff(ctx, s.repo, staffID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *staffService) CreateStaff(ctx context.Context, actor Actor, req *request.StaffRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	role := permission.Role(req.Role)
	if role == permission.RoleAdmin && actor.Role != permission.RoleSuperAdmin {
		return nil, apperror.Forbidden("Only a super admin can create admin accounts")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("User with this email already exists")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &entity.User{
		Base:         entity.NewBase(s.clock.Now()),
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		IsActive:     isActive,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}

	s.log.Info("Staff created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("created_by", actor.ID.String()),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *staffService) UpdateStaff(ctx context.Context, actor Actor, staffID string, req *request.StaffUpdateRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *entity.User
	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		user, err := s.findStaff(ctx, tx, staffID)
		if err != nil {
			return err
		}

		self := user.ID == actor.ID
		if user.Role == permission.RoleSuperAdmin && !self {
			return apperror.Forbidden("Super admin accounts cannot be modified by other users")
		}

		if req.Role != nil {
			role := permission.Role(*req.Role)
			switch {
			case role == user.Role:
			case user.Role == permission.RoleSuperAdmin:
				return apperror.InvalidState("Super admin role cannot be changed")
			case role == permission.RoleAdmin && actor.Role != permission.RoleSuperAdmin:
				return apperror.Forbidden("Only a super admin can promote to admin")
			}
			user.Role = role
		}

		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if email != strings.ToLower(user.Email) {
				existing, err := tx.User.FindByEmail(ctx, email)
				if err != nil {
					return err
				}
				if existing != nil {
					return apperror.Conflict("Email is already taken")
				}
			}
			user.Email = email
		}
		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
		}
		if req.Password != nil {
			hashed, err := utils.HashPassword(*req.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hashed
		}

		deactivated := false
		if req.IsActive != nil {
			if !*req.IsActive && self {
				return apperror.InvalidState("You cannot deactivate your own account")
			}
			deactivated = user.IsActive && !*req.IsActive
			user.IsActive = *req.IsActive
		}

		user.UpdatedAt = s.clock.Now()
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}

		if deactivated {
			if err := tx.Session.RevokeAllUserSessions(ctx, user.ID); err != nil {
				return err
			}
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Staff updated",
		zap.String("user_id", staffID),
		zap.String("updated_by", actor.ID.String()),
	)

	resp := response.UserToResponse(updated)
	return &resp, nil
}

func (s *staffService) DeleteStaff(ctx context.Context, actor Actor, staffID string) error {
	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		user, err := s.findStaff(ctx, tx, staffID)
		if err != nil {
			return err
		}
		if user.ID == actor.ID {
			return apperror.InvalidState("You cannot delete your own account")
		}
		if user.Role == permission.RoleSuperAdmin {
			return apperror.Forbidden("Super admin accounts cannot be modified by other users")
		}

		if err := tx.User.Delete(ctx, user.ID); err != nil {
			return err
		}
		return tx.Session.RevokeAllUserSessions(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info("Staff deleted",
		zap.String("user_id", staffID),
		zap.String("deleted_by", actor.ID.String()),
	)
	return nil
}

func (s *staffService) EnsureSuperAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	if len(password) < 6 {
		return false, apperror.InvalidInput("Seed admin password must be at least 6 characters")
	}

	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check seed admin: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	if name == "" {
		name = "Super Admin"
	}

	user := &entity.User{
		Base:         entity.NewBase(s.clock.Now()),
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		Role:         permission.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create seed admin: %w", err)
	}

	s.log.Info("Super admin seeded", zap.String("user_id", user.ID.String()), zap.String("email", email))
	return true, nil
}

func (s *staffService) findStaff(ctx context.Context, repo *repository.Repository, staffID string) (*entity.User, error) {
	id, err := parseID(staffID, "staff")
	if err != nil {
		return nil, err
	}

	user, err := repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("Staff not found")
	}
	return user, nil
}
