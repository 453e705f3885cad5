package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"interviewprep/internal/auth"
	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
	"interviewprep/internal/repository"
	"interviewprep/internal/sanitize"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// CreateUserInput is a registration request. Role is honored only when the
// caller is an admin.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// UpdateUserInput is a partial user update. Nil fields are left alone.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *model.Role
}

// UserPage is one page of a user listing.
type UserPage struct {
	Items    []model.SafeUser `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// UserService exposes account operations.
type UserService interface {
	Register(ctx context.Context, in CreateUserInput) (model.SafeUser, error)
	Create(ctx context.Context, in CreateUserInput) (model.SafeUser, error)
	Get(ctx context.Context, id uuid.UUID) (*model.SafeUser, error)
	List(ctx context.Context, query string, page, limit int) (*UserPage, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.SafeUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	users    repository.UserRepository
	identity IdentityService
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, identity IdentityService) UserService {
	return &userService{users: users, identity: identity}
}

// Register creates a self-service account. The role is always user.
func (s *userService) Register(ctx context.Context, in CreateUserInput) (model.SafeUser, error) {
	in.Role = model.RoleUser
	return s.create(ctx, in)
}

// Create registers an account on behalf of the caller. Admin callers may pick
// the role; everyone else gets a user account.
func (s *userService) Create(ctx context.Context, in CreateUserInput) (model.SafeUser, error) {
	caller, ok := auth.UserFromContext(ctx)
	if !ok || !caller.IsAdmin() || in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		return model.SafeUser{}, apperrors.Validation("Invalid role")
	}
	return s.create(ctx, in)
}

func (s *userService) create(ctx context.Context, in CreateUserInput) (model.SafeUser, error) {
	name := sanitize.Text(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return model.SafeUser{}, apperrors.Validation("name, email and password required")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.SafeUser{}, err
	}
	if exists {
		return model.SafeUser{}, apperrors.ErrEmailTaken
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return model.SafeUser{}, err
	}

	// a concurrent registration for the same email loses on the unique index
	user, err := s.users.Create(ctx, &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if err != nil {
		return model.SafeUser{}, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Get returns a user to themselves or to an admin.
func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.SafeUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	if _, err := auth.RequireOwnerOrRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, query string, page, limit int) (*UserPage, error) {
	p := pageOf(page, limit, defaultUserPageSize, maxUserPageSize)
	items, total, err := s.users.List(ctx, repository.UserFilter{Query: query}, p)
	if err != nil {
		return nil, err
	}
	return &UserPage{Items: items, Total: total, Page: p.Number, PageSize: p.Size}, nil
}

// Update changes a user's own record, or any record for an admin. Only
// admins may change roles.
func (s *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.SafeUser, error) {
	if in.Name == nil && in.Email == nil && in.Password == nil && in.Role == nil {
		return nil, apperrors.Validation("No updatable fields provided")
	}

	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	caller, err := auth.RequireOwnerOrRole(ctx, target.ID, model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var changes repository.UserChanges
	if in.Name != nil {
		name := sanitize.Text(*in.Name)
		if name == "" {
			return nil, apperrors.Validation("name must not be empty")
		}
		changes.Name = &name
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email == "" {
			return nil, apperrors.Validation("email must not be empty")
		}
		if email != target.Email {
			exists, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, apperrors.ErrEmailTaken
			}
			changes.Email = &email
		}
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, apperrors.Validation("password must not be empty")
		}
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}
	if in.Role != nil && *in.Role != target.Role {
		if !caller.IsAdmin() {
			return nil, apperrors.ErrForbidden
		}
		if !in.Role.Valid() {
			return nil, apperrors.Validation("Invalid role")
		}
		changes.Role = in.Role
	}
	updated, err := s.users.Update(ctx, id, changes)
	if err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	s.identity.Invalidate(ctx, id)

	if changes.Role != nil {
		slog.InfoContext(ctx, "user role changed", "user_id", id, "role", *changes.Role, "by", caller.ID)
	}
	return updated, nil
}

// Delete removes a user and their attempts; allowed for the user and admins.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "User not found")
	}
	caller, err := auth.RequireOwnerOrRole(ctx, target.ID, model.RoleAdmin)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.identity.Invalidate(ctx, id)

	slog.InfoContext(ctx, "user deleted", "user_id", id, "by", caller.ID)
	return nil
}
