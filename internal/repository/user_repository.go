package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
)

// UserFilter narrows a user listing.
type UserFilter struct {
	Query string
}

// UserChanges holds the fields of a partial user update. Nil fields are left alone.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *model.Role
}

// Empty reports whether no field would change.
func (c UserChanges) Empty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil && c.Role == nil
}

// UserRepository defines persistence operations. Only FindCredentials returns
// the stored password hash; everything else returns SafeUser projections.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (model.SafeUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.SafeUser, error)
	FindCredentials(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter UserFilter, page Page) ([]model.SafeUser, int64, error)
	Update(ctx context.Context, id uuid.UUID, changes UserChanges) (*model.SafeUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (model.SafeUser, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.SafeUser{}, apperrors.ErrEmailTaken
		}
		return model.SafeUser{}, storeErr("create user", err)
	}
	return user.Safe(), nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SafeUser, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, storeErr("find user", err)
	}
	safe := user.Safe()
	return &safe, nil
}

func (r *userRepository) FindCredentials(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, storeErr("find user by email", err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, storeErr("count users by email", err)
	}
	return count > 0, nil
}

func (r *userRepository) filtered(ctx context.Context, filter UserFilter) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.User{})
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", like, like)
	}
	return tx
}

func (r *userRepository) List(ctx context.Context, filter UserFilter, page Page) ([]model.SafeUser, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, storeErr("count users", err)
	}

	var users []model.User
	err := r.filtered(ctx, filter).
		Order("created_at DESC").Order("id").
		Offset(page.Offset()).Limit(page.Size).
		Find(&users).Error
	if err != nil {
		return nil, 0, storeErr("list users", err)
	}

	safe := make([]model.SafeUser, 0, len(users))
	for i := range users {
		safe = append(safe, users[i].Safe())
	}
	return safe, total, nil
}

func (r *userRepository) Update(ctx context.Context, id uuid.UUID, changes UserChanges) (*model.SafeUser, error) {
	updates := map[string]interface{}{}
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.Email != nil {
		updates["email"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		updates["password_hash"] = *changes.PasswordHash
	}
	if changes.Role != nil {
		updates["role"] = *changes.Role
	}

	if len(updates) > 0 {
		err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		if err != nil {
			return nil, storeErr("update user", err)
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the user together with the attempts they own.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return storeErr("delete user", err)
}
