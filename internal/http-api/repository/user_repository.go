package repository

import (
	"context"
	"fmt"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, search string, page Page) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	SetConfirmationCode(ctx context.Context, id, code string) error
	// ConsumeConfirmationCode clears the code and activates the user only if
	// code is still the stored one. It reports whether the row was updated.
	ConsumeConfirmationCode(ctx context.Context, id, code string) (bool, error)
	Activate(ctx context.Context, id string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List returns users ordered by username, optionally filtered by a
// case-insensitive username substring.
func (r *userRepository) List(ctx context.Context, search string, page Page) ([]models.User, int64, error) {
	page = page.Normalize()
	q := conn(ctx, r.db).Model(&models.User{})
	if search != "" {
		q = q.Where("LOWER(username)"+likeClause, likePattern(search))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	if err := q.Order("username asc").Limit(page.Limit).Offset(page.Offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Update saves the profile columns of user. Confirmation state is left alone.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := conn(ctx, r.db).Model(user).
		Select("Username", "Email", "FirstName", "LastName", "Bio", "Role").
		Updates(user).Error
	if err != nil {
		return fmt.Errorf("update user: %w", translate(err))
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) SetConfirmationCode(ctx context.Context, id, code string) error {
	result := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Update("confirmation_code", code)
	if result.Error != nil {
		return fmt.Errorf("set confirmation code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) ConsumeConfirmationCode(ctx context.Context, id, code string) (bool, error) {
	result := conn(ctx, r.db).Model(&models.User{}).
		Where("id = ? AND confirmation_code = ?", id, code).
		Updates(map[string]interface{}{
			"confirmation_code": gorm.Expr("NULL"),
			"is_active":         true,
		})
	if result.Error != nil {
		return false, fmt.Errorf("consume confirmation code: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) Activate(ctx context.Context, id string) error {
	err := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Update("is_active", true).Error
	if err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	return nil
}
