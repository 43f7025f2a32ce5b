package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"postboard/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, translate(err))
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, translate(err))
	}
	return &user, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

// CreateWithProfile inserts the user and its default profile in one
// transaction. A unique violation is returned as ErrDuplicate.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User) (*models.Profile, error) {
	var profile *models.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile = &models.Profile{
			UserID:       user.ID,
			ProfileImage: models.DefaultProfileImage,
		}
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", user.Username, translate(err))
	}
	user.Profile = profile
	return profile, nil
}

// ListProfiles returns every user's profile summary, oldest account first.
func (r *UserRepository) ListProfiles(ctx context.Context) ([]models.ProfileSummary, error) {
	summaries := []models.ProfileSummary{}
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("profiles.id AS profile_id, users.username, profiles.profile_image").
		Joins("JOIN users ON users.id = profiles.user_id").
		Order("users.created_at ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return summaries, nil
}
