package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"postboard/internal/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("find profile of %s: %w", userID, translate(err))
	}
	return &profile, nil
}

// View joins the profile with the owner's username.
func (r *ProfileRepository) View(ctx context.Context, user *models.User) (*models.ProfileView, error) {
	profile, err := r.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.ProfileView{
		ID:           profile.ID,
		UserID:       user.ID,
		Username:     user.Username,
		ProfileImage: profile.ProfileImage,
		Bio:          profile.Bio,
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}, nil
}

func (r *ProfileRepository) UpdateImage(ctx context.Context, userID uuid.UUID, image string) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("profile_image", image)
	if res.Error != nil {
		return fmt.Errorf("update profile image of %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update profile image of %s: %w", userID, ErrNotFound)
	}
	return nil
}
