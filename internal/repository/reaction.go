package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"postboard/internal/models"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Upsert records the user's reaction to a post, replacing any earlier one.
func (r *ReactionRepository) Upsert(ctx context.Context, userID, postID uuid.UUID, isLike bool) error {
	reaction := models.Reaction{UserID: userID, PostID: postID, IsLike: isLike}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"is_like":    isLike,
			"updated_at": time.Now(),
		}),
	}).Create(&reaction).Error
	if err != nil {
		return fmt.Errorf("upsert reaction on %s: %w", postID, translate(err))
	}
	return nil
}

func (r *ReactionRepository) Counts(ctx context.Context, postID uuid.UUID) (models.ReactionCounts, error) {
	var counts models.ReactionCounts
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select(`COALESCE(SUM(CASE WHEN is_like THEN 1 ELSE 0 END), 0) AS likes,
			COALESCE(SUM(CASE WHEN NOT is_like THEN 1 ELSE 0 END), 0) AS dislikes`).
		Where("post_id = ?", postID).
		Scan(&counts).Error
	if err != nil {
		return counts, fmt.Errorf("count reactions on %s: %w", postID, err)
	}
	return counts, nil
}
