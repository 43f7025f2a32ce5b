package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"postboard/internal/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment on %s: %w", comment.PostID, translate(err))
	}
	return nil
}

// ListByPost returns the comments of a post, newest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.CommentView, error) {
	comments := []models.CommentView{}
	err := r.db.WithContext(ctx).
		Table("comments").
		Select(`comments.id, comments.user_id, comments.post_id, users.username,
			profiles.profile_image, comments.content, comments.created_at, comments.updated_at`).
		Joins("JOIN users ON users.id = comments.user_id").
		Joins("LEFT JOIN profiles ON profiles.user_id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC").
		Scan(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments of %s: %w", postID, err)
	}
	return comments, nil
}
