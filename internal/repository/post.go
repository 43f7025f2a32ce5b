package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"postboard/internal/models"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", translate(err))
	}
	return nil
}

const postViewColumns = `posts.id, posts.user_id, users.username, profiles.profile_image,
	posts.title, posts.content, posts.created_at, posts.updated_at,
	COALESCE(SUM(CASE WHEN reactions.is_like THEN 1 ELSE 0 END), 0) AS likes,
	COALESCE(SUM(CASE WHEN NOT reactions.is_like THEN 1 ELSE 0 END), 0) AS dislikes`

const postViewGroup = `posts.id, posts.user_id, users.username, profiles.profile_image,
	posts.title, posts.content, posts.created_at, posts.updated_at`

func (r *PostRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(postViewColumns).
		Joins("JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN profiles ON profiles.user_id = posts.user_id").
		Joins("LEFT JOIN reactions ON reactions.post_id = posts.id").
		Group(postViewGroup)
}

// List returns every post with its reaction tallies, newest first.
func (r *PostRepository) List(ctx context.Context) ([]models.PostView, error) {
	posts := []models.PostView{}
	if err := r.views(ctx).Order("posts.created_at DESC").Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) FindView(ctx context.Context, id uuid.UUID) (*models.PostView, error) {
	var posts []models.PostView
	if err := r.views(ctx).Where("posts.id = ?", id).Scan(&posts).Error; err != nil {
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("find post %s: %w", id, ErrNotFound)
	}
	return &posts[0], nil
}

func (r *PostRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count post %s: %w", id, err)
	}
	return count > 0, nil
}

// OwnerOf returns the author of a post.
func (r *PostRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", id).First(&post).Error
	if err != nil {
		return uuid.Nil, fmt.Errorf("find post %s: %w", id, translate(err))
	}
	return post.UserID, nil
}

// Delete removes the post with its comments and reactions atomically.
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
