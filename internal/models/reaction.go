package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction is a like (IsLike) or dislike. One per user and post.
type Reaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_user_post" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reaction_user_post" json:"post_id"`
	Post      *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsLike    bool      `gorm:"not null" json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Reaction) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type ReactionCounts struct {
	Likes    int64 `json:"like_count"`
	Dislikes int64 `json:"dislike_count"`
}

// All is the model list passed to AutoMigrate.
func All() []any {
	return []any{&User{}, &Profile{}, &Post{}, &Comment{}, &Reaction{}}
}
