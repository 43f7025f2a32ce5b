// Package repository wraps the gorm queries the handlers run.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingParent is a foreign key violation, e.g. the post was
	// deleted between the existence check and the insert.
	ErrMissingParent = errors.New("referenced record does not exist")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrMissingParent
	}
	return err
}

// Repositories groups every repository over one connection.
type Repositories struct {
	Users     *UserRepository
	Profiles  *ProfileRepository
	Posts     *PostRepository
	Comments  *CommentRepository
	Reactions *ReactionRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Profiles:  NewProfileRepository(db),
		Posts:     NewPostRepository(db),
		Comments:  NewCommentRepository(db),
		Reactions: NewReactionRepository(db),
	}
}
