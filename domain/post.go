package domain

import (
	"time"
)

// Post represents a short text message published by a user. Posts are only
// ever created and edited by their author, never deleted. Edited and EditedAt
// record whether and when the author last changed the body.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id" gorm:"notNull;index"`
	User   User   `json:"user"`
	Body   string `json:"body"`

	Edited   bool       `json:"edited" gorm:"notNull;default:false"`
	EditedAt *time.Time `json:"edited_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostService is a set of methods to manipulate and work with the Post model.
type PostService interface {
	ByID(id int) (*Post, error)
	Create(post *Post) error
	Edit(post *Post, newBody string) error
}
