package domain

import (
	"time"
)

// User represents a registered user of the network. The Password and Remember
// fields only ever hold data in memory while a request is being processed,
// their hashed counterparts are what actually gets stored in the database.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" gorm:"notNull;uniqueIndex"`
	Email    string `json:"email" gorm:"notNull;uniqueIndex"`

	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-" gorm:"notNull"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
// It also covers the database-facing half of the authentication system.
type UserService interface {
	Authenticate(email, password string) (*User, error)
	MakeRememberToken() (string, error)
	ByID(id int) (*User, error)
	ByEmail(email string) (*User, error)
	ByUsername(username string) (*User, error)
	ByRemember(token string) (*User, error)
	Create(user *User) error
	Update(user *User) error
}
