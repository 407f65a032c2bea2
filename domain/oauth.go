package domain

import (
	"time"
)

// OAuthProviderGithub is the only external sign-in provider supported so far.
const OAuthProviderGithub = "github"

// OAuth links a User to an identity at an external sign-in provider.
type OAuth struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id" gorm:"notNull;index"`
	User           *User  `json:"user"`
	Provider       string `json:"provider" gorm:"notNull;uniqueIndex:idx_oauths_provider_user"`
	ProviderUserID string `json:"provider_user_id" gorm:"notNull;uniqueIndex:idx_oauths_provider_user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthService is a set of methods to manipulate and work with the OAuth model.
type OAuthService interface {
	ByProviderUserID(provider, providerUserID string) (*OAuth, error)
	Create(oauth *OAuth) error
}
