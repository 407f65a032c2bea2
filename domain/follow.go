package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two
// users. A Follow is created when one user decides to follow another user.
// The FollowerID is the ID of the user that follows, and the FollowedID is
// the ID of the user that is being followed. The unique index on the pair is
// the authoritative guard against duplicate edges, the existence checks in
// the service layer are advisory.
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"-" gorm:"notNull;uniqueIndex:idx_follows_follower_followed"`
	Follower   User      `json:"follower"`
	FollowedID int       `json:"-" gorm:"notNull;uniqueIndex:idx_follows_follower_followed"`
	Followed   User      `json:"followed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow
// model. The query methods answer the social-graph questions the feed and
// profile views need.
type FollowService interface {
	Create(follow *Follow) error
	Delete(follow *Follow) error
	Followees(userID int) ([]int, error)
	FollowerCount(userID int) (int, error)
	FolloweeCount(userID int) (int, error)
	IsFollowing(followerID, followedID int) (bool, error)
}
