package domain

import (
	"time"
)

// FeedPageSize is the fixed number of posts per feed page.
const FeedPageSize = 10

// audienceKind discriminates the three Audience variants.
type audienceKind int

const (
	audienceEveryone audienceKind = iota
	audienceSingleUser
	audienceUserSet
)

// Audience describes whose posts populate a feed view. It's a tagged variant
// over three cases: everyone, a single user (profile pages), or a set of
// users (the authors a viewer follows). Construct it with one of Everyone,
// SingleUser or UserSet.
type Audience struct {
	kind    audienceKind
	userIDs []int
}

// Everyone returns the Audience matching all posts.
func Everyone() Audience {
	return Audience{kind: audienceEveryone}
}

// SingleUser returns the Audience matching posts by one author.
func SingleUser(userID int) Audience {
	return Audience{kind: audienceSingleUser, userIDs: []int{userID}}
}

// UserSet returns the Audience matching posts by any of the given authors.
// An empty set matches no posts at all, not all of them.
func UserSet(userIDs []int) Audience {
	return Audience{kind: audienceUserSet, userIDs: userIDs}
}

// All reports whether the Audience places no restriction on the author.
func (a Audience) All() bool {
	return a.kind == audienceEveryone
}

// UserIDs returns the author IDs the Audience is restricted to.
// It's only meaningful when All returns false.
func (a Audience) UserIDs() []int {
	return a.userIDs
}

// AnnotatedPost is a post plus the viewer-relative metadata a feed shows:
// the author's name, the total like count, and whether the viewer has liked
// it. LikedByRequester is nil (and omitted from JSON) when the feed was
// assembled without a requesting user.
type AnnotatedPost struct {
	ID               int        `json:"id"`
	AuthorID         int        `json:"authorId"`
	AuthorUsername   string     `json:"authorUsername"`
	Body             string     `json:"body"`
	CreatedAt        time.Time  `json:"createdAt"`
	Edited           bool       `json:"edited"`
	EditedAt         *time.Time `json:"editedAt,omitempty"`
	LikesCount       int        `json:"likesCount"`
	LikedByRequester *bool      `json:"likedByRequester,omitempty"`
}

// Feed is the response envelope of a feed query. ActiveUser carries the
// requesting user's name for client display, as a field of its own rather
// than as a sentinel entry in the post list.
type Feed struct {
	Posts      []AnnotatedPost `json:"posts"`
	ActiveUser string          `json:"activeUser"`
}

// FeedService assembles ordered, paginated, annotated feed pages.
type FeedService interface {
	GetFeed(audience Audience, requester *User, page int) (*Feed, error)
}
