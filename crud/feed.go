package crud

import (
	"gorm.io/gorm"

	"goNetwork/domain"
)

// FeedService assembles feed pages: it resolves the audience filter into a
// query, orders and paginates the matching posts, and annotates each one
// with its like count and, when a requester is present, whether the
// requester has liked it. It implements the domain.FeedService interface.
type FeedService struct {
	feedGorm
}

// feedGorm runs the feed queries against the database.
type feedGorm struct {
	db *gorm.DB
}

// NewFeedService returns an instance of FeedService.
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{
		feedGorm{
			db: db,
		},
	}
}

// Ensure the FeedService struct properly implements the domain.FeedService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FeedService = &FeedService{}

// GetFeed returns one page of the feed described by the audience, newest
// posts first. Pages are 1-indexed and fixed at domain.FeedPageSize posts.
// A page number below 1 is treated as page 1, a page past the end of the
// feed yields an empty page rather than an error.
func (fg *feedGorm) GetFeed(audience domain.Audience, requester *domain.User, page int) (*domain.Feed, error) {
	if page < 1 {
		page = 1
	}

	query := fg.db.
		Preload("User").
		Order("created_at desc, id desc").
		Offset((page - 1) * domain.FeedPageSize).
		Limit(domain.FeedPageSize)
	if !audience.All() {
		query = query.Where("user_id IN ?", audience.UserIDs())
	}

	var posts []domain.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}

	feed := &domain.Feed{
		Posts: make([]domain.AnnotatedPost, 0, len(posts)),
	}
	if requester != nil {
		feed.ActiveUser = requester.Username
	}
	for _, post := range posts {
		annotated, err := fg.annotate(post, requester)
		if err != nil {
			return nil, err
		}
		feed.Posts = append(feed.Posts, annotated)
	}
	return feed, nil
}

// annotate attaches the viewer-relative metadata to a single post.
func (fg *feedGorm) annotate(post domain.Post, requester *domain.User) (domain.AnnotatedPost, error) {
	annotated := domain.AnnotatedPost{
		ID:             post.ID,
		AuthorID:       post.UserID,
		AuthorUsername: post.User.Username,
		Body:           post.Body,
		CreatedAt:      post.CreatedAt,
		Edited:         post.Edited,
		EditedAt:       post.EditedAt,
	}

	var likes int64
	err := fg.db.Model(&domain.Like{}).Where("post_id = ?", post.ID).Count(&likes).Error
	if err != nil {
		return domain.AnnotatedPost{}, err
	}
	annotated.LikesCount = int(likes)

	if requester != nil {
		var own int64
		err := fg.db.
			Model(&domain.Like{}).
			Where("user_id = ? AND post_id = ?", requester.ID, post.ID).
			Count(&own).Error
		if err != nil {
			return domain.AnnotatedPost{}, err
		}
		liked := own > 0
		annotated.LikedByRequester = &liked
	}
	return annotated, nil
}
