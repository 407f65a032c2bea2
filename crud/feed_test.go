package crud

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goNetwork/domain"
)

func TestGetFeed_OrderAndPagination(t *testing.T) {
	s := testServices(t)
	author := createTestUser(t, s, "alice")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		createTestPost(t, s, author, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := s.Feed.GetFeed(domain.Everyone(), nil, 1)
	require.NoError(t, err)
	require.Len(t, page1.Posts, domain.FeedPageSize)

	// Newest first, strictly descending.
	for i := 1; i < len(page1.Posts); i++ {
		assert.True(t, page1.Posts[i].CreatedAt.Before(page1.Posts[i-1].CreatedAt))
	}
	assert.Equal(t, "post 24", page1.Posts[0].Body)

	// Pages are disjoint and contiguous.
	page2, err := s.Feed.GetFeed(domain.Everyone(), nil, 2)
	require.NoError(t, err)
	require.Len(t, page2.Posts, domain.FeedPageSize)
	assert.Equal(t, "post 14", page2.Posts[0].Body)
	seen := make(map[int]bool)
	for _, p := range page1.Posts {
		seen[p.ID] = true
	}
	for _, p := range page2.Posts {
		assert.False(t, seen[p.ID])
	}

	page3, err := s.Feed.GetFeed(domain.Everyone(), nil, 3)
	require.NoError(t, err)
	assert.Len(t, page3.Posts, 5)

	// Past the end of the feed: an empty page, not an error.
	page4, err := s.Feed.GetFeed(domain.Everyone(), nil, 4)
	require.NoError(t, err)
	assert.NotNil(t, page4.Posts)
	assert.Empty(t, page4.Posts)

	// Page numbers below 1 are treated as page 1.
	pageZero, err := s.Feed.GetFeed(domain.Everyone(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, page1.Posts, pageZero.Posts)
}

func TestGetFeed_Audience(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")
	carol := createTestUser(t, s, "carol")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	createTestPost(t, s, alice, "by alice", base)
	createTestPost(t, s, bob, "by bob", base.Add(time.Minute))
	createTestPost(t, s, carol, "by carol", base.Add(2*time.Minute))

	everyone, err := s.Feed.GetFeed(domain.Everyone(), nil, 1)
	require.NoError(t, err)
	assert.Len(t, everyone.Posts, 3)

	single, err := s.Feed.GetFeed(domain.SingleUser(bob.ID), nil, 1)
	require.NoError(t, err)
	require.Len(t, single.Posts, 1)
	assert.Equal(t, "by bob", single.Posts[0].Body)
	assert.Equal(t, "bob", single.Posts[0].AuthorUsername)
	assert.Equal(t, bob.ID, single.Posts[0].AuthorID)

	set, err := s.Feed.GetFeed(domain.UserSet([]int{alice.ID, carol.ID}), nil, 1)
	require.NoError(t, err)
	require.Len(t, set.Posts, 2)
	assert.Equal(t, "by carol", set.Posts[0].Body)
	assert.Equal(t, "by alice", set.Posts[1].Body)

	// An empty user set matches nothing, not everything.
	empty, err := s.Feed.GetFeed(domain.UserSet(nil), nil, 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)
}

func TestGetFeed_FollowingScenario(t *testing.T) {
	s := testServices(t)
	u1 := createTestUser(t, s, "u1")
	u2 := createTestUser(t, s, "u2")
	u3 := createTestUser(t, s, "u3")

	require.NoError(t, s.Follow.Create(&domain.Follow{FollowerID: u1.ID, FollowedID: u2.ID}))
	p3 := createTestPost(t, s, u2, "p3", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	followees, err := s.Follow.Followees(u1.ID)
	require.NoError(t, err)
	feed, err := s.Feed.GetFeed(domain.UserSet(followees), u1, 1)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, p3.ID, feed.Posts[0].ID)

	followees, err = s.Follow.Followees(u3.ID)
	require.NoError(t, err)
	feed, err = s.Feed.GetFeed(domain.UserSet(followees), u3, 1)
	require.NoError(t, err)
	assert.Empty(t, feed.Posts)
}

func TestGetFeed_Annotation(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	post := createTestPost(t, s, alice, "hello", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Like.Create(&domain.Like{UserID: alice.ID, PostID: post.ID}))
	require.NoError(t, s.Like.Create(&domain.Like{UserID: bob.ID, PostID: post.ID}))

	// Without a requester the viewer-relative flag is absent entirely.
	anon, err := s.Feed.GetFeed(domain.Everyone(), nil, 1)
	require.NoError(t, err)
	require.Len(t, anon.Posts, 1)
	assert.Equal(t, 2, anon.Posts[0].LikesCount)
	assert.Nil(t, anon.Posts[0].LikedByRequester)
	assert.Empty(t, anon.ActiveUser)

	asBob, err := s.Feed.GetFeed(domain.Everyone(), bob, 1)
	require.NoError(t, err)
	require.Len(t, asBob.Posts, 1)
	assert.Equal(t, 2, asBob.Posts[0].LikesCount)
	require.NotNil(t, asBob.Posts[0].LikedByRequester)
	assert.True(t, *asBob.Posts[0].LikedByRequester)
	assert.Equal(t, "bob", asBob.ActiveUser)

	carol := createTestUser(t, s, "carol")
	asCarol, err := s.Feed.GetFeed(domain.Everyone(), carol, 1)
	require.NoError(t, err)
	require.NotNil(t, asCarol.Posts[0].LikedByRequester)
	assert.False(t, *asCarol.Posts[0].LikedByRequester)
}

func TestGetFeed_TwoPostsScenario(t *testing.T) {
	s := testServices(t)
	u1 := createTestUser(t, s, "u1")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p1 := createTestPost(t, s, u1, "P1", base)
	p2 := createTestPost(t, s, u1, "P2", base.Add(time.Minute))

	feed, err := s.Feed.GetFeed(domain.Everyone(), u1, 1)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, p2.ID, feed.Posts[0].ID)
	assert.Equal(t, p1.ID, feed.Posts[1].ID)
}
