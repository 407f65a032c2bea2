package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goNetwork/domain"
	"goNetwork/errs"
)

func TestPostCreate(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")

	post := &domain.Post{UserID: alice.ID, Body: "first!"}
	require.NoError(t, s.Post.Create(post))
	assert.NotZero(t, post.ID)
	assert.False(t, post.Edited)
	assert.Nil(t, post.EditedAt)
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, "alice", post.User.Username)
}

func TestPostCreate_BlankBody(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")

	for _, body := range []string{"", "   ", "\t\n"} {
		err := s.Post.Create(&domain.Post{UserID: alice.ID, Body: body})
		require.Error(t, err)
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	}
}

func TestPostEdit(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")

	post := &domain.Post{UserID: alice.ID, Body: "original"}
	require.NoError(t, s.Post.Create(post))

	require.NoError(t, s.Post.Edit(post, "updated"))
	assert.Equal(t, "updated", post.Body)
	assert.True(t, post.Edited)
	require.NotNil(t, post.EditedAt)

	// The change is persisted, not just set on the in-memory object.
	fetched, err := s.Post.ByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", fetched.Body)
	assert.True(t, fetched.Edited)
	assert.NotNil(t, fetched.EditedAt)
	assert.WithinDuration(t, post.CreatedAt, fetched.CreatedAt, time.Second)
}

func TestPostEdit_BlankBodyAllowed(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")

	post := &domain.Post{UserID: alice.ID, Body: "original"}
	require.NoError(t, s.Post.Create(post))

	require.NoError(t, s.Post.Edit(post, ""))
	fetched, err := s.Post.ByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "", fetched.Body)
	assert.True(t, fetched.Edited)
}

func TestPostByID_NotFound(t *testing.T) {
	s := testServices(t)

	_, err := s.Post.ByID(42)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}
