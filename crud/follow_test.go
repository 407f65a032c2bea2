package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goNetwork/domain"
	"goNetwork/errs"
)

func TestFollowCreateAndDelete(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	require.NoError(t, s.Follow.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID}))

	following, err := s.Follow.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followees, err := s.Follow.Followees(alice.ID)
	require.NoError(t, err)
	assert.Contains(t, followees, bob.ID)

	count, err := s.Follow.FollowerCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = s.Follow.FolloweeCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The edge is directed, nothing exists the other way around.
	following, err = s.Follow.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, s.Follow.Delete(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID}))
	followees, err = s.Follow.Followees(alice.ID)
	require.NoError(t, err)
	assert.NotContains(t, followees, bob.ID)
}

func TestFollowCreate_Duplicate(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	require.NoError(t, s.Follow.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID}))

	err := s.Follow.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID})
	require.Error(t, err)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))

	count, err := s.Follow.FollowerCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFollowCreate_DuplicateRace(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	// Going through followGorm directly skips the advisory existence check,
	// the way a racing request would. The unique index has to reject it.
	require.NoError(t, s.Follow.followGorm.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID}))
	err := s.Follow.followGorm.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID})
	require.Error(t, err)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
}

func TestFollowDelete_NotFollowing(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	err := s.Follow.Delete(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID})
	require.Error(t, err)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
}

func TestFollowCreate_MissingUser(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")

	err := s.Follow.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: 9999})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestFollowCreate_SelfFollowAllowed(t *testing.T) {
	s := testServices(t)
	alice := createTestUser(t, s, "alice")

	require.NoError(t, s.Follow.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: alice.ID}))

	following, err := s.Follow.IsFollowing(alice.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, following)
}
