package crud

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goNetwork/domain"
	"goNetwork/errs"
)

func TestUserCreate(t *testing.T) {
	s := testServices(t)

	user := &domain.User{
		Username: "alice",
		Email:    "Alice@Example.com ",
		Password: "password123",
	}
	require.NoError(t, s.User.Create(user))

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	// The plain password never survives creation, only its hash does.
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEmpty(t, user.Remember)
	assert.NotEmpty(t, user.RememberHash)
}

func TestUserCreate_Validations(t *testing.T) {
	s := testServices(t)
	createTestUser(t, s, "alice")

	cases := []struct {
		name string
		user domain.User
	}{
		{"username taken", domain.User{Username: "alice", Email: "other@example.com", Password: "password123"}},
		{"username missing", domain.User{Email: "other@example.com", Password: "password123"}},
		{"email taken", domain.User{Username: "bob", Email: "alice@example.com", Password: "password123"}},
		{"email invalid", domain.User{Username: "bob", Email: "not-an-email", Password: "password123"}},
		{"password missing", domain.User{Username: "bob", Email: "bob@example.com"}},
		{"password too short", domain.User{Username: "bob", Email: "bob@example.com", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.User.Create(&tc.user)
			require.Error(t, err)
			assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
		})
	}
}

func TestUserAuthenticate(t *testing.T) {
	s := testServices(t)
	created := createTestUser(t, s, "alice")

	user, err := s.User.Authenticate("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	// The submitted email is normalized the same way registration does it.
	user, err = s.User.Authenticate(" Alice@Example.COM ", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = s.User.Authenticate("alice@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = s.User.Authenticate("nobody@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestHMACHashConcurrent(t *testing.T) {
	h := newHMAC("test-hmac-key")
	want := h.hash("some-remember-token")

	// The one HMAC instance is shared by every request through the authUser
	// middleware, so hashing the same input from many goroutines must stay
	// race free and deterministic.
	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.hash("some-remember-token")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestUserByRememberConcurrent(t *testing.T) {
	s := testServices(t)
	created := createTestUser(t, s, "alice")

	var wg sync.WaitGroup
	errors := make([]error, 32)
	for i := range errors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := s.User.ByRemember(created.Remember)
			if err == nil && user.ID != created.ID {
				err = fmt.Errorf("resolved wrong user %d", user.ID)
			}
			errors[i] = err
		}(i)
	}
	wg.Wait()

	for _, err := range errors {
		assert.NoError(t, err)
	}
}

func TestUserByRemember(t *testing.T) {
	s := testServices(t)
	created := createTestUser(t, s, "alice")

	user, err := s.User.ByRemember(created.Remember)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = s.User.ByRemember("bogus-token")
	require.Error(t, err)
}
