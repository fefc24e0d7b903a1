package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/backend/internal/auth"
)

func newAuthService() (*AuthService, *auth.Verifier, *fakeUserRepo) {
	users := newFakeUserRepo()
	verifier := auth.NewVerifier("test-secret", time.Hour)
	return NewAuthService(users, verifier), verifier, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, verifier, _ := newAuthService()

	input := RegisterInput{
		Email:     "Alice@Campus.EDU",
		FirstName: " Alice ",
		LastName:  "Stone",
		Password:  "correct-horse",
	}

	reg, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "alice@campus.edu", reg.User.Email)
	assert.Equal(t, "Alice", reg.User.FirstName)
	assert.NotEqual(t, "correct-horse", reg.User.PasswordHash, "password stored hashed")

	// The issued credential verifies back to the same user.
	userID, err := verifier.Verify(reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)

	login, err := svc.Login(context.Background(), LoginInput{Email: "alice@campus.edu", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService()

	input := RegisterInput{Email: "alice@campus.edu", FirstName: "Alice", LastName: "Stone", Password: "correct-horse"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, users := newAuthService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "alice@campus.edu", FirstName: "Alice", LastName: "Stone", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "alice@campus.edu", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@campus.edu", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	// Deactivated accounts cannot log in.
	for _, u := range users.users {
		u.IsActive = false
	}
	_, err = svc.Login(context.Background(), LoginInput{Email: "alice@campus.edu", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}
