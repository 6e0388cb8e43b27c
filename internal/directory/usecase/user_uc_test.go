package usecase

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staco-app/directory-service/internal/directory/domain"
	"github.com/staco-app/directory-service/internal/directory/validation"
)

const testJWTSecret = "test-secret"

func newUserFixture(t *testing.T) (*UserUsecase, *fakeUserRepo, *fakeTokenStore, *fakeMailer) {
	t.Helper()
	repo := newFakeUserRepo()
	tokens := newFakeTokenStore()
	mail := &fakeMailer{}
	uc := NewUserUsecase(repo, tokens, mail, testLogger(), testJWTSecret, nil)
	return uc, repo, tokens, mail
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName:   "Bob",
		LastName:    "Smith",
		PhoneNumber: "5551234567",
		University:  "MIT",
		Email:       "bob@mit.edu",
		Password:    "Secretpw1",
	}
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	uc, _, tokens, mail := newUserFixture(t)

	user, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.False(t, user.IsEmailVerified)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "Secretpw1", user.PasswordHash)
	assert.Equal(t, []string{"bob@mit.edu"}, mail.verifications)
	assert.NotEmpty(t, tokens.last)
}

func TestRegisterRejectsNonStudentEmail(t *testing.T) {
	uc, repo, _, mail := newUserFixture(t)

	in := registerInput()
	in.Email = "bob@gmail.com"
	_, err := uc.Register(context.Background(), in)

	var v validation.Violations
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "a university email address is required", v["email"])
	assert.Empty(t, repo.users)
	assert.Empty(t, mail.verifications)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, _, _ := newUserFixture(t)

	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), registerInput())
	var v validation.Violations
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "already registered", v["email"])
}

func TestVerifyThenLogin(t *testing.T) {
	uc, _, tokens, _ := newUserFixture(t)

	user, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	// Unverified accounts cannot log in.
	_, _, err = uc.Login(context.Background(), user.Email, "Secretpw1")
	assert.ErrorIs(t, err, domain.ErrEmailNotVerified)

	require.NoError(t, uc.VerifyEmail(context.Background(), tokens.last))

	token, logged, err := uc.Login(context.Background(), user.Email, "Secretpw1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.True(t, logged.IsEmailVerified)

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	uc, _, tokens, _ := newUserFixture(t)

	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	token := tokens.last

	require.NoError(t, uc.VerifyEmail(context.Background(), token))
	assert.ErrorIs(t, uc.VerifyEmail(context.Background(), token), domain.ErrUnauthenticated)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	uc, _, _, _ := newUserFixture(t)
	assert.ErrorIs(t, uc.VerifyEmail(context.Background(), "bogus"), domain.ErrUnauthenticated)
}

func TestResendVerification(t *testing.T) {
	uc, _, tokens, mail := newUserFixture(t)

	user, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	first := tokens.last

	require.NoError(t, uc.ResendVerification(context.Background(), user.Email))
	assert.NotEqual(t, first, tokens.last)
	assert.Len(t, mail.verifications, 2)

	// Verified accounts are a no-op.
	require.NoError(t, uc.VerifyEmail(context.Background(), tokens.last))
	require.NoError(t, uc.ResendVerification(context.Background(), user.Email))
	assert.Len(t, mail.verifications, 2)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _, tokens, _ := newUserFixture(t)

	user, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NoError(t, uc.VerifyEmail(context.Background(), tokens.last))

	_, _, err = uc.Login(context.Background(), user.Email, "WrongPass1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	uc, _, _, _ := newUserFixture(t)

	_, _, err := uc.Login(context.Background(), "nobody@mit.edu", "Secretpw1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateProfileKeepsEmail(t *testing.T) {
	uc, _, _, _ := newUserFixture(t)

	user, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	got, err := uc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{
		FirstName:   "Robert",
		LastName:    "Smith",
		PhoneNumber: "5550001111",
		University:  "Stanford",
	})
	require.NoError(t, err)
	assert.Equal(t, "Robert", got.FirstName)
	assert.Equal(t, "Stanford", got.University)
	assert.Equal(t, user.Email, got.Email)
}

func TestUpdateProfileValidates(t *testing.T) {
	uc, _, _, _ := newUserFixture(t)

	user, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = uc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{
		FirstName:   "",
		LastName:    "Smith",
		PhoneNumber: "123",
		University:  "MIT",
	})
	var v validation.Violations
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v, "firstName")
	assert.Contains(t, v, "phoneNumber")
}
