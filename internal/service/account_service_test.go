package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/medtrack/internal/domain"
)

var testTTLs = TokenTTLs{
	Activation: 24 * time.Hour,
	Reset:      time.Hour,
	Session:    30 * 24 * time.Hour,
}

func newAccountService(t *testing.T) (*AccountService, *captureMailer) {
	t.Helper()
	env := newTestEnv(t)
	mailer := newCaptureMailer()
	return NewAccountService(env.users, env.tokens, mailer, testTTLs, testLogger()), mailer
}

func register(t *testing.T, svc *AccountService, username, email string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "correct horse",
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	svc, mailer := newAccountService(t)

	user := register(t, svc, "alex", "alex@example.com")
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.IsActive, "accounts start inactive")
	assert.NotEmpty(t, mailer.activation["alex@example.com"], "registration sends an activation token")
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "ab", Email: "a@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Register(ctx, RegisterInput{Username: "alex", Email: "not-an-email", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, RegisterInput{Username: "alex", Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAccountService(t)

	register(t, svc, "alex", "alex@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "other",
		Email:    "alex@example.com",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestActivateWithToken(t *testing.T) {
	svc, mailer := newAccountService(t)
	ctx := context.Background()

	user := register(t, svc, "alex", "alex@example.com")
	token := mailer.activation["alex@example.com"]

	activated, err := svc.ActivateWithToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, activated.ID)
	assert.True(t, activated.IsActive)

	_, err = svc.ActivateWithToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound, "activation tokens are single use")
}

func TestLoginAfterRegister(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	user := register(t, svc, "alex", "alex@example.com")

	loggedIn, session, err := svc.Login(ctx, "alex", "correct horse")
	require.NoError(t, err, "freshly registered credentials must log in")
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.False(t, loggedIn.IsActive, "the account is still pending activation")
	assert.NotEmpty(t, session)
}

func TestLoginLifecycle(t *testing.T) {
	svc, mailer := newAccountService(t)
	ctx := context.Background()

	user := register(t, svc, "alex", "alex@example.com")

	// Activation is not required for login; the flag rides along.
	pending, _, err := svc.Login(ctx, "alex", "correct horse")
	require.NoError(t, err)
	assert.False(t, pending.IsActive)

	_, err = svc.ActivateWithToken(ctx, mailer.activation["alex@example.com"])
	require.NoError(t, err)

	loggedIn, session, err := svc.Login(ctx, "alex", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, session)

	authed, err := svc.Authenticate(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	require.NoError(t, svc.Logout(ctx, session))

	_, err = svc.Authenticate(ctx, session)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)

	assert.NoError(t, svc.Logout(ctx, session), "logging out twice is not an error")
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, mailer := newAccountService(t)
	ctx := context.Background()

	register(t, svc, "alex", "alex@example.com")
	_, err := svc.ActivateWithToken(ctx, mailer.activation["alex@example.com"])
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "alex", "wrong password")
	_, _, unknownUser := svc.Login(ctx, "nobody", "wrong password")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownUser, "callers must not learn whether the username exists")
}

func TestLoginSharedUsername(t *testing.T) {
	svc, mailer := newAccountService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{Username: "alex", Email: "first@example.com", Password: "first password"})
	require.NoError(t, err)
	second, err := svc.Register(ctx, RegisterInput{Username: "alex", Email: "second@example.com", Password: "second password"})
	require.NoError(t, err)

	_, err = svc.ActivateWithToken(ctx, mailer.activation["first@example.com"])
	require.NoError(t, err)
	_, err = svc.ActivateWithToken(ctx, mailer.activation["second@example.com"])
	require.NoError(t, err)

	got, _, err := svc.Login(ctx, "alex", "second password")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID, "the password selects among accounts sharing the username")

	got, _, err = svc.Login(ctx, "alex", "first password")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	user := register(t, svc, "alex", "alex@example.com")

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Username:  "sasha",
		FirstName: "Sasha",
	})
	require.NoError(t, err)
	assert.Equal(t, "sasha", updated.Username)
	assert.Equal(t, "Sasha", updated.FirstName)
	assert.Equal(t, "alex@example.com", updated.Email, "empty input fields are kept, not cleared")
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	register(t, svc, "other", "taken@example.com")
	user := register(t, svc, "alex", "alex@example.com")

	_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Email: "taken@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUpdateProfileKeepOwnEmail(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	user := register(t, svc, "alex", "alex@example.com")

	_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Email: "alex@example.com"})
	assert.NoError(t, err, "re-submitting the current email is not a uniqueness violation")
}

func TestPasswordResetFlow(t *testing.T) {
	svc, mailer := newAccountService(t)
	ctx := context.Background()

	register(t, svc, "alex", "alex@example.com")
	_, err := svc.ActivateWithToken(ctx, mailer.activation["alex@example.com"])
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "alex@example.com"))
	token := mailer.reset["alex@example.com"]
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "brand new password"))

	_, _, err = svc.Login(ctx, "alex", "correct horse")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "the old password no longer verifies")

	_, _, err = svc.Login(ctx, "alex", "brand new password")
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, token, "yet another password")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound, "reset tokens are single use")
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	svc, mailer := newAccountService(t)

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.NoError(t, err, "the endpoint must not reveal which addresses are registered")
	assert.Empty(t, mailer.reset)
}
