package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/domain"
	mailer "github.com/prn-tf/medtrack/internal/mail"
	"github.com/prn-tf/medtrack/internal/pkg/crypto"
	"github.com/prn-tf/medtrack/internal/repository"
)

// TokenTTLs configures the lifetimes of issued tokens.
type TokenTTLs struct {
	// Activation is the validity of account-activation tokens.
	Activation time.Duration

	// Reset is the validity of password-reset tokens.
	Reset time.Duration

	// Session is the validity of login session tokens.
	Session time.Duration
}

// AccountService handles registration, authentication, activation,
// profile updates and password resets.
type AccountService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	mailer mailer.Mailer
	ttls   TokenTTLs
	logger zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(users repository.UserRepository, tokens repository.TokenRepository, m mailer.Mailer, ttls TokenTTLs, logger zerolog.Logger) *AccountService {
	return &AccountService{
		users:  users,
		tokens: tokens,
		mailer: m,
		ttls:   ttls,
		logger: logger.With().Str("service", "account").Logger(),
	}
}

// RegisterInput contains the data needed to register an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new, inactive account and mails an activation
// token. The email must be unused; the username may already belong to
// other accounts.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := domain.NewUser(input.Username, input.Email, hash)
	user.FirstName = input.FirstName
	user.LastName = input.LastName

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to register user")
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, repository.TokenActivation, user.ID, s.ttls.Activation)
	if err != nil {
		// The account exists; the activation mail can be reissued.
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue activation token")
		return user, nil
	}
	if err := s.mailer.SendActivation(ctx, user.Email, token); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to send activation mail")
	}

	return user, nil
}

// Login authenticates a username/password pair and issues a session
// token. When several accounts share the username, the first whose
// password verifies wins. Activation does not gate login: the returned
// user carries IsActive for callers that want to restrict features.
// The failure for a wrong password is the same as for a username with
// no verifying account, so callers cannot learn which accounts exist.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	candidates, err := s.users.CandidatesByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug().Str("username", username).Msg("unknown username at login")
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	for _, user := range candidates {
		if !crypto.VerifyPassword(user.PasswordHash, password) {
			continue
		}
		session, err := s.tokens.Issue(ctx, repository.TokenSession, user.ID, s.ttls.Session)
		if err != nil {
			return nil, "", err
		}
		s.logger.Info().Str("user_id", user.ID).Str("username", username).Msg("user logged in")
		return user, session, nil
	}

	s.logger.Debug().Str("username", username).Msg("no candidate verified at login")
	return nil, "", domain.ErrInvalidCredentials
}

// Authenticate resolves a session token to its user.
func (s *AccountService) Authenticate(ctx context.Context, session string) (*domain.User, error) {
	userID, err := s.tokens.Peek(ctx, repository.TokenSession, session)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes a session token. Revoking an unknown token succeeds:
// the session is gone either way.
func (s *AccountService) Logout(ctx context.Context, session string) error {
	err := s.tokens.Revoke(ctx, repository.TokenSession, session)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// Activate flips a user to active. Idempotent: activating an already
// active account succeeds without a write.
func (s *AccountService) Activate(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if user.IsActive {
		return user, nil
	}

	user.IsActive = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Save(ctx, user, user.Username, user.Email); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("account activated")
	return user, nil
}

// ActivateWithToken consumes an activation token and activates the
// bound account.
func (s *AccountService) ActivateWithToken(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(ctx, repository.TokenActivation, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return s.Activate(ctx, userID)
}

// UpdateProfileInput contains profile fields to change. Empty strings
// leave the corresponding field untouched.
type UpdateProfileInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// UpdateProfile applies profile changes. Changing the email re-checks
// uniqueness against every account except the one being updated;
// keeping the same email is a no-op, not a violation. Changing the
// username migrates the shared-username index.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	prevUsername, prevEmail := user.Username, user.Email

	if input.Username != "" {
		if err := validateUsername(input.Username); err != nil {
			return nil, err
		}
		user.Username = input.Username
	}
	if input.Email != "" {
		if err := validateEmail(input.Email); err != nil {
			return nil, err
		}
		user.Email = input.Email
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Save(ctx, user, prevUsername, prevEmail); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("profile updated")
	return user, nil
}

// RequestPasswordReset issues a reset token and mails it. It succeeds
// whether or not the email belongs to an account, so the endpoint
// cannot be used to probe for registered addresses.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	userID, err := s.users.IDByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.tokens.Issue(ctx, repository.TokenPasswordReset, userID, s.ttls.Reset)
	if err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, email, token); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to send reset mail")
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the bound
// account's password.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	userID, err := s.tokens.Verify(ctx, repository.TokenPasswordReset, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTokenNotFound
		}
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Save(ctx, user, user.Username, user.Email); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 64 {
		return ErrInvalidUsername
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}
