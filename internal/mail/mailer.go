// Package mail defines the outbound email boundary. Actual delivery is
// outside the core: the interface exists so account flows can hand off
// activation and reset tokens, and deployments plug in a real sender.
package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// Mailer delivers account emails carrying single-use tokens.
type Mailer interface {
	// SendActivation sends an account-activation mail.
	SendActivation(ctx context.Context, to, token string) error

	// SendPasswordReset sends a password-reset mail.
	SendPasswordReset(ctx context.Context, to, token string) error
}

// Noop is a Mailer that silently discards everything. Used in tests
// and deployments without outbound mail.
type Noop struct{}

func (Noop) SendActivation(context.Context, string, string) error    { return nil }
func (Noop) SendPasswordReset(context.Context, string, string) error { return nil }

// LogMailer writes mails to the log instead of sending them. Useful in
// development: the token link shows up in the server output.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With().Str("component", "mailer").Logger()}
}

func (m *LogMailer) SendActivation(ctx context.Context, to, token string) error {
	m.logger.Info().Str("to", to).Str("token", token).Msg("activation mail")
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	m.logger.Info().Str("to", to).Str("token", token).Msg("password reset mail")
	return nil
}

// Ensure implementations satisfy Mailer
var (
	_ Mailer = Noop{}
	_ Mailer = (*LogMailer)(nil)
)
