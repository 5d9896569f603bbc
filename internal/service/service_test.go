package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/repository"
	"github.com/prn-tf/medtrack/internal/store/memory"
)

// testEnv wires the full service stack over a memory store. Service
// tests run against the real repositories: the store is the only fake.
type testEnv struct {
	store     *memory.Store
	users     *repository.Users
	tokens    *repository.Tokens
	medicines *repository.Medicines
	schedules *repository.Schedules
	dosages   *repository.Dosages
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := memory.New()
	t.Cleanup(s.Stop)

	keys := repository.NewKeys("test")
	logger := zerolog.Nop()
	return &testEnv{
		store:     s,
		users:     repository.NewUsers(s, keys, logger),
		tokens:    repository.NewTokens(s, keys, logger),
		medicines: repository.NewMedicines(s, keys, logger),
		schedules: repository.NewSchedules(s, keys, logger),
		dosages:   repository.NewDosages(s, keys, logger),
	}
}

// captureMailer records the tokens handed to the mail boundary so
// tests can complete activation and reset flows.
type captureMailer struct {
	activation map[string]string
	reset      map[string]string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{
		activation: make(map[string]string),
		reset:      make(map[string]string),
	}
}

func (m *captureMailer) SendActivation(_ context.Context, to, token string) error {
	m.activation[to] = token
	return nil
}

func (m *captureMailer) SendPasswordReset(_ context.Context, to, token string) error {
	m.reset[to] = token
	return nil
}
