package repository

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/store/memory"
)

// newTestStore returns a memory store scoped to the test and the key
// generator repositories under test share with it.
func newTestStore(t *testing.T) (*memory.Store, Keys) {
	t.Helper()
	s := memory.New()
	t.Cleanup(s.Stop)
	return s, NewKeys("test")
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
