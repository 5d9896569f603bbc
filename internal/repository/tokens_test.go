package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensIssueAndVerify(t *testing.T) {
	s, keys := newTestStore(t)
	tokens := NewTokens(s, keys, testLogger())
	ctx := context.Background()

	token, err := tokens.Issue(ctx, TokenActivation, "u1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tokens.Verify(ctx, TokenActivation, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = tokens.Verify(ctx, TokenActivation, token)
	assert.ErrorIs(t, err, ErrNotFound, "verification consumes the token")
}

func TestTokensVerifyUnknown(t *testing.T) {
	s, keys := newTestStore(t)
	tokens := NewTokens(s, keys, testLogger())

	_, err := tokens.Verify(context.Background(), TokenActivation, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokensKindsDoNotCross(t *testing.T) {
	s, keys := newTestStore(t)
	tokens := NewTokens(s, keys, testLogger())
	ctx := context.Background()

	token, err := tokens.Issue(ctx, TokenActivation, "u1", time.Hour)
	require.NoError(t, err)

	_, err = tokens.Verify(ctx, TokenPasswordReset, token)
	assert.ErrorIs(t, err, ErrNotFound, "an activation token must not pass as a reset token")

	_, err = tokens.Verify(ctx, TokenActivation, token)
	assert.NoError(t, err, "the failed cross-kind attempt must not consume it")
}

func TestTokensExpire(t *testing.T) {
	s, keys := newTestStore(t)
	tokens := NewTokens(s, keys, testLogger())
	ctx := context.Background()

	now := time.Now()
	s.Now = func() time.Time { return now }

	token, err := tokens.Issue(ctx, TokenPasswordReset, "u1", time.Hour)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)

	_, err = tokens.Verify(ctx, TokenPasswordReset, token)
	assert.ErrorIs(t, err, ErrNotFound, "an expired token is indistinguishable from an unknown one")
}

func TestTokensPeekDoesNotConsume(t *testing.T) {
	s, keys := newTestStore(t)
	tokens := NewTokens(s, keys, testLogger())
	ctx := context.Background()

	token, err := tokens.Issue(ctx, TokenSession, "u1", time.Hour)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		userID, err := tokens.Peek(ctx, TokenSession, token)
		require.NoError(t, err)
		assert.Equal(t, "u1", userID)
	}
}

func TestTokensRevoke(t *testing.T) {
	s, keys := newTestStore(t)
	tokens := NewTokens(s, keys, testLogger())
	ctx := context.Background()

	token, err := tokens.Issue(ctx, TokenSession, "u1", time.Hour)
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(ctx, TokenSession, token))

	_, err = tokens.Peek(ctx, TokenSession, token)
	assert.ErrorIs(t, err, ErrNotFound)

	err = tokens.Revoke(ctx, TokenSession, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokensGenerateFailure(t *testing.T) {
	s, keys := newTestStore(t)
	tokens := NewTokens(s, keys, testLogger())
	tokens.generate = func() (string, error) { return "", assert.AnError }

	_, err := tokens.Issue(context.Background(), TokenSession, "u1", time.Hour)
	require.Error(t, err)

	var operr *OperationError
	assert.ErrorAs(t, err, &operr)
}
