package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/medtrack/internal/domain"
)

func TestScanSkipsMalformedRecords(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	ctx := context.Background()

	require.NoError(t, meds.Put(ctx, "u1", domain.NewMedicine("Aspirin", 100, "mg", 10)))
	require.NoError(t, meds.Put(ctx, "u1", domain.NewMedicine("Ibuprofen", 200, "mg", 20)))
	require.NoError(t, s.Set(ctx, keys.Medicine("u1", "corrupt"), "{definitely not json", 0))

	got, err := meds.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2, "one malformed record must not fail the whole listing")
	assert.Equal(t, "Aspirin", got[0].Name)
	assert.Equal(t, "Ibuprofen", got[1].Name)
}

func TestScanCrossesPageBoundary(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	ctx := context.Background()

	// More records than one scan page.
	total := scanPageSize + 20
	for i := 0; i < total; i++ {
		med := domain.NewMedicine(fmt.Sprintf("Med %03d", i), 1, "mg", 1)
		require.NoError(t, meds.Put(ctx, "u1", med))
	}

	got, err := meds.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got, total)
}

func TestGetJSONMalformedRecord(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, keys.Medicine("u1", "corrupt"), "{broken", 0))

	_, err := meds.Get(ctx, "u1", "corrupt")
	require.Error(t, err)

	var serr *SerializationError
	require.ErrorAs(t, err, &serr, "a direct read of a malformed record is terminal")
	assert.Equal(t, keys.Medicine("u1", "corrupt"), serr.Key)
}
