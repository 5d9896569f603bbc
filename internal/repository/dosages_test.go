package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/medtrack/internal/domain"
)

func TestDosagesRecordDecrementsStock(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	dosages := NewDosages(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 10)
	require.NoError(t, meds.Put(ctx, "u1", med))

	at := time.Date(2026, 8, 20, 8, 5, 0, 0, time.UTC)
	rec, err := dosages.Record(ctx, "u1", med.ID, 2, "08:00", at)
	require.NoError(t, err)
	assert.Equal(t, med.ID, rec.MedicineID)
	assert.Equal(t, 2.0, rec.Amount)
	assert.Equal(t, "08:00", rec.ScheduledTime)
	assert.Equal(t, at, rec.Datetime)

	got, err := meds.Get(ctx, "u1", med.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.Stock)

	stored, err := dosages.Get(ctx, "u1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)
}

func TestDosagesRecordAllowsNegativeStock(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	dosages := NewDosages(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 1)
	require.NoError(t, meds.Put(ctx, "u1", med))

	_, err := dosages.Record(ctx, "u1", med.ID, 3, "", time.Now())
	require.NoError(t, err, "taking a dose is a fact; low stock must not block the log")

	got, err := meds.Get(ctx, "u1", med.ID)
	require.NoError(t, err)
	assert.Equal(t, -2.0, got.Stock)
}

func TestDosagesRecordUnknownMedicine(t *testing.T) {
	s, keys := newTestStore(t)
	dosages := NewDosages(s, keys, testLogger())

	_, err := dosages.Record(context.Background(), "u1", "nope", 1, "", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDosagesDeleteRestoresStock(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	dosages := NewDosages(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 10)
	require.NoError(t, meds.Put(ctx, "u1", med))

	rec, err := dosages.Record(ctx, "u1", med.ID, 2, "", time.Now())
	require.NoError(t, err)

	require.NoError(t, dosages.Delete(ctx, "u1", rec.ID))

	got, err := meds.Get(ctx, "u1", med.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Stock, "reversal must restore exactly the logged amount")

	_, err = dosages.Get(ctx, "u1", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = dosages.Delete(ctx, "u1", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound, "a reversed entry cannot be reversed again")
}

func TestDosagesDeleteMissingMedicine(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	dosages := NewDosages(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 10)
	require.NoError(t, meds.Put(ctx, "u1", med))

	rec, err := dosages.Record(ctx, "u1", med.ID, 2, "", time.Now())
	require.NoError(t, err)

	require.NoError(t, meds.Delete(ctx, "u1", med.ID))

	err = dosages.Delete(ctx, "u1", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound, "nothing sensible to restore once the medicine is gone")

	_, err = dosages.Get(ctx, "u1", rec.ID)
	assert.NoError(t, err, "the failed reversal must leave the entry in place")
}

func TestDosagesListNewestFirst(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	dosages := NewDosages(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 100)
	require.NoError(t, meds.Put(ctx, "u1", med))

	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	oldest, err := dosages.Record(ctx, "u1", med.ID, 1, "", base)
	require.NoError(t, err)
	middle, err := dosages.Record(ctx, "u1", med.ID, 1, "", base.Add(time.Hour))
	require.NoError(t, err)
	newest, err := dosages.Record(ctx, "u1", med.ID, 1, "", base.Add(2*time.Hour))
	require.NoError(t, err)

	got, err := dosages.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, newest.ID, got[0].ID)
	assert.Equal(t, middle.ID, got[1].ID)
	assert.Equal(t, oldest.ID, got[2].ID)
}
