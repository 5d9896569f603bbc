package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/medtrack/internal/domain"
)

func TestMedicinesPutGetDelete(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 30)
	require.NoError(t, meds.Put(ctx, "u1", med))

	got, err := meds.Get(ctx, "u1", med.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen", got.Name)
	assert.Equal(t, 30.0, got.Stock)

	require.NoError(t, meds.Delete(ctx, "u1", med.ID))

	_, err = meds.Get(ctx, "u1", med.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = meds.Delete(ctx, "u1", med.ID)
	assert.ErrorIs(t, err, ErrNotFound, "deleting twice must report the second as missing")
}

func TestMedicinesListSortedByName(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	ctx := context.Background()

	require.NoError(t, meds.Put(ctx, "u1", domain.NewMedicine("Paracetamol", 500, "mg", 10)))
	require.NoError(t, meds.Put(ctx, "u1", domain.NewMedicine("Aspirin", 100, "mg", 20)))
	require.NoError(t, meds.Put(ctx, "u1", domain.NewMedicine("Ibuprofen", 200, "mg", 30)))

	// Another user's medicine must not show up.
	require.NoError(t, meds.Put(ctx, "u2", domain.NewMedicine("Zolpidem", 10, "mg", 5)))

	got, err := meds.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Aspirin", got[0].Name)
	assert.Equal(t, "Ibuprofen", got[1].Name)
	assert.Equal(t, "Paracetamol", got[2].Name)
}

func TestMedicinesListEmpty(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())

	got, err := meds.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMedicinesAddStock(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 100)
	require.NoError(t, meds.Put(ctx, "u1", med))

	updated, err := meds.AddStock(ctx, "u1", med.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Stock)

	updated, err = meds.AddStock(ctx, "u1", med.ID, -30.5)
	require.NoError(t, err)
	assert.Equal(t, 119.5, updated.Stock)

	got, err := meds.Get(ctx, "u1", med.ID)
	require.NoError(t, err)
	assert.Equal(t, 119.5, got.Stock)
}

func TestMedicinesAddStockMissing(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())

	_, err := meds.AddStock(context.Background(), "u1", "nope", 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMedicinesAddStockConcurrent(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 0)
	require.NoError(t, meds.Put(ctx, "u1", med))

	const workers = 4
	const perWorker = 5

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := meds.AddStock(ctx, "u1", med.ID, 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	got, err := meds.Get(ctx, "u1", med.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(workers*perWorker), got.Stock, "no increment may be lost")
}

func TestMedicinesAddStockRetriesThenSucceeds(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 10)
	require.NoError(t, meds.Put(ctx, "u1", med))

	s.ForceConflicts(maxTxAttempts - 1)

	updated, err := meds.AddStock(ctx, "u1", med.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.Stock)
}

func TestMedicinesAddStockRetriesExhausted(t *testing.T) {
	s, keys := newTestStore(t)
	meds := NewMedicines(s, keys, testLogger())
	ctx := context.Background()

	med := domain.NewMedicine("Ibuprofen", 200, "mg", 10)
	require.NoError(t, meds.Put(ctx, "u1", med))

	s.ForceConflicts(maxTxAttempts)

	_, err := meds.AddStock(ctx, "u1", med.ID, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)

	var operr *OperationError
	require.ErrorAs(t, err, &operr)
	assert.Equal(t, "addStock", operr.Op)
	assert.Contains(t, err.Error(), "retries")

	got, err := meds.Get(ctx, "u1", med.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Stock, "a given-up transaction must not write")
}
