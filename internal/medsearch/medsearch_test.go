package medsearch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testExport = []map[string]string{
	{
		"registratienummer":   "RVG 12345",
		"productnaam":         "Ibuprofen 200 mg tabletten",
		"werkzamestoffen":     "IBUPROFEN",
		"farmaceutischevorm":  "tablet",
		"bijsluiter_filenaam": "h12345.pdf",
	},
	{
		"registratienummer":  "RVG 23456",
		"productnaam":        "Nurofen 400 mg",
		"werkzamestoffen":    "IBUPROFEN",
		"farmaceutischevorm": "tablet",
	},
	{
		"registratienummer":  "RVG 34567",
		"productnaam":        "Paracetamol 500 mg",
		"werkzamestoffen":    "PARACETAMOL",
		"farmaceutischevorm": "tablet",
	},
	{
		// No product name: the import must skip this row.
		"registratienummer": "RVG 99999",
	},
}

func newTestDataset(t *testing.T) *Service {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "medicines.db")
	jsonPath := filepath.Join(dir, "export.json")

	raw, err := json.Marshal(testExport)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(jsonPath, raw, 0o644))

	count, err := LoadDataset(context.Background(), dbPath, jsonPath)
	require.NoError(t, err)
	require.Equal(t, 3, count, "the row without a product name is skipped")

	svc, err := Open(dbPath, "https://docs.example/", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestSearchByName(t *testing.T) {
	svc := newTestDataset(t)

	entries, err := svc.Search(context.Background(), "paracetamol", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Paracetamol 500 mg", entries[0].Name)
	assert.Equal(t, "RVG 34567", entries[0].RegistrationNumber)
}

func TestSearchBySubstanceNameMatchesFirst(t *testing.T) {
	svc := newTestDataset(t)

	// "ibuprofen" hits one product by name and two by substance; the
	// name match must lead.
	entries, err := svc.Search(context.Background(), "ibuprofen", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ibuprofen 200 mg tabletten", entries[0].Name)
	assert.Equal(t, "Nurofen 400 mg", entries[1].Name)
}

func TestSearchLeafletURL(t *testing.T) {
	svc := newTestDataset(t)

	entries, err := svc.Search(context.Background(), "Ibuprofen 200", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://docs.example/h12345.pdf", entries[0].LeafletURL)

	entries, err = svc.Search(context.Background(), "Nurofen", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].LeafletURL, "no leaflet in the register means no URL")
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := newTestDataset(t)

	entries, err := svc.Search(context.Background(), "   ", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchLimit(t *testing.T) {
	svc := newTestDataset(t)

	entries, err := svc.Search(context.Background(), "mg", 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSearchEscapesWildcards(t *testing.T) {
	svc := newTestDataset(t)

	entries, err := svc.Search(context.Background(), "%", 0)
	require.NoError(t, err)
	assert.Empty(t, entries, "a literal wildcard must not match everything")
}
