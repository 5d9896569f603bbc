package medsearch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// datasetSchema holds the register columns the search queries. The
// upstream register export carries many more fields; only these are
// imported.
const datasetSchema = `
CREATE TABLE IF NOT EXISTS medicines (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	registratienummer TEXT,
	productnaam TEXT NOT NULL,
	werkzamestoffen TEXT,
	farmaceutischevorm TEXT,
	bijsluiter_filenaam TEXT
);
CREATE INDEX IF NOT EXISTS idx_productnaam ON medicines(productnaam);
CREATE INDEX IF NOT EXISTS idx_werkzamestoffen ON medicines(werkzamestoffen);
`

// insertBatchSize bounds the rows per insert transaction.
const insertBatchSize = 1000

// LoadDataset builds the SQLite dataset from a register JSON export
// (an array of objects with lowercase register field names). An
// existing dataset file is extended, not truncated; point it at a
// fresh path for a clean import. Returns the number of imported rows.
func LoadDataset(ctx context.Context, dbPath, jsonPath string) (int, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("read register export: %w", err)
	}
	var records []map[string]string
	if err := json.Unmarshal(raw, &records); err != nil {
		return 0, fmt.Errorf("parse register export: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open dataset: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, datasetSchema); err != nil {
		return 0, fmt.Errorf("create dataset schema: %w", err)
	}

	imported := 0
	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		n, err := insertBatch(ctx, db, records[start:end])
		imported += n
		if err != nil {
			return imported, err
		}
	}
	return imported, nil
}

func insertBatch(ctx context.Context, db *sql.DB, records []map[string]string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin dataset import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO medicines (registratienummer, productnaam, werkzamestoffen, farmaceutischevorm, bijsluiter_filenaam)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare dataset insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		// Rows without a product name are unusable for search.
		if rec["productnaam"] == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			rec["registratienummer"],
			rec["productnaam"],
			rec["werkzamestoffen"],
			rec["farmaceutischevorm"],
			rec["bijsluiter_filenaam"],
		); err != nil {
			return 0, fmt.Errorf("insert register row: %w", err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
