// Package medsearch provides name lookup over the public medicines
// register. The register is a read-only SQLite dataset shipped next to
// the server; user data never touches it. Matches are by product name
// or active substance.
package medsearch

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// defaultLimit caps result sets when the caller does not.
const defaultLimit = 25

// Entry is one row of the medicines register.
type Entry struct {
	// RegistrationNumber is the official registration number.
	RegistrationNumber string `json:"registration_number"`

	// Name is the registered product name.
	Name string `json:"name"`

	// ActiveSubstances lists the active substances.
	ActiveSubstances string `json:"active_substances,omitempty"`

	// Form is the pharmaceutical form.
	Form string `json:"form,omitempty"`

	// LeafletURL links to the package leaflet, when the register has one.
	LeafletURL string `json:"leaflet_url,omitempty"`
}

// Service performs register lookups.
type Service struct {
	db          *sql.DB
	leafletBase string
	logger      zerolog.Logger
}

// Open opens the register dataset read-only. leafletBase is prefixed
// to leaflet filenames to form the public document URL.
func Open(path, leafletBase string, logger zerolog.Logger) (*Service, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open medicines dataset: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping medicines dataset: %w", err)
	}
	return &Service{
		db:          db,
		leafletBase: leafletBase,
		logger:      logger.With().Str("component", "medsearch").Logger(),
	}, nil
}

// Close releases the dataset handle.
func (s *Service) Close() error {
	return s.db.Close()
}

// Search returns register entries whose product name or active
// substance contains the query, case-insensitively, name matches
// first. A non-positive limit selects the default.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT registratienummer, productnaam, werkzamestoffen, farmaceutischevorm, bijsluiter_filenaam
		FROM medicines
		WHERE productnaam LIKE ? ESCAPE '\' OR werkzamestoffen LIKE ? ESCAPE '\'
		ORDER BY (productnaam LIKE ? ESCAPE '\') DESC, productnaam
		LIMIT ?`,
		pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("query medicines dataset: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		var substances, form, leaflet sql.NullString
		if err := rows.Scan(&entry.RegistrationNumber, &entry.Name, &substances, &form, &leaflet); err != nil {
			return nil, fmt.Errorf("scan medicines row: %w", err)
		}
		entry.ActiveSubstances = substances.String
		entry.Form = form.String
		if leaflet.String != "" {
			entry.LeafletURL = s.leafletBase + leaflet.String
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
