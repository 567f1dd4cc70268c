package species

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"herbcheck/internal/domain"
	"herbcheck/pkg/platform/sentinel"
	txcontext "herbcheck/pkg/platform/tx"
)

// Schema creates the species table.
const Schema = `
CREATE TABLE IF NOT EXISTS species (
	common_name         TEXT PRIMARY KEY,
	scientific_name     TEXT NOT NULL,
	local_names         TEXT[] NOT NULL DEFAULT '{}',
	conservation_status TEXT NOT NULL,
	harvest_seasons     TEXT[] NOT NULL DEFAULT '{}',
	restricted_regions  TEXT[] NOT NULL DEFAULT '{}'
)`

const selectColumns = `common_name, scientific_name, local_names, conservation_status, harvest_seasons, restricted_regions`

// PostgresStore persists the catalog in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed catalog.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// WithinTx runs fn in one transaction; saves made through ctx join it.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return txcontext.Run(ctx, s.db, fn)
}

// EnsureSchema creates the species table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create species schema: %w", err)
	}
	return nil
}

// Get returns the species with the given common name, or sentinel.ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, name string) (*domain.Species, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM species WHERE common_name = $1`, Key(name))
	sp, err := scanSpecies(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get species: %w", err)
	}
	return sp, nil
}

// List returns every species ordered by common name.
func (s *PostgresStore) List(ctx context.Context) ([]domain.Species, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM species ORDER BY common_name`)
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	defer rows.Close()

	var out []domain.Species
	for rows.Next() {
		sp, err := scanSpecies(rows)
		if err != nil {
			return nil, fmt.Errorf("scan species: %w", err)
		}
		out = append(out, *sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	return out, nil
}

// Save inserts or replaces a species.
func (s *PostgresStore) Save(ctx context.Context, sp domain.Species) error {
	query := `
		INSERT INTO species (common_name, scientific_name, local_names, conservation_status, harvest_seasons, restricted_regions)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (common_name) DO UPDATE SET
			scientific_name = EXCLUDED.scientific_name,
			local_names = EXCLUDED.local_names,
			conservation_status = EXCLUDED.conservation_status,
			harvest_seasons = EXCLUDED.harvest_seasons,
			restricted_regions = EXCLUDED.restricted_regions
	`
	seasons := make([]string, 0, len(sp.HarvestSeasons))
	for _, season := range sp.HarvestSeasons {
		seasons = append(seasons, string(season))
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		Key(sp.CommonName),
		sp.ScientificName,
		pq.Array(nonNil(sp.LocalNames)),
		string(sp.ConservationStatus),
		pq.Array(seasons),
		pq.Array(nonNil(sp.RestrictedRegions)),
	)
	if err != nil {
		return fmt.Errorf("save species: %w", err)
	}
	return nil
}

// Health pings the database.
func (s *PostgresStore) Health(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSpecies(row scanner) (*domain.Species, error) {
	var (
		sp         domain.Species
		status     string
		seasons    []string
		localNames []string
		restricted []string
	)
	if err := row.Scan(
		&sp.CommonName,
		&sp.ScientificName,
		pq.Array(&localNames),
		&status,
		pq.Array(&seasons),
		pq.Array(&restricted),
	); err != nil {
		return nil, err
	}
	sp.ConservationStatus = domain.ConservationStatus(status)
	sp.LocalNames = localNames
	sp.RestrictedRegions = restricted
	for _, raw := range seasons {
		sp.HarvestSeasons = append(sp.HarvestSeasons, domain.HarvestSeason(raw))
	}
	return &sp, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
