package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/pizza-watch/internal/geo"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS activity_readings (
	id          TEXT PRIMARY KEY,
	outlet      TEXT NOT NULL,
	address     TEXT NOT NULL DEFAULT '',
	busy_level  TEXT NOT NULL DEFAULT '',
	score       REAL,
	tier        TEXT NOT NULL,
	distance_km REAL NOT NULL,
	observed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_readings_outlet ON activity_readings(outlet);
CREATE INDEX IF NOT EXISTS idx_activity_readings_observed_at ON activity_readings(observed_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordReadings(ctx context.Context, readings []Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO activity_readings (id, outlet, address, busy_level, score, tier, distance_km, observed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert reading")
	}
	defer stmt.Close() //nolint:errcheck

	for i := range readings {
		r := &readings[i]
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		var score sql.NullFloat64
		if r.Score != nil {
			score = sql.NullFloat64{Float64: *r.Score, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Outlet, r.Address, r.BusyLevel, score, string(r.Tier), r.DistanceKm, r.ObservedAt.UTC(),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert reading for %s", r.Outlet)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit readings")
}

func (s *SQLiteStore) RecentReadings(ctx context.Context, filter Filter) ([]Reading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, outlet, address, busy_level, score, tier, distance_km, observed_at
		 FROM activity_readings
		 WHERE (? = '' OR outlet = ?)
		 ORDER BY observed_at DESC, rowid DESC
		 LIMIT ?`,
		filter.Outlet, filter.Outlet, filter.limit(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: recent readings")
	}
	defer rows.Close() //nolint:errcheck

	var out []Reading
	for rows.Next() {
		var (
			r     Reading
			score sql.NullFloat64
			tier  string
		)
		if err := rows.Scan(&r.ID, &r.Outlet, &r.Address, &r.BusyLevel, &score, &tier, &r.DistanceKm, &r.ObservedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan reading")
		}
		if score.Valid {
			v := score.Float64
			r.Score = &v
		}
		r.Tier = geo.ActivityTier(tier)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate readings")
}
