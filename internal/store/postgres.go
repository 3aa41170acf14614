package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pizza-watch/internal/db"
	"github.com/sells-group/pizza-watch/internal/geo"
)

const readingsTable = "activity_readings"

var readingColumns = []string{"id", "outlet", "address", "busy_level", "score", "tier", "distance_km", "observed_at"}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS activity_readings (
	seq         BIGSERIAL,
	id          TEXT PRIMARY KEY,
	outlet      TEXT NOT NULL,
	address     TEXT NOT NULL DEFAULT '',
	busy_level  TEXT NOT NULL DEFAULT '',
	score       DOUBLE PRECISION,
	tier        TEXT NOT NULL,
	distance_km DOUBLE PRECISION NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_readings_outlet ON activity_readings(outlet);
CREATE INDEX IF NOT EXISTS idx_activity_readings_observed_at ON activity_readings(observed_at DESC, seq DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// RecordReadings appends readings with a single COPY.
func (s *PostgresStore) RecordReadings(ctx context.Context, readings []Reading) error {
	rows := make([][]any, 0, len(readings))
	for i := range readings {
		r := &readings[i]
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		rows = append(rows, []any{
			r.ID, r.Outlet, r.Address, r.BusyLevel, r.Score, string(r.Tier), r.DistanceKm, r.ObservedAt.UTC(),
		})
	}

	_, err := db.CopyFrom(ctx, s.pool, readingsTable, readingColumns, rows)
	return eris.Wrap(err, "postgres: record readings")
}

func (s *PostgresStore) RecentReadings(ctx context.Context, filter Filter) ([]Reading, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, outlet, address, busy_level, score, tier, distance_km, observed_at
		 FROM activity_readings
		 WHERE ($1 = '' OR outlet = $1)
		 ORDER BY observed_at DESC, seq DESC
		 LIMIT $2`,
		filter.Outlet, filter.limit(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: recent readings")
	}
	defer rows.Close()

	var out []Reading
	for rows.Next() {
		var (
			r     Reading
			score pgtype.Float8
			tier  string
		)
		if err := rows.Scan(&r.ID, &r.Outlet, &r.Address, &r.BusyLevel, &score, &tier, &r.DistanceKm, &r.ObservedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan reading")
		}
		if score.Valid {
			v := score.Float64
			r.Score = &v
		}
		r.Tier = geo.ActivityTier(tier)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate readings")
}
