package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Drivers accepted by Open.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and locates the journal backend.
type Config struct {
	Driver      string
	DatabaseURL string
	Pool        *PoolConfig
}

// Open connects to the configured backend and runs its migration. Driver
// "none" (or empty) disables journaling and returns a nil Store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		st  Store
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverNone:
		return nil, nil
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			return nil, eris.New("store: sqlite needs store.database_url")
		}
		st, err = NewSQLite(cfg.DatabaseURL)
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, eris.New("store: postgres needs store.database_url")
		}
		st, err = NewPostgres(ctx, cfg.DatabaseURL, cfg.Pool)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	zap.L().Info("store: journal ready", zap.String("component", "store"), zap.String("driver", cfg.Driver))
	return st, nil
}
