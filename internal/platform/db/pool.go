package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store holds the open database handle for whichever driver is configured.
// Exactly one of Pool and SQL is set.
type Store struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sql.DB
}

// Options configures Open.
type Options struct {
	Driver   string
	URL      string
	MaxConns int32
	MinConns int32
}

// Open connects to the configured backend and verifies the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	switch opts.Driver {
	case DriverPostgres:
		pool, err := NewPool(ctx, opts.URL, opts.MaxConns, opts.MinConns)
		if err != nil {
			return nil, err
		}
		return &Store{Driver: DriverPostgres, Pool: pool}, nil
	case DriverSQLite, "":
		sqlDB, err := OpenSQLite(ctx, opts.URL, int(opts.MaxConns))
		if err != nil {
			return nil, err
		}
		return &Store{Driver: DriverSQLite, SQL: sqlDB}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.Pool != nil {
		return s.Pool.Ping(ctx)
	}
	return s.SQL.PingContext(ctx)
}

// Close releases the underlying connections.
func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.SQL != nil {
		s.SQL.Close()
	}
}

func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// OpenSQLite opens (creating if needed) the SQLite database file at path.
func OpenSQLite(ctx context.Context, path string, maxConns int) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	sqlDB, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return sqlDB, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, "?") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}
