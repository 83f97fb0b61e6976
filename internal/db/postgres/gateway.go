package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/autoindex/internal/db"
)

// Compile-time check: Gateway implements db.Gateway.
var _ db.Gateway = (*Gateway)(nil)

// Config holds connection parameters for a PostgreSQL gateway.
type Config struct {
	DSN      string
	MaxConns int32
}

// pool is the subset of *pgxpool.Pool the gateway uses.
type pool interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// Gateway implements db.Gateway on a pgx connection pool.
type Gateway struct {
	pool pool
}

// NewGateway creates a pooled PostgreSQL gateway. Sessions run in UTC.
func NewGateway(ctx context.Context, cfg Config) (*Gateway, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.ConnConfig.RuntimeParams["timezone"] = "UTC"

	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	return &Gateway{pool: p}, nil
}

// Ping checks connectivity.
func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.pool.Ping(ctx); err != nil {
		return wrap(db.OpPing, err)
	}
	return nil
}

// Close shuts down the pool.
func (g *Gateway) Close() {
	g.pool.Close()
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (g *Gateway) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := g.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// QueryRows runs sql and collects every row's decoded values.
func (g *Gateway) QueryRows(ctx context.Context, sql string) ([][]any, error) {
	rows, err := g.pool.Query(ctx, sql)
	if err != nil {
		return nil, wrap(db.OpQuery, err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, wrap(db.OpQuery, err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(db.OpQuery, err)
	}
	return out, nil
}

// Exec runs a statement that returns no rows.
func (g *Gateway) Exec(ctx context.Context, sql string) error {
	if _, err := g.pool.Exec(ctx, sql); err != nil {
		return wrap(db.OpExec, err)
	}
	return nil
}

// wrap attaches the operation and the SQLSTATE code, if the server sent one.
func wrap(op string, err error) error {
	e := &db.Error{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		e.Code = pgErr.Code
	}
	return e
}
