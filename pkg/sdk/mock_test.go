package autoindex

import (
	"context"
	"strings"
	"sync"
	"time"
)

// --- db.Gateway mock ---

type mockGateway struct {
	mu      sync.Mutex
	stmts   []string
	closed  bool
	pingFn  func(ctx context.Context) error
	queryFn func(ctx context.Context, sql string) ([][]any, error)
	execFn  func(ctx context.Context, sql string) error
}

func (m *mockGateway) Ping(ctx context.Context) error {
	if m.pingFn == nil {
		return nil
	}
	return m.pingFn(ctx)
}

func (m *mockGateway) QueryRows(ctx context.Context, sql string) ([][]any, error) {
	return m.queryFn(ctx, sql)
}

func (m *mockGateway) Exec(ctx context.Context, sql string) error {
	m.mu.Lock()
	m.stmts = append(m.stmts, sql)
	m.mu.Unlock()
	if m.execFn == nil {
		return nil
	}
	return m.execFn(ctx, sql)
}

func (m *mockGateway) Close() { m.closed = true }

func (m *mockGateway) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// --- helpers ---

func versionGateway(version string) *mockGateway {
	return &mockGateway{
		queryFn: func(_ context.Context, _ string) ([][]any, error) {
			return [][]any{{version}}, nil
		},
	}
}

func failOn(fragment string, err error) func(context.Context, string) error {
	return func(_ context.Context, sql string) error {
		if strings.Contains(sql, fragment) {
			return err
		}
		return nil
	}
}

func testConfig() *clientConfig {
	return &clientConfig{
		timeColumn:   "_time",
		probeTimeout: time.Second,
	}
}
