package autoindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/autoindex/internal/domain"
	domcap "github.com/kailas-cloud/autoindex/internal/domain/capability"
	domcol "github.com/kailas-cloud/autoindex/internal/domain/collection"
	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
	"github.com/kailas-cloud/autoindex/internal/domain/index"
	logpkg "github.com/kailas-cloud/autoindex/internal/logger"
	"github.com/kailas-cloud/autoindex/internal/metrics"
)

// Report is the per-field account of one notification.
type Report struct {
	Notification domcol.Notification
	Tier         domcap.Tier
	Results      []FieldResult
	err          error
}

// Err returns the error surfaced to the notification source, or nil.
func (r Report) Err() error { return r.err }

// Service provisions auto indexes in reaction to schema evolution.
// The tier is fixed at construction; the service holds no mutable state.
type Service struct {
	exec       Executor
	tier       domcap.Tier
	timeColumn string
	policy     Policy
	logger     *zap.Logger
}

// New creates an auto index service for an engine of the given tier.
// timeColumn is the project's event-time column; logger may be nil.
func New(exec Executor, tier domcap.Tier, timeColumn string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		exec:       exec,
		tier:       tier,
		timeColumn: timeColumn,
		policy:     NewPolicy(tier),
		logger:     logger,
	}
}

// Tier returns the capability tier the service was built for.
func (s *Service) Tier() domcap.Tier { return s.tier }

// TimeColumn returns the configured event-time column.
func (s *Service) TimeColumn() string { return s.timeColumn }

type reportKey struct{}

// ContextWithReport returns a context under which Handle stores its report in dst.
// Publishers that go through the event bus use it to get the per-field outcome.
func ContextWithReport(ctx context.Context, dst *Report) context.Context {
	return context.WithValue(ctx, reportKey{}, dst)
}

// Handle reacts to a schema-evolution notification. Both notification kinds are
// handled the same way.
func (s *Service) Handle(ctx context.Context, n domcol.Notification) error {
	r := s.Provision(ctx, n)
	if dst, ok := ctx.Value(reportKey{}).(*Report); ok && dst != nil {
		*dst = r
	}
	return r.Err()
}

// Provision creates an index per field, strictly in declaration order, and returns
// the full report.
func (s *Service) Provision(ctx context.Context, n domcol.Notification) Report {
	logger := logpkg.FromContextOr(ctx, s.logger).With(
		zap.String("notification_id", n.ID()),
		zap.String("kind", string(n.Kind())),
		zap.String("project", n.Project()),
		zap.String("collection", n.Collection()),
		zap.String("tier", s.tier.String()),
	)

	fields := n.Fields()
	results := make([]FieldResult, 0, len(fields))
	for i, f := range fields {
		r := s.policy.Judge(s.attempt(ctx, n, f))
		s.record(logger, r)
		results = append(results, r)

		if s.policy.Halts(r) {
			for _, rest := range fields[i+1:] {
				results = append(results, FieldResult{Field: rest, Outcome: OutcomeSkipped})
			}
			logger.Warn("Auto indexing halted",
				zap.String("field", f.Name()),
				zap.Int("skipped", len(fields)-i-1),
			)
			break
		}
	}

	return Report{
		Notification: n,
		Tier:         s.tier,
		Results:      results,
		err:          s.policy.Resolve(n.Project(), n.Collection(), results),
	}
}

// attempt builds and runs the statement for one field. Never uses CONCURRENTLY.
func (s *Service) attempt(ctx context.Context, n domcol.Notification, f field.Field) FieldResult {
	stmt, err := index.BuildDDL(s.tier, n.Project(), n.Collection(), f, s.timeColumn)
	if err != nil {
		return FieldResult{Field: f, Err: err}
	}

	start := time.Now()
	err = s.exec.Exec(ctx, stmt.SQL())
	metrics.IndexDuration.WithLabelValues(s.tier.String()).Observe(time.Since(start).Seconds())

	if err != nil && !errors.Is(err, domain.ErrStatementFailed) {
		err = fmt.Errorf("%w: %w", domain.ErrStatementFailed, err)
	}
	return FieldResult{Field: f, Statement: stmt, Err: err}
}

func (s *Service) record(logger *zap.Logger, r FieldResult) {
	method := string(r.Statement.Spec().Method)
	if method == "" {
		method = "none"
	}
	metrics.IndexAttemptsTotal.WithLabelValues(s.tier.String(), method, string(r.Outcome)).Inc()

	fieldLogger := logger.With(zap.String("field", r.Field.Name()))
	switch r.Outcome {
	case OutcomeCreated:
		fieldLogger.Debug("Auto index ensured",
			zap.String("index", r.Statement.Spec().Name),
			zap.String("method", method),
		)
	case OutcomeSwallowed:
		fieldLogger.Info("Auto index creation failed on legacy engine, ignoring",
			zap.String("index", r.Statement.Spec().Name),
			zap.Error(r.Err),
		)
	case OutcomeFailed:
		fieldLogger.Error("Auto index creation failed",
			zap.String("statement", r.Statement.SQL()),
			zap.Error(r.Err),
		)
	case OutcomeInvalid:
		fieldLogger.Warn("Cannot build auto index", zap.Error(r.Err))
	}
}
