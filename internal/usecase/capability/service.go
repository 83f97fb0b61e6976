package capability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domcap "github.com/kailas-cloud/autoindex/internal/domain/capability"
)

// VersionQuery asks the server for its version string, e.g. "9.6.24" or "16.2 (Debian 16.2-1)".
const VersionQuery = "SHOW server_version"

var errNoVersion = errors.New("version query returned no value")

// Prober detects the capability tier of the connected engine.
type Prober struct {
	querier Querier
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Prober. logger may be nil.
func New(q Querier, logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{querier: q, logger: logger}
}

// WithTimeout bounds the version query. Zero means no extra bound.
func (p *Prober) WithTimeout(d time.Duration) *Prober {
	p.timeout = d
	return p
}

// Detect runs the version query and parses the result.
func (p *Prober) Detect(ctx context.Context) (domcap.Version, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	rows, err := p.querier.QueryRows(ctx, VersionQuery)
	if err != nil {
		return domcap.Version{}, fmt.Errorf("query server version: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] == nil {
		return domcap.Version{}, errNoVersion
	}

	raw := fmt.Sprint(rows[0][0])
	v, err := domcap.ParseVersion(raw)
	if err != nil {
		return domcap.Version{}, err
	}
	return v, nil
}

// Probe returns the tier of the connected engine. It never fails: any error,
// including a panicking querier, resolves to Legacy.
func (p *Prober) Probe(ctx context.Context) (tier domcap.Tier) {
	defer func() {
		if rvr := recover(); rvr != nil {
			p.logger.Warn("capability probe panicked, assuming legacy engine", zap.Any("panic", rvr))
			tier = domcap.Legacy
		}
	}()

	v, err := p.Detect(ctx)
	if err != nil {
		p.logger.Warn("capability probe failed, assuming legacy engine", zap.Error(err))
		return domcap.Legacy
	}

	tier = v.Tier()
	p.logger.Info("Detected engine capabilities",
		zap.String("version", v.String()),
		zap.String("tier", tier.String()),
		zap.Bool("if_not_exists", tier.SupportsIfNotExists()),
		zap.Bool("brin", tier.SupportsBRIN()),
	)
	return tier
}
