package autoindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/autoindex/internal/db"
	"github.com/kailas-cloud/autoindex/internal/db/postgres"
	"github.com/kailas-cloud/autoindex/internal/domain"
	domcap "github.com/kailas-cloud/autoindex/internal/domain/capability"
	domcol "github.com/kailas-cloud/autoindex/internal/domain/collection"
	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
	uc "github.com/kailas-cloud/autoindex/internal/usecase/autoindex"
	capuc "github.com/kailas-cloud/autoindex/internal/usecase/capability"
	healthuc "github.com/kailas-cloud/autoindex/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultProbeTimeout     = 5 * time.Second
)

// Internal interface, swapped in tests.
type provisioner interface {
	Provision(ctx context.Context, n domcol.Notification) uc.Report
	Tier() domcap.Tier
}

// Client is the autoindex SDK entry point.
type Client struct {
	gateway   db.Gateway
	svc       provisioner
	healthSvc healthUseCase
	obs       *observer
}

// New connects to the database, probes its version and returns a ready Client.
// The provided context is used for the readiness wait and the probe.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeColumn:       domain.DefaultTimeColumn,
		probeTimeout:     defaultProbeTimeout,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" {
		return nil, errors.New("autoindex: database DSN required (use WithPostgres)")
	}
	if cfg.tier != "" && !cfg.tier.valid() {
		return nil, fmt.Errorf("autoindex: unknown tier %q (want %q or %q)", cfg.tier, TierLegacy, TierModern)
	}

	gw, err := postgres.NewGateway(ctx, postgres.Config{DSN: cfg.dsn, MaxConns: cfg.maxConns})
	if err != nil {
		return nil, fmt.Errorf("autoindex: create gateway: %w", err)
	}

	if err := gw.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		gw.Close()
		return nil, fmt.Errorf("autoindex: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		gw.Close()
		return nil, err
	}
	return wireClient(ctx, gw, cfg, obs), nil
}

func wireClient(ctx context.Context, gw db.Gateway, cfg *clientConfig, obs *observer) *Client {
	var tier domcap.Tier
	if cfg.tier != "" {
		tier = cfg.tier.toDomain()
	} else {
		tier = capuc.New(gw, nil).WithTimeout(cfg.probeTimeout).Probe(ctx)
	}

	if obs != nil && obs.logger != nil {
		obs.logger.Info("autoindex ready", "tier", tier.String(), "time_column", cfg.timeColumn)
	}

	return &Client{
		gateway:   gw,
		svc:       uc.New(gw, tier, cfg.timeColumn, nil),
		healthSvc: healthuc.New(gw, nil),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.gateway != nil {
		c.gateway.Close()
	}
}

// Tier returns the capability tier detected at construction.
func (c *Client) Tier() Tier {
	return tierFromDomain(c.svc.Tier())
}

// CollectionCreated provisions indexes for every field of a new collection.
// The report is complete even when err is non-nil.
func (c *Client) CollectionCreated(
	ctx context.Context, project, collection string, fields ...Field,
) (report Report, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("collection_created", start, err, "project", project, "collection", collection)
	}()

	return c.notify(ctx, domcol.KindCreated, project, collection, fields)
}

// FieldsAdded provisions indexes for fields appended to an existing collection.
func (c *Client) FieldsAdded(
	ctx context.Context, project, collection string, fields ...Field,
) (report Report, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("fields_added", start, err, "project", project, "collection", collection)
	}()

	return c.notify(ctx, domcol.KindFieldsAdded, project, collection, fields)
}

func (c *Client) notify(
	ctx context.Context, kind domcol.Kind, project, collection string, fields []Field,
) (Report, error) {
	domFields := make([]field.Field, 0, len(fields))
	for _, f := range fields {
		df, err := field.New(f.Name, field.Type(f.Type))
		if err != nil {
			return Report{}, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
		domFields = append(domFields, df)
	}

	n, err := domcol.New(kind, project, collection, domFields)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	r := c.svc.Provision(ctx, n)
	return reportFromDomain(r), r.Err()
}
