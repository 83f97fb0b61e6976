package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/autoindex/internal/db"
	"github.com/kailas-cloud/autoindex/internal/domain"
	domcap "github.com/kailas-cloud/autoindex/internal/domain/capability"
	domcol "github.com/kailas-cloud/autoindex/internal/domain/collection"
	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
	"github.com/kailas-cloud/autoindex/internal/domain/index"
	"github.com/kailas-cloud/autoindex/internal/eventbus"
	logpkg "github.com/kailas-cloud/autoindex/internal/logger"
	"github.com/kailas-cloud/autoindex/internal/usecase/autoindex"
	healthuc "github.com/kailas-cloud/autoindex/internal/usecase/health"
	"github.com/kailas-cloud/autoindex/internal/version"
)

// Publisher delivers notifications to the installed subscribers.
type Publisher interface {
	Publish(ctx context.Context, source string, n domcol.Notification) error
	Subscribers() []string
}

// Server serves schema-evolution notifications and service metadata over HTTP.
type Server struct {
	bus    Publisher
	tier   domcap.Tier
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server. Notifications are published on bus; with no
// subscriber installed (auto indexing disabled) they are rejected with 503.
func NewServer(bus Publisher, tier domcap.Tier, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		bus:    bus,
		tier:   tier,
		health: health,
		logger: logger,
	}
}

// CreateCollection handles POST /projects/{project}/collections.
func (s *Server) CreateCollection(w http.ResponseWriter, r *http.Request, project string) {
	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	fields, err := fieldsFromRequest(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	n, err := domcol.Created(project, req.Collection, fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	s.provision(w, r, n, http.StatusCreated)
}

// AddFields handles POST /projects/{project}/collections/{collection}/fields.
func (s *Server) AddFields(w http.ResponseWriter, r *http.Request, project, collection string) {
	var req AddFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "At least one field is required")
		return
	}

	fields, err := fieldsFromRequest(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	n, err := domcol.FieldsAdded(project, collection, fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	s.provision(w, r, n, http.StatusOK)
}

func (s *Server) provision(w http.ResponseWriter, r *http.Request, n domcol.Notification, okStatus int) {
	var report autoindex.Report
	ctx := autoindex.ContextWithReport(r.Context(), &report)

	err := s.bus.Publish(ctx, eventbus.SourceHTTP, n)
	if errors.Is(err, domain.ErrNoSubscribers) {
		writeError(w, http.StatusServiceUnavailable, ErrorCodeAutoIndexDisabled, domain.ErrAutoIndexDisabled.Error())
		return
	}

	// No report means the indexer never ran for this notification.
	reported := report.Notification.ID() == n.ID()
	if err == nil {
		if !reported {
			writeError(w, http.StatusServiceUnavailable, ErrorCodeAutoIndexDisabled, domain.ErrAutoIndexDisabled.Error())
			return
		}
		writeJSON(w, okStatus, reportToResponse(report))
		return
	}

	logpkg.FromContextOr(r.Context(), s.logger).Warn("Notification surfaced an error",
		zap.String("notification_id", n.ID()),
		zap.Error(err),
	)

	status, code := statusForProvisionError(err)
	if !reported {
		writeError(w, status, code, safeMessage(err))
		return
	}
	resp := reportToResponse(report)
	resp.Error = &ErrorResponse{Code: code, Message: safeMessage(err)}
	writeJSON(w, status, resp)
}

// GetCapability handles GET /capability.
func (s *Server) GetCapability(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CapabilityResponse{
		Tier:             s.tier.String(),
		IfNotExists:      s.tier.SupportsIfNotExists(),
		BRIN:             s.tier.SupportsBRIN(),
		AutoIndexEnabled: len(s.bus.Subscribers()) > 0,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// GetVersion handles GET /version.
func (s *Server) GetVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// statusForProvisionError maps a surfaced reactor error to an HTTP status.
// Bad identifiers are the caller's fault; a rejected statement is the engine's.
func statusForProvisionError(err error) (int, ErrorCode) {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return http.StatusBadRequest, ErrorCodeInvalidIdentifier
	case errors.Is(err, domain.ErrStatementFailed):
		return http.StatusBadGateway, ErrorCodeStatementFailed
	default:
		return http.StatusInternalServerError, ErrorCodeInternalError
	}
}

// safeMessage describes err for a client without exposing server error text.
func safeMessage(err error) string {
	var ie *index.IdentifierError
	if errors.As(err, &ie) {
		return ie.Error()
	}
	var dbErr *db.Error
	if errors.As(err, &dbErr) && dbErr.Code != "" {
		return fmt.Sprintf("%s (SQLSTATE %s)", domain.ErrStatementFailed, dbErr.Code)
	}
	if errors.Is(err, domain.ErrStatementFailed) {
		return domain.ErrStatementFailed.Error()
	}
	return "internal error"
}

func fieldsFromRequest(defs []FieldDefinition) ([]field.Field, error) {
	fields := make([]field.Field, 0, len(defs))
	for _, d := range defs {
		f, err := field.New(d.Name, field.Type(d.Type))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func reportToResponse(r autoindex.Report) ProvisionResponse {
	n := r.Notification
	fields := make([]FieldReport, len(r.Results))
	for i, res := range r.Results {
		fr := FieldReport{
			Name:    res.Field.Name(),
			Type:    string(res.Field.FieldType()),
			Outcome: string(res.Outcome),
		}
		if res.Attempted() {
			spec := res.Statement.Spec()
			fr.Index = spec.Name
			fr.Method = string(spec.Method)
			fr.Statement = res.Statement.SQL()
		}
		if res.Err != nil {
			fr.Error = safeMessage(res.Err)
		}
		fields[i] = fr
	}

	return ProvisionResponse{
		NotificationID: n.ID(),
		Kind:           string(n.Kind()),
		Project:        n.Project(),
		Collection:     n.Collection(),
		Tier:           r.Tier.String(),
		Fields:         fields,
	}
}
