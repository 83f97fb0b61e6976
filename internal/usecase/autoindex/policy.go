package autoindex

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/autoindex/internal/domain"
	domcap "github.com/kailas-cloud/autoindex/internal/domain/capability"
	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
	"github.com/kailas-cloud/autoindex/internal/domain/index"
)

// Outcome is the final disposition of one field.
type Outcome string

const (
	// OutcomeCreated means the statement ran successfully.
	OutcomeCreated Outcome = "created"
	// OutcomeSwallowed means the statement failed on a legacy engine and the failure was ignored.
	OutcomeSwallowed Outcome = "swallowed"
	// OutcomeFailed means the statement failed on a modern engine and the failure is surfaced.
	OutcomeFailed Outcome = "failed"
	// OutcomeInvalid means no statement could be built for the field's identifiers.
	OutcomeInvalid Outcome = "invalid"
	// OutcomeSkipped means the field was never attempted because an earlier field halted processing.
	OutcomeSkipped Outcome = "skipped"
)

// Surfaced reports whether the outcome must reach the caller as an error.
func (o Outcome) Surfaced() bool {
	return o == OutcomeFailed || o == OutcomeInvalid
}

// FieldResult is what happened to one field of a notification.
type FieldResult struct {
	Field     field.Field
	Statement index.Statement
	Err       error
	Outcome   Outcome
}

// Attempted reports whether a statement was sent to the engine.
func (r FieldResult) Attempted() bool {
	return r.Outcome == OutcomeCreated || r.Outcome == OutcomeSwallowed || r.Outcome == OutcomeFailed
}

// ProvisionError attributes a surfaced failure to its field.
type ProvisionError struct {
	Project    string
	Collection string
	Field      string
	Err        error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision auto index for %s.%s.%s: %v", e.Project, e.Collection, e.Field, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

// Policy decides how per-field failures are treated for a capability tier.
//
// Legacy engines routinely fail on duplicate indexes (no IF NOT EXISTS), so statement
// failures are swallowed and the remaining fields still run. On modern engines a failed
// statement means something is really wrong: it is surfaced and the rest of the
// notification is abandoned. Invalid identifiers are surfaced on every tier.
type Policy struct {
	tier domcap.Tier
}

// NewPolicy returns the failure policy for tier.
func NewPolicy(tier domcap.Tier) Policy {
	return Policy{tier: tier}
}

// Judge assigns the outcome of an attempt from its error.
func (p Policy) Judge(r FieldResult) FieldResult {
	switch {
	case r.Err == nil:
		r.Outcome = OutcomeCreated
	case errors.Is(r.Err, domain.ErrInvalidIdentifier):
		r.Outcome = OutcomeInvalid
	case p.tier == domcap.Modern:
		r.Outcome = OutcomeFailed
	default:
		r.Outcome = OutcomeSwallowed
	}
	return r
}

// Halts reports whether a judged result stops the rest of the notification.
func (p Policy) Halts(r FieldResult) bool {
	return p.tier == domcap.Modern && r.Outcome.Surfaced()
}

// Resolve folds judged results into the error returned to the notification source.
func (p Policy) Resolve(project, collection string, results []FieldResult) error {
	var errs []error
	for _, r := range results {
		if !r.Outcome.Surfaced() {
			continue
		}
		errs = append(errs, &ProvisionError{
			Project:    project,
			Collection: collection,
			Field:      r.Field.Name(),
			Err:        r.Err,
		})
	}
	return errors.Join(errs...)
}
