package autoindex

import (
	"github.com/kailas-cloud/autoindex/internal/domain"
	uc "github.com/kailas-cloud/autoindex/internal/usecase/autoindex"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidIdentifier = domain.ErrInvalidIdentifier
	ErrStatementFailed   = domain.ErrStatementFailed
	ErrInvalidSchema     = domain.ErrInvalidSchema
)

// ProvisionError attributes a returned failure to its field. Use errors.As.
type ProvisionError = uc.ProvisionError
