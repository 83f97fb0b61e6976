package chi

// ErrorCode is a machine-readable error code in API responses.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeInvalidIdentifier ErrorCode = "invalid_identifier"
	ErrorCodeStatementFailed   ErrorCode = "statement_failed"
	ErrorCodeAutoIndexDisabled ErrorCode = "autoindex_disabled"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FieldDefinition declares one field of a collection.
type FieldDefinition struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateCollectionRequest is the body of POST /projects/{project}/collections.
type CreateCollectionRequest struct {
	Collection string            `json:"collection"`
	Fields     []FieldDefinition `json:"fields"`
}

// AddFieldsRequest is the body of POST /projects/{project}/collections/{collection}/fields.
type AddFieldsRequest struct {
	Fields []FieldDefinition `json:"fields"`
}

// FieldReport is the outcome for one field.
type FieldReport struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Outcome   string `json:"outcome"`
	Index     string `json:"index,omitempty"`
	Method    string `json:"method,omitempty"`
	Statement string `json:"statement,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ProvisionResponse reports what happened to every field of a notification.
type ProvisionResponse struct {
	NotificationID string         `json:"notification_id"`
	Kind           string         `json:"kind"`
	Project        string         `json:"project"`
	Collection     string         `json:"collection"`
	Tier           string         `json:"tier"`
	Fields         []FieldReport  `json:"fields"`
	Error          *ErrorResponse `json:"error,omitempty"`
}

// CapabilityResponse is the body of GET /capability.
type CapabilityResponse struct {
	Tier             string `json:"tier"`
	IfNotExists      bool   `json:"if_not_exists"`
	BRIN             bool   `json:"brin"`
	AutoIndexEnabled bool   `json:"autoindex_enabled"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
