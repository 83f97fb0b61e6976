package autoindex

import (
	domcap "github.com/kailas-cloud/autoindex/internal/domain/capability"
	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
	uc "github.com/kailas-cloud/autoindex/internal/usecase/autoindex"
)

// Tier is the capability class of the connected server.
type Tier string

const (
	// TierLegacy is a server older than 9.5: no IF NOT EXISTS, no BRIN.
	TierLegacy Tier = "legacy"
	// TierModern is 9.5 or newer.
	TierModern Tier = "modern"
)

func tierFromDomain(t domcap.Tier) Tier {
	if t == domcap.Modern {
		return TierModern
	}
	return TierLegacy
}

func (t Tier) valid() bool {
	return t == TierLegacy || t == TierModern
}

func (t Tier) toDomain() domcap.Tier {
	if t == TierModern {
		return domcap.Modern
	}
	return domcap.Legacy
}

// FieldType is the semantic type of a field.
type FieldType string

// Scalar field types. Arrays and maps use ArrayOf and MapOf.
const (
	FieldString    FieldType = FieldType(field.String)
	FieldInteger   FieldType = FieldType(field.Integer)
	FieldDecimal   FieldType = FieldType(field.Decimal)
	FieldDouble    FieldType = FieldType(field.Double)
	FieldLong      FieldType = FieldType(field.Long)
	FieldBoolean   FieldType = FieldType(field.Boolean)
	FieldDate      FieldType = FieldType(field.Date)
	FieldTime      FieldType = FieldType(field.Time)
	FieldTimestamp FieldType = FieldType(field.Timestamp)
	FieldBinary    FieldType = FieldType(field.Binary)
)

// ArrayOf returns the array type of elem.
func ArrayOf(elem FieldType) FieldType { return FieldType(field.ArrayOf(field.Type(elem))) }

// MapOf returns the map type with values of value.
func MapOf(value FieldType) FieldType { return FieldType(field.MapOf(field.Type(value))) }

// Field declares one field of a collection.
type Field struct {
	Name string
	Type FieldType
}

// Outcome is what happened to one field.
type Outcome string

// Field outcomes.
const (
	OutcomeCreated   = Outcome(uc.OutcomeCreated)
	OutcomeSwallowed = Outcome(uc.OutcomeSwallowed)
	OutcomeFailed    = Outcome(uc.OutcomeFailed)
	OutcomeInvalid   = Outcome(uc.OutcomeInvalid)
	OutcomeSkipped   = Outcome(uc.OutcomeSkipped)
)

// FieldResult reports one field of a notification.
type FieldResult struct {
	Field     Field
	Index     string // empty when no statement was run
	Method    string // "BRIN" or "BTREE"
	Statement string
	Outcome   Outcome
	Err       error
}

// Report is the per-field account of one notification.
type Report struct {
	NotificationID string
	Project        string
	Collection     string
	Tier           Tier
	Fields         []FieldResult
}

func reportFromDomain(r uc.Report) Report {
	fields := make([]FieldResult, len(r.Results))
	for i, res := range r.Results {
		fr := FieldResult{
			Field:   Field{Name: res.Field.Name(), Type: FieldType(res.Field.FieldType())},
			Outcome: Outcome(res.Outcome),
			Err:     res.Err,
		}
		if res.Attempted() {
			spec := res.Statement.Spec()
			fr.Index = spec.Name
			fr.Method = string(spec.Method)
			fr.Statement = res.Statement.SQL()
		}
		fields[i] = fr
	}
	return Report{
		NotificationID: r.Notification.ID(),
		Project:        r.Notification.Project(),
		Collection:     r.Notification.Collection(),
		Tier:           tierFromDomain(r.Tier),
		Fields:         fields,
	}
}
