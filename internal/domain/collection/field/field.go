package field

import (
	"fmt"
	"strings"
)

// Type is the semantic type of a collection field.
type Type string

// Scalar field types.
const (
	String    Type = "string"
	Integer   Type = "integer"
	Decimal   Type = "decimal"
	Double    Type = "double"
	Long      Type = "long"
	Boolean   Type = "boolean"
	Date      Type = "date"
	Time      Type = "time"
	Timestamp Type = "timestamp"
	Binary    Type = "binary"
)

const (
	arrayPrefix = "array_"
	mapPrefix   = "map_"
)

var scalarTypes = map[Type]bool{
	String: true, Integer: true, Decimal: true, Double: true, Long: true,
	Boolean: true, Date: true, Time: true, Timestamp: true, Binary: true,
}

// rangeIndexable lists types whose values have a natural physical ordering.
// Index method selection does not consult it; see RangeIndexable.
var rangeIndexable = map[Type]bool{
	Date: true, Decimal: true, Double: true, Integer: true, Long: true,
	String: true, Timestamp: true, Time: true,
}

// ArrayOf returns the array type with the given element type.
func ArrayOf(elem Type) Type { return arrayPrefix + elem }

// MapOf returns the map type with the given value type.
func MapOf(value Type) Type { return mapPrefix + value }

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool { return strings.HasPrefix(string(t), arrayPrefix) }

// IsMap reports whether t is a map type.
func (t Type) IsMap() bool { return strings.HasPrefix(string(t), mapPrefix) }

// Elem returns the element type of an array or the value type of a map.
// For scalar types it returns t itself.
func (t Type) Elem() Type {
	switch {
	case t.IsArray():
		return Type(strings.TrimPrefix(string(t), arrayPrefix))
	case t.IsMap():
		return Type(strings.TrimPrefix(string(t), mapPrefix))
	default:
		return t
	}
}

// IsValid checks that t is a scalar type or an array/map of one.
func (t Type) IsValid() bool {
	return scalarTypes[t.Elem()]
}

// RangeIndexable reports whether a range-compact (BRIN) index would be meaningful
// for values of this type. Kept for an alternative method policy keyed on field type;
// the active policy only looks at whether the field is the event-time column.
func (t Type) RangeIndexable() bool { return rangeIndexable[t] }

// Field is an immutable value object describing a collection field.
type Field struct {
	name      string
	fieldType Type
}

// New validates and creates a Field.
// Name must be non-empty; type must be a known scalar or an array/map of one.
func New(name string, ft Type) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if !ft.IsValid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	return Field{name: name, fieldType: ft}, nil
}

// Reconstruct creates a Field without validation (decoding trusted input).
func Reconstruct(name string, ft Type) Field {
	return Field{name: name, fieldType: ft}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's semantic type.
func (f Field) FieldType() Type { return f.fieldType }
