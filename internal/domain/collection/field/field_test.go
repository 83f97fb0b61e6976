package field

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		name string
		ft   Type
	}{
		{"user_id", String},
		{"amount", Decimal},
		{"_time", Timestamp},
		{"tags", ArrayOf(String)},
		{"props", MapOf(Long)},
	}

	for _, tt := range tests {
		f, err := New(tt.name, tt.ft)
		if err != nil {
			t.Errorf("New(%q, %q) unexpected error: %v", tt.name, tt.ft, err)
			continue
		}
		if f.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", f.Name(), tt.name)
		}
		if f.FieldType() != tt.ft {
			t.Errorf("FieldType() = %q, want %q", f.FieldType(), tt.ft)
		}
	}
}

func TestNew_EmptyName(t *testing.T) {
	_, err := New("", String)
	if err == nil {
		t.Fatal("expected error for empty name")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q, want 'required'", err)
	}
}

func TestNew_InvalidType(t *testing.T) {
	for _, ft := range []Type{"", "varchar", "array_", "map_vector", "array_array_string"} {
		if _, err := New("x", ft); err == nil {
			t.Errorf("expected error for type %q", ft)
		}
	}
}

func TestType_Elem(t *testing.T) {
	if got := ArrayOf(Date).Elem(); got != Date {
		t.Errorf("ArrayOf(Date).Elem() = %q, want date", got)
	}
	if got := MapOf(Double).Elem(); got != Double {
		t.Errorf("MapOf(Double).Elem() = %q, want double", got)
	}
	if !ArrayOf(Date).IsArray() || ArrayOf(Date).IsMap() {
		t.Error("ArrayOf(Date) should be array only")
	}
}

func TestType_RangeIndexable(t *testing.T) {
	for _, ft := range []Type{Date, Decimal, Double, Integer, Long, String, Timestamp, Time} {
		if !ft.RangeIndexable() {
			t.Errorf("%q should be range-indexable", ft)
		}
	}
	for _, ft := range []Type{Boolean, Binary, ArrayOf(Long), MapOf(String)} {
		if ft.RangeIndexable() {
			t.Errorf("%q should not be range-indexable", ft)
		}
	}
}
