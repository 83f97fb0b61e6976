package collection

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
)

func makeField(t *testing.T, name string, ft field.Type) field.Field {
	t.Helper()
	f, err := field.New(name, ft)
	if err != nil {
		t.Fatalf("field.New(%q, %q): %v", name, ft, err)
	}
	return f
}

func TestNew_Valid(t *testing.T) {
	fields := []field.Field{
		makeField(t, "_time", field.Timestamp),
		makeField(t, "user_id", field.String),
	}

	n, err := Created("shop", "pageview", fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind() != KindCreated {
		t.Errorf("Kind() = %q, want %q", n.Kind(), KindCreated)
	}
	if n.Project() != "shop" || n.Collection() != "pageview" {
		t.Errorf("unexpected payload: %s.%s", n.Project(), n.Collection())
	}
	if len(n.Fields()) != 2 || n.Fields()[1].Name() != "user_id" {
		t.Errorf("Fields() = %+v, want declared order", n.Fields())
	}
	if n.ID() == "" {
		t.Error("expected non-empty ID")
	}
	if n.OccurredAt().IsZero() {
		t.Error("expected OccurredAt to be set")
	}
}

func TestNew_FieldsAdded(t *testing.T) {
	n, err := FieldsAdded("shop", "pageview", []field.Field{makeField(t, "referrer", field.String)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind() != KindFieldsAdded {
		t.Errorf("Kind() = %q, want %q", n.Kind(), KindFieldsAdded)
	}
}

func TestNew_FieldsAreCopied(t *testing.T) {
	fields := []field.Field{makeField(t, "a", field.Long)}
	n, err := Created("p", "c", fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields[0] = makeField(t, "b", field.Long)
	if n.Fields()[0].Name() != "a" {
		t.Error("notification must not alias the caller's slice")
	}
}

func TestFields_ReturnsCopy(t *testing.T) {
	n, err := FieldsAdded("p", "c", []field.Field{makeField(t, "a", field.Long)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := n.Fields()
	got[0] = makeField(t, "b", field.Long)
	if n.Fields()[0].Name() != "a" {
		t.Error("mutating the returned slice must not change the notification")
	}
}

func TestNew_Invalid(t *testing.T) {
	dup := []field.Field{makeField(t, "a", field.Long), makeField(t, "a", field.String)}

	tests := []struct {
		name    string
		kind    Kind
		project string
		coll    string
		fields  []field.Field
		wantErr string
	}{
		{"bad kind", "dropped", "p", "c", nil, "invalid notification kind"},
		{"no project", KindCreated, "", "c", nil, "project is required"},
		{"no collection", KindCreated, "p", "", nil, "collection is required"},
		{"duplicate field", KindFieldsAdded, "p", "c", dup, "duplicate field name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.kind, tt.project, tt.coll, tt.fields)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}
