package collection

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
)

// Kind distinguishes the two schema-evolution events.
type Kind string

const (
	// KindCreated is emitted when a collection is created with its initial fields.
	KindCreated Kind = "collection_created"
	// KindFieldsAdded is emitted when new fields are added to an existing collection.
	KindFieldsAdded Kind = "fields_added"
)

// IsValid checks if the kind is supported.
func (k Kind) IsValid() bool {
	return k == KindCreated || k == KindFieldsAdded
}

// Notification is an immutable schema-evolution event.
// Both kinds carry the same payload and are handled identically.
type Notification struct {
	id         string
	kind       Kind
	project    string
	collection string
	fields     []field.Field
	occurredAt time.Time
}

// New validates and creates a Notification with a fresh ID.
func New(kind Kind, project, collection string, fields []field.Field) (Notification, error) {
	if !kind.IsValid() {
		return Notification{}, fmt.Errorf("invalid notification kind: %q", kind)
	}
	if project == "" {
		return Notification{}, fmt.Errorf("project is required")
	}
	if collection == "" {
		return Notification{}, fmt.Errorf("collection is required")
	}
	if err := validateFields(fields); err != nil {
		return Notification{}, err
	}

	return Notification{
		id:         uuid.NewString(),
		kind:       kind,
		project:    project,
		collection: collection,
		fields:     append([]field.Field(nil), fields...),
		occurredAt: time.Now(),
	}, nil
}

// Created is shorthand for New(KindCreated, ...).
func Created(project, collection string, fields []field.Field) (Notification, error) {
	return New(KindCreated, project, collection, fields)
}

// FieldsAdded is shorthand for New(KindFieldsAdded, ...).
func FieldsAdded(project, collection string, fields []field.Field) (Notification, error) {
	return New(KindFieldsAdded, project, collection, fields)
}

func validateFields(fields []field.Field) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// ID returns the notification ID used for log correlation.
func (n Notification) ID() string { return n.id }

// Kind returns which schema change happened.
func (n Notification) Kind() Kind { return n.kind }

// Project returns the owning project.
func (n Notification) Project() string { return n.project }

// Collection returns the affected collection.
func (n Notification) Collection() string { return n.collection }

// Fields returns a copy of the new fields in the order they were declared.
func (n Notification) Fields() []field.Field {
	return append([]field.Field(nil), n.fields...)
}

// OccurredAt returns when the notification was created.
func (n Notification) OccurredAt() time.Time { return n.occurredAt }
