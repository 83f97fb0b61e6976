package index

import (
	"strings"

	"github.com/kailas-cloud/autoindex/internal/domain/capability"
	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
)

// Statement is a rendered CREATE INDEX statement together with the spec it creates.
type Statement struct {
	spec        Spec
	ifNotExists bool
	sql         string
}

// Spec returns the index the statement creates.
func (s Statement) Spec() Spec { return s.spec }

// IfNotExists reports whether the statement is idempotent on the server side.
func (s Statement) IfNotExists() bool { return s.ifNotExists }

// SQL returns the statement text.
func (s Statement) SQL() string { return s.sql }

func (s Statement) String() string { return s.sql }

// Builder is a fluent builder for auto index statements.
type Builder struct {
	project    string
	collection string
	field      field.Field
	tier       capability.Tier
	timeColumn string
}

// New starts building the auto index for one field. The tier defaults to Legacy.
func New(project, collection string, f field.Field) *Builder {
	return &Builder{
		project:    project,
		collection: collection,
		field:      f,
		tier:       capability.Legacy,
	}
}

// Tier sets the capability tier of the target engine.
func (b *Builder) Tier(t capability.Tier) *Builder {
	b.tier = t
	return b
}

// EventTimeColumn sets the project's event-time column name.
func (b *Builder) EventTimeColumn(name string) *Builder {
	b.timeColumn = name
	return b
}

// Method picks the access method. BRIN only for the event-time column on engines that
// have it; field type is not consulted. Names compare after case folding, as the
// server stores them.
func (b *Builder) Method() Method {
	if b.tier.SupportsBRIN() && b.timeColumn != "" &&
		strings.ToLower(b.field.Name()) == strings.ToLower(b.timeColumn) {
		return BRIN
	}
	return BTree
}

// Build validates all identifiers and renders the statement.
// Never uses CONCURRENTLY: it cannot run inside a transaction and deadlocks with
// concurrent ALTER TABLE on the same collection.
func (b *Builder) Build() (Statement, error) {
	name, err := Name(b.project, b.collection, b.field.Name())
	if err != nil {
		return Statement{}, err
	}
	quotedName, err := Quote(KindIndex, name)
	if err != nil {
		return Statement{}, err
	}
	project, err := Quote(KindProject, b.project)
	if err != nil {
		return Statement{}, err
	}
	collection, err := Quote(KindCollection, b.collection)
	if err != nil {
		return Statement{}, err
	}
	column, err := Quote(KindField, b.field.Name())
	if err != nil {
		return Statement{}, err
	}

	method := b.Method()
	ifNotExists := b.tier.SupportsIfNotExists()

	var sb strings.Builder
	sb.WriteString("CREATE INDEX ")
	if ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(quotedName)
	sb.WriteString(" ON ")
	sb.WriteString(project)
	sb.WriteString(".")
	sb.WriteString(collection)
	sb.WriteString(" USING ")
	sb.WriteString(string(method))
	sb.WriteString("(")
	sb.WriteString(column)
	sb.WriteString(")")

	return Statement{
		spec: Spec{
			Project:    b.project,
			Collection: b.collection,
			Field:      b.field,
			Name:       name,
			Method:     method,
		},
		ifNotExists: ifNotExists,
		sql:         sb.String(),
	}, nil
}

// MustBuild calls Build and panics on error.
func (b *Builder) MustBuild() Statement {
	stmt, err := b.Build()
	if err != nil {
		panic(err)
	}
	return stmt
}

// BuildDDL renders the auto index statement for a single field.
func BuildDDL(
	tier capability.Tier, project, collection string, f field.Field, eventTimeColumn string,
) (Statement, error) {
	return New(project, collection, f).Tier(tier).EventTimeColumn(eventTimeColumn).Build()
}
