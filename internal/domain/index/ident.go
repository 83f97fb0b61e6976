package index

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/kailas-cloud/autoindex/internal/domain"
)

const (
	// MaxIdentifierLen is PostgreSQL's NAMEDATALEN-1; longer names are silently truncated
	// by the server.
	MaxIdentifierLen = 63
	// maxInputLen bounds a single project/collection/field name.
	maxInputLen = 128
	// hashSuffixLen is "_" plus 16 hex digits of xxhash64.
	hashSuffixLen = 17
)

// Identifier kinds reported in IdentifierError.
const (
	KindProject    = "project"
	KindCollection = "collection"
	KindField      = "field"
	KindIndex      = "index"
)

// IdentifierError describes a name that cannot be embedded into DDL.
type IdentifierError struct {
	Kind   string
	Value  string
	Reason string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", domain.ErrInvalidIdentifier, e.Kind, e.Value, e.Reason)
}

func (e *IdentifierError) Unwrap() error { return domain.ErrInvalidIdentifier }

// Normalize validates s and folds it to lower case, the way unquoted names are stored.
func Normalize(kind, s string) (string, error) {
	if s == "" {
		return "", &IdentifierError{Kind: kind, Value: s, Reason: "empty"}
	}
	if len(s) > maxInputLen {
		return "", &IdentifierError{Kind: kind, Value: s, Reason: fmt.Sprintf("longer than %d bytes", maxInputLen)}
	}
	if !utf8.ValidString(s) {
		return "", &IdentifierError{Kind: kind, Value: s, Reason: "not valid UTF-8"}
	}
	for _, r := range s {
		if r == '"' {
			return "", &IdentifierError{Kind: kind, Value: s, Reason: "contains double quote"}
		}
		if unicode.IsControl(r) {
			return "", &IdentifierError{Kind: kind, Value: s, Reason: "contains control character"}
		}
	}
	return strings.ToLower(s), nil
}

// Quote normalizes s and wraps it in double quotes for direct interpolation.
func Quote(kind, s string) (string, error) {
	n, err := Normalize(kind, s)
	if err != nil {
		return "", err
	}
	return `"` + n + `"`, nil
}

// Name derives the auto index name for a (project, collection, field) triple.
// Names over MaxIdentifierLen bytes are cut and suffixed with a hash of the full
// name so the server never truncates two different names into one.
func Name(project, collection, fieldName string) (string, error) {
	p, err := Normalize(KindProject, project)
	if err != nil {
		return "", err
	}
	c, err := Normalize(KindCollection, collection)
	if err != nil {
		return "", err
	}
	f, err := Normalize(KindField, fieldName)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_%s_auto_index", p, c, f)
	if len(name) <= MaxIdentifierLen {
		return name, nil
	}
	return truncateUTF8(name, MaxIdentifierLen-hashSuffixLen) +
		fmt.Sprintf("_%016x", xxhash.Sum64String(name)), nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
