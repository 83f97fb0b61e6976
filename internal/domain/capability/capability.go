// Package capability classifies a PostgreSQL server into a feature tier.
package capability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tier is the feature-support class of the connected engine.
type Tier int

const (
	// Legacy engines (< 9.5) reject CREATE INDEX IF NOT EXISTS and lack BRIN.
	Legacy Tier = iota
	// Modern engines (>= 9.5) accept IF NOT EXISTS and support BRIN.
	Modern
)

// String returns the tier name.
func (t Tier) String() string {
	if t == Modern {
		return "modern"
	}
	return "legacy"
}

// SupportsIfNotExists reports whether CREATE INDEX IF NOT EXISTS is accepted.
func (t Tier) SupportsIfNotExists() bool { return t == Modern }

// SupportsBRIN reports whether the BRIN access method is available.
func (t Tier) SupportsBRIN() bool { return t == Modern }

// Version is the major.minor pair reported by the server.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// Tier classifies the version. BRIN and IF NOT EXISTS arrived together in 9.5.
func (v Version) Tier() Tier {
	if v.Major > 9 || (v.Major == 9 && v.Minor >= 5) {
		return Modern
	}
	return Legacy
}

var errEmptyVersion = errors.New("empty version string")

// ParseVersion parses "major.minor[...]". Components past the second are ignored.
// The minor component only contributes its leading digits, so "10.4 (Debian 10.4-1)"
// and "9.6beta1" parse. Since 10 the minor may be absent entirely.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, errEmptyVersion
	}

	majorStr, rest, hasMinor := strings.Cut(s, ".")
	if !hasMinor {
		// "16" or "16beta2" style
		majorStr = leadingDigits(s)
		if majorStr == "" {
			return Version{}, fmt.Errorf("parse version %q: non-numeric major", s)
		}
	}

	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: non-numeric major: %w", s, err)
	}

	if !hasMinor {
		if major <= 9 {
			return Version{}, fmt.Errorf("parse version %q: minor required before 10", s)
		}
		return Version{Major: major}, nil
	}

	minorStr, _, _ := strings.Cut(rest, ".")
	minorStr = leadingDigits(minorStr)
	if minorStr == "" {
		if major > 9 {
			return Version{Major: major}, nil
		}
		return Version{}, fmt.Errorf("parse version %q: non-numeric minor", s)
	}
	minor, err := strconv.Atoi(minorStr)
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", s, err)
	}

	return Version{Major: major, Minor: minor}, nil
}

// Classify parses s and returns its tier, falling back to Legacy on any parse error.
func Classify(s string) Tier {
	v, err := ParseVersion(s)
	if err != nil {
		return Legacy
	}
	return v.Tier()
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
