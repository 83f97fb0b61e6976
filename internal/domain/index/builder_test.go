package index

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/autoindex/internal/domain"
	"github.com/kailas-cloud/autoindex/internal/domain/capability"
	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
)

func TestBuildDDL_ModernTimeColumn(t *testing.T) {
	stmt, err := BuildDDL(capability.Modern, "shop", "pageview", field.Reconstruct("time", field.Timestamp), "time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `CREATE INDEX IF NOT EXISTS "shop_pageview_time_auto_index" ON "shop"."pageview" USING BRIN("time")`
	if stmt.SQL() != want {
		t.Errorf("sql =\n%s\nwant\n%s", stmt.SQL(), want)
	}
	if stmt.Spec().Method != BRIN {
		t.Errorf("method = %q, want BRIN", stmt.Spec().Method)
	}
	if !stmt.IfNotExists() {
		t.Error("expected IF NOT EXISTS on modern tier")
	}
}

func TestBuildDDL_TimeColumnMatchIgnoresCase(t *testing.T) {
	tests := []struct {
		field, timeColumn string
	}{
		{"_TIME", "_time"},
		{"_time", "_Time"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.timeColumn, func(t *testing.T) {
			stmt, err := BuildDDL(capability.Modern, "shop", "pageview",
				field.Reconstruct(tt.field, field.Timestamp), tt.timeColumn)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := `CREATE INDEX IF NOT EXISTS "shop_pageview__time_auto_index" ON "shop"."pageview" USING BRIN("_time")`
			if stmt.SQL() != want {
				t.Errorf("sql =\n%s\nwant\n%s", stmt.SQL(), want)
			}
		})
	}
}

func TestBuildDDL_ModernOtherColumn(t *testing.T) {
	stmt, err := BuildDDL(capability.Modern, "shop", "pageview", field.Reconstruct("user_id", field.String), "time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `CREATE INDEX IF NOT EXISTS "shop_pageview_user_id_auto_index" ON "shop"."pageview" USING BTREE("user_id")`
	if stmt.SQL() != want {
		t.Errorf("sql =\n%s\nwant\n%s", stmt.SQL(), want)
	}
	if stmt.Spec().Method.Description() != "balanced-tree" {
		t.Errorf("method = %q, want balanced-tree", stmt.Spec().Method.Description())
	}
}

func TestBuildDDL_LegacyNeverUsesModernSyntax(t *testing.T) {
	for _, name := range []string{"time", "user_id", "amount"} {
		stmt, err := BuildDDL(capability.Legacy, "shop", "pageview", field.Reconstruct(name, field.Long), "time")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if strings.Contains(stmt.SQL(), "IF NOT EXISTS") || strings.Contains(stmt.SQL(), "EXISTS") {
			t.Errorf("%s: legacy statement must not mention IF NOT EXISTS: %s", name, stmt.SQL())
		}
		if stmt.Spec().Method != BTree {
			t.Errorf("%s: method = %q, want BTREE", name, stmt.Spec().Method)
		}
		if !strings.HasPrefix(stmt.SQL(), `CREATE INDEX "shop_pageview_`) {
			t.Errorf("%s: unexpected prefix: %s", name, stmt.SQL())
		}
	}
}

func TestBuildDDL_NoConcurrently(t *testing.T) {
	for _, tier := range []capability.Tier{capability.Legacy, capability.Modern} {
		stmt := New("p", "c", field.Reconstruct("f", field.String)).Tier(tier).MustBuild()
		if strings.Contains(stmt.SQL(), "CONCURRENTLY") {
			t.Errorf("%s: unexpected CONCURRENTLY: %s", tier, stmt.SQL())
		}
	}
}

func TestBuildDDL_Deterministic(t *testing.T) {
	f := field.Reconstruct("_time", field.Timestamp)
	a, err := BuildDDL(capability.Modern, "shop", "pageview", f, "_time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := BuildDDL(capability.Modern, "shop", "pageview", f, "_time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.SQL() != b.SQL() {
		t.Errorf("statements differ:\n%s\n%s", a.SQL(), b.SQL())
	}
}

func TestBuildDDL_EmptyTimeColumnNeverBRIN(t *testing.T) {
	stmt := New("p", "c", field.Reconstruct("_time", field.Timestamp)).Tier(capability.Modern).MustBuild()
	if stmt.Spec().Method != BTree {
		t.Errorf("method = %q, want BTREE without a configured time column", stmt.Spec().Method)
	}
}

func TestBuildDDL_MethodIgnoresFieldType(t *testing.T) {
	// A boolean event-time column still gets BRIN, a timestamp elsewhere does not.
	b := New("p", "c", field.Reconstruct("ts", field.Boolean)).Tier(capability.Modern).EventTimeColumn("ts")
	if b.Method() != BRIN {
		t.Errorf("method = %q, want BRIN", b.Method())
	}
	b = New("p", "c", field.Reconstruct("created", field.Timestamp)).Tier(capability.Modern).EventTimeColumn("ts")
	if b.Method() != BTree {
		t.Errorf("method = %q, want BTREE", b.Method())
	}
}

func TestBuildDDL_LowercasesIdentifiers(t *testing.T) {
	stmt := New("Shop", "PageView", field.Reconstruct("UserID", field.String)).MustBuild()
	want := `CREATE INDEX "shop_pageview_userid_auto_index" ON "shop"."pageview" USING BTREE("userid")`
	if stmt.SQL() != want {
		t.Errorf("sql =\n%s\nwant\n%s", stmt.SQL(), want)
	}
}

func TestBuildDDL_InvalidIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		project    string
		collection string
		field      string
		wantKind   string
	}{
		{"empty project", "", "c", "f", KindProject},
		{"quote in collection", "p", `c"; DROP TABLE x; --`, "f", KindCollection},
		{"newline in field", "p", "c", "f\n", KindField},
		{"nul in project", "p\x00", "c", "f", KindProject},
		{"empty field", "p", "c", "", KindField},
		{"too long collection", "p", strings.Repeat("c", 129), "f", KindCollection},
	}

	for _, tt := range tests {
		for _, tier := range []capability.Tier{capability.Legacy, capability.Modern} {
			t.Run(tt.name+"/"+tier.String(), func(t *testing.T) {
				_, err := BuildDDL(tier, tt.project, tt.collection, field.Reconstruct(tt.field, field.String), "_time")
				if !errors.Is(err, domain.ErrInvalidIdentifier) {
					t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
				}
				var idErr *IdentifierError
				if !errors.As(err, &idErr) {
					t.Fatalf("expected *IdentifierError, got %T", err)
				}
				if idErr.Kind != tt.wantKind {
					t.Errorf("kind = %q, want %q", idErr.Kind, tt.wantKind)
				}
			})
		}
	}
}

func TestMustBuild_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New("", "c", field.Reconstruct("f", field.String)).MustBuild()
}
