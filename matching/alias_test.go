package matching

import (
	"testing"

	"github.com/aguo890/linesight/models"
)

func aliasFixture() *AliasMatcher {
	return NewAliasMatcher(NewAliasCache([]models.ColumnAlias{
		{ID: 1, Scope: models.AliasScopeFactory, ScopeId: 7, NormalizedAlias: "prod_pcs", CanonicalField: "actual_qty"},
		{ID: 2, Scope: models.AliasScopeOrganization, ScopeId: 3, NormalizedAlias: "prod_pcs", CanonicalField: "planned_qty"},
		{ID: 3, Scope: models.AliasScopeOrganization, ScopeId: 3, NormalizedAlias: "buyer_ref", CanonicalField: "po_number"},
		{ID: 4, Scope: models.AliasScopeGlobal, NormalizedAlias: "mc_count", CanonicalField: "operators_present"},
	}))
}

func TestAliasMatcherScopePrecedence(t *testing.T) {
	m := aliasFixture()

	// same alias exists at factory and org scope; factory must win
	r := m.Match("Prod Pcs")
	if r == nil {
		t.Fatal("expected a match")
	}
	if r.TargetField != "actual_qty" {
		t.Fatalf("expected factory-scoped field actual_qty, got %s", r.TargetField)
	}
	if r.Confidence != 1.0 {
		t.Fatalf("factory alias confidence = %v, want 1.0", r.Confidence)
	}
	if r.AliasId != 1 {
		t.Fatalf("expected alias id 1, got %d", r.AliasId)
	}
}

func TestAliasMatcherOrgAndGlobalConfidence(t *testing.T) {
	m := aliasFixture()

	if r := m.Match("Buyer Ref"); r == nil || r.Confidence != 0.99 {
		t.Fatalf("org alias: got %+v, want confidence 0.99", r)
	}
	if r := m.Match("MC Count"); r == nil || r.Confidence != 0.98 {
		t.Fatalf("global alias: got %+v, want confidence 0.98", r)
	}
}

func TestAliasMatcherBuiltinTable(t *testing.T) {
	m := NewAliasMatcher(nil)

	cases := map[string]string{
		"Style Number": "style_number",
		"SMV":          "sam",
		"Total SAM":    "sam",
		"Output Qty":   "actual_qty",
		"PO":           "po_number",
	}
	for header, want := range cases {
		r := m.Match(header)
		if r == nil {
			t.Fatalf("expected builtin match for %q", header)
		}
		if r.TargetField != want {
			t.Errorf("Match(%q) = %s, want %s", header, r.TargetField, want)
		}
		if r.Tier != models.MatchTierHash {
			t.Errorf("Match(%q) tier = %s, want HASH", header, r.Tier)
		}
	}
}

func TestAliasMatcherMiss(t *testing.T) {
	m := NewAliasMatcher(nil)
	for _, header := range []string{"Completely Unknown Col", "", "   "} {
		if r := m.Match(header); r != nil {
			t.Errorf("Match(%q) = %+v, want nil", header, r)
		}
	}
}
