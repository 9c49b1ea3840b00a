package matching

import (
	"testing"

	"github.com/aguo890/linesight/models"
)

func TestWeightedRatioExact(t *testing.T) {
	if got := WeightedRatio("actual qty", "actual qty"); got != 100 {
		t.Fatalf("exact ratio = %d, want 100", got)
	}
}

func TestWeightedRatioTokenReorder(t *testing.T) {
	if got := WeightedRatio("efficiency line", "line efficiency"); got != 100 {
		t.Fatalf("token-reorder ratio = %d, want 100", got)
	}
}

func TestFuzzyMatcherReorderedHeader(t *testing.T) {
	m := NewFuzzyMatcher(FuzzyCutoffLow)
	r := m.Match("Efficiency Line")
	if r == nil {
		t.Fatal("expected a match for reordered header")
	}
	if r.TargetField != "efficiency_pct" {
		t.Fatalf("got %s, want efficiency_pct", r.TargetField)
	}
	if r.Tier != models.MatchTierFuzzy {
		t.Fatalf("tier = %s, want FUZZY", r.Tier)
	}
	if r.FuzzyScore == nil || *r.FuzzyScore < FuzzyCutoffMedium {
		t.Fatalf("score = %v, want >= %d", r.FuzzyScore, FuzzyCutoffMedium)
	}
}

func TestFuzzyMatcherSubstringHeader(t *testing.T) {
	m := NewFuzzyMatcher(FuzzyCutoffLow)
	r := m.Match("Daily Target Qty")
	if r == nil {
		t.Fatal("expected a match for substring header")
	}
	if r.TargetField != "planned_qty" {
		t.Fatalf("got %s, want planned_qty", r.TargetField)
	}
}

func TestFuzzyMatcherShortAcronymGuard(t *testing.T) {
	m := NewFuzzyMatcher(FuzzyCutoffLow)

	// "SAMS" scores high against the 3-char key "sam" via substring overlap
	// but is not a perfect 100, so the guard must discard it.
	if r := m.Match("SAMS"); r != nil {
		t.Fatalf("expected guard to reject near-miss on short key, got %+v", r)
	}

	// a perfect score on a short key is allowed through
	r := m.Match("SAM")
	if r == nil {
		t.Fatal("expected perfect short-key match")
	}
	if r.TargetField != "sam" || *r.FuzzyScore != 100 {
		t.Fatalf("got %+v, want sam at score 100", r)
	}
}

func TestFuzzyMatcherBelowCutoff(t *testing.T) {
	m := NewFuzzyMatcher(FuzzyCutoffLow)
	if r := m.Match("zxqvw kjh"); r != nil {
		t.Fatalf("expected nil for garbage header, got %+v", r)
	}
}

func TestMatchWithAlternatives(t *testing.T) {
	m := NewFuzzyMatcher(FuzzyCutoffLow)
	alts := m.MatchWithAlternatives("Line Efficiency", 3)
	if len(alts) == 0 {
		t.Fatal("expected alternatives")
	}
	if alts[0].TargetField != "efficiency_pct" {
		t.Fatalf("top alternative = %s, want efficiency_pct", alts[0].TargetField)
	}
	if alts[0].Score != 100 {
		t.Fatalf("top score = %d, want 100", alts[0].Score)
	}
	seen := map[string]bool{}
	for _, a := range alts {
		if seen[a.TargetField] {
			t.Fatalf("duplicate canonical field %s in alternatives", a.TargetField)
		}
		seen[a.TargetField] = true
	}
}
