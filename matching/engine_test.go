package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/aguo890/linesight/models"
)

// fakeReasoningService scripts Tier-3 verdicts per column name.
type fakeReasoningService struct {
	verdicts map[string]Inference
	err      error
	calls    int
}

func (f *fakeReasoningService) InferColumn(ctx context.Context, name string, samples []string) (Inference, error) {
	f.calls++
	if f.err != nil {
		return Inference{}, f.err
	}
	return f.verdicts[name], nil
}

func (f *fakeReasoningService) InferSchema(ctx context.Context, columns []ColumnSample) (map[string]Inference, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]Inference{}
	for _, c := range columns {
		if v, ok := f.verdicts[c.Name]; ok {
			out[c.Name] = v
		}
	}
	return out, nil
}

func newTestEngine(svc ReasoningService) *Engine {
	var semantic *SemanticMatcher
	if svc != nil {
		semantic = NewSemanticMatcher(svc)
	}
	return NewEngine(NewAliasMatcher(nil), NewFuzzyMatcher(FuzzyCutoffLow), semantic)
}

func TestEngineWaterfallOrder(t *testing.T) {
	svc := &fakeReasoningService{verdicts: map[string]Inference{}}
	e := newTestEngine(svc)

	// exact builtin hit must resolve at Tier 1 and never reach Tier 3
	r := e.MatchColumn(context.Background(), "Style Number", nil)
	if r.Tier != models.MatchTierHash {
		t.Fatalf("tier = %s, want HASH", r.Tier)
	}
	if svc.calls != 0 {
		t.Fatalf("reasoning service called %d times for a Tier-1 hit", svc.calls)
	}
}

func TestEngineFactoryAliasBeatsFuzzy(t *testing.T) {
	// "Target Output" fuzzy-matches planned_qty variations, but a factory
	// alias pins it to actual_qty; Tier 1 must win regardless of similarity.
	cache := NewAliasCache([]models.ColumnAlias{
		{ID: 9, Scope: models.AliasScopeFactory, ScopeId: 1, NormalizedAlias: "target_output", CanonicalField: "actual_qty"},
	})
	e := NewEngine(NewAliasMatcher(cache), NewFuzzyMatcher(FuzzyCutoffLow), nil)

	r := e.MatchColumn(context.Background(), "Target Output", nil)
	if r.Tier != models.MatchTierHash {
		t.Fatalf("tier = %s, want HASH", r.Tier)
	}
	if r.TargetField == nil || *r.TargetField != "actual_qty" {
		t.Fatalf("target = %v, want actual_qty", r.TargetField)
	}
}

func TestEngineBatchSendsOneSemanticCall(t *testing.T) {
	svc := &fakeReasoningService{verdicts: map[string]Inference{
		"Mystery A": {Canonical: "buyer", Confidence: 0.8, Reasoning: "sample values look like brand names"},
		"Mystery B": {Canonical: InferenceUnmappable, Confidence: 0.9, Reasoning: "signature column"},
	}}
	e := newTestEngine(svc)

	headers := []string{"Style Number", "Mystery A", "Mystery B"}
	results, stats := e.MatchColumns(context.Background(), headers, nil)

	if svc.calls != 1 {
		t.Fatalf("reasoning service calls = %d, want 1 batch call", svc.calls)
	}
	if results[0].Tier != models.MatchTierHash {
		t.Fatalf("col 0 tier = %s, want HASH", results[0].Tier)
	}
	if results[1].TargetField == nil || *results[1].TargetField != "buyer" {
		t.Fatalf("col 1 = %+v, want buyer", results[1])
	}
	if !results[1].NeedsReview {
		t.Fatal("confidence 0.8 must need review")
	}
	if results[2].TargetField != nil {
		t.Fatalf("UNMAPPABLE must stay unmatched, got %v", *results[2].TargetField)
	}
	if stats.TotalColumns != 3 || stats.HashHits != 1 || stats.LLMHits != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestEngineSemanticFailureDegradesNotAborts(t *testing.T) {
	svc := &fakeReasoningService{err: errors.New("connection refused")}
	e := newTestEngine(svc)

	results, stats := e.MatchColumns(context.Background(), []string{"Mystery A", "Mystery B"}, nil)
	for i, r := range results {
		if r.TargetField != nil {
			t.Fatalf("col %d matched despite service failure: %+v", i, r)
		}
		if r.Reasoning == nil || *r.Reasoning == "" {
			t.Fatalf("col %d missing failure reasoning", i)
		}
	}
	if stats.Unmatched != 2 {
		t.Fatalf("unmatched = %d, want 2", stats.Unmatched)
	}
}

func TestEngineClampRejectsInventedFields(t *testing.T) {
	svc := &fakeReasoningService{verdicts: map[string]Inference{
		"Mystery": {Canonical: "made_up_field", Confidence: 0.99, Reasoning: "hallucinated"},
	}}
	e := newTestEngine(svc)

	r := e.MatchColumn(context.Background(), "Mystery", nil)
	if r.TargetField != nil {
		t.Fatalf("invented canonical field must be clamped to no-match, got %v", *r.TargetField)
	}
	if r.Tier != models.MatchTierUnmatched {
		t.Fatalf("tier = %s, want UNMATCHED", r.Tier)
	}
}

func TestEngineWithoutSemanticTier(t *testing.T) {
	e := newTestEngine(nil)
	results, stats := e.MatchColumns(context.Background(), []string{"Mystery Col"}, nil)
	if results[0].Tier != models.MatchTierUnmatched || !results[0].Ignored {
		t.Fatalf("got %+v, want ignored UNMATCHED", results[0])
	}
	if stats.Unmatched != 1 {
		t.Fatalf("unmatched = %d, want 1", stats.Unmatched)
	}
}
