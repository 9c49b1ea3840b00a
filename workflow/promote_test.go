package workflow

import (
	"testing"

	"github.com/aguo890/linesight/models"
)

func TestConfirmedColumnResults(t *testing.T) {
	results := confirmedColumnResults(models.ColumnMap{
		"Qty Out":  "actual_qty",
		"Style No": "style_number",
		"Notes":    "",
	})
	if len(results) != 3 {
		t.Fatalf("results = %d, want one per mapped column", len(results))
	}

	// deterministic order for UI rendering
	order := []string{"Notes", "Qty Out", "Style No"}
	for i, want := range order {
		if results[i].SourceColumn != want {
			t.Fatalf("results[%d] = %q, want %q (sorted by source)", i, results[i].SourceColumn, want)
		}
	}

	notes := results[0]
	if !notes.Ignored || notes.TargetField != nil {
		t.Fatalf("empty-target column = %+v, want ignored with no target", notes)
	}

	qty := results[1]
	if qty.TargetField == nil || *qty.TargetField != "actual_qty" {
		t.Fatalf("target = %v, want actual_qty", qty.TargetField)
	}
	if qty.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0 for a confirmed mapping", qty.Confidence)
	}
	if qty.Tier != models.MatchTierHash {
		t.Fatalf("tier = %s, want HASH", qty.Tier)
	}
	if qty.NeedsReview {
		t.Fatal("confirmed mappings never need review")
	}
}
