package matching

import "github.com/aguo890/linesight/models"

// ScopeIDs narrows alias lookup to the tenant doing the ingestion.
type ScopeIDs struct {
	FactoryID      int
	OrganizationID int
}

// MatchResult is one tier's verdict for one column. TargetField empty means
// "no match". Immutable once returned.
type MatchResult struct {
	TargetField string
	Confidence  float64
	Tier        models.MatchTier
	FuzzyScore  *int
	Reasoning   string
	// AliasId is set when a Tier-1 hit came from a learned alias, so a later
	// user confirmation can increment its usage counter.
	AliasId int
}

// ColumnMatchResult is the engine's per-column output handed to the review
// UI. NeedsReview and Ignored are pre-computed so the UI can pre-select
// auto-acceptable mappings without re-deriving thresholds.
type ColumnMatchResult struct {
	SourceColumn string           `json:"source_column"`
	TargetField  *string          `json:"target_field"`
	Confidence   float64          `json:"confidence"`
	Tier         models.MatchTier `json:"tier"`
	FuzzyScore   *int             `json:"fuzzy_score"`
	Reasoning    *string          `json:"reasoning"`
	NeedsReview  bool             `json:"needs_review"`
	Ignored      bool             `json:"ignored"`
}

// MatchStats aggregates one MatchColumns call.
type MatchStats struct {
	TotalColumns int `json:"total_columns"`
	AutoMapped   int `json:"auto_mapped"`   // confidence >= 0.9
	NeedsReview  int `json:"needs_review"`  // 0.6 <= confidence < 0.9
	Unmatched    int `json:"unmatched"`     // < 0.6 or no match
	HashHits     int `json:"hash_hits"`
	FuzzyHits    int `json:"fuzzy_hits"`
	LLMHits      int `json:"llm_hits"`
}

const (
	autoAcceptConfidence = 0.9
	reviewConfidence     = 0.6
)
