package matching

import (
	"context"

	"github.com/aguo890/linesight/config"
	"github.com/aguo890/linesight/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Engine runs the Tier 1 -> Tier 2 -> Tier 3 waterfall per column. Cheap
// tiers first; the reasoning service is only consulted once, in one batch,
// for whatever the first two tiers left unresolved.
type Engine struct {
	alias    *AliasMatcher
	fuzzy    *FuzzyMatcher
	semantic *SemanticMatcher // nil disables Tier 3
	logger   *logrus.Logger
}

func NewEngine(alias *AliasMatcher, fuzzy *FuzzyMatcher, semantic *SemanticMatcher) *Engine {
	return &Engine{
		alias:    alias,
		fuzzy:    fuzzy,
		semantic: semantic,
		logger:   config.GetLogger(),
	}
}

// NewEngineForScopes loads the alias cache for one tenant and wires the
// standard tiers. svc may be nil to disable semantic matching.
func NewEngineForScopes(ctx context.Context, db *gorm.DB, scopes ScopeIDs, svc ReasoningService) (*Engine, error) {
	cache, err := LoadAliasCache(ctx, db, scopes)
	if err != nil {
		return nil, err
	}
	var semantic *SemanticMatcher
	if svc != nil {
		semantic = NewSemanticMatcher(svc)
	}
	return NewEngine(NewAliasMatcher(cache), NewFuzzyMatcher(FuzzyCutoffLow), semantic), nil
}

// MatchColumn resolves a single column through Tiers 1-3.
func (e *Engine) MatchColumn(ctx context.Context, columnName string, samples []string) ColumnMatchResult {
	if result := e.alias.Match(columnName); result != nil {
		return toColumnResult(columnName, *result)
	}
	if result := e.fuzzy.Match(columnName); result != nil {
		return toColumnResult(columnName, *result)
	}
	if e.semantic != nil {
		return toColumnResult(columnName, e.semantic.Match(ctx, columnName, samples))
	}
	return unmatchedResult(columnName, "no tier produced a match")
}

// MatchColumns resolves every header of a file. Columns Tiers 1-2 cannot
// place are collected into one Tier-3 batch call. sampleData maps header ->
// example cell values and may be nil.
func (e *Engine) MatchColumns(ctx context.Context, headers []string, sampleData map[string][]string) ([]ColumnMatchResult, MatchStats) {
	results := make([]ColumnMatchResult, len(headers))
	var pendingIdx []int

	for i, header := range headers {
		if result := e.alias.Match(header); result != nil {
			results[i] = toColumnResult(header, *result)
			continue
		}
		if result := e.fuzzy.Match(header); result != nil {
			results[i] = toColumnResult(header, *result)
			continue
		}
		pendingIdx = append(pendingIdx, i)
	}

	if len(pendingIdx) > 0 && e.semantic != nil {
		batch := make([]ColumnSample, len(pendingIdx))
		for j, i := range pendingIdx {
			batch[j] = ColumnSample{Name: headers[i], Samples: sampleData[headers[i]]}
		}
		verdicts := e.semantic.MatchBatch(ctx, batch)
		for j, i := range pendingIdx {
			results[i] = toColumnResult(headers[i], verdicts[j])
		}
	} else {
		for _, i := range pendingIdx {
			results[i] = unmatchedResult(headers[i], "no tier produced a match")
		}
	}

	stats := computeStats(results)
	e.logger.WithFields(logrus.Fields{
		"total":        stats.TotalColumns,
		"auto_mapped":  stats.AutoMapped,
		"needs_review": stats.NeedsReview,
		"unmatched":    stats.Unmatched,
		"hash_hits":    stats.HashHits,
		"fuzzy_hits":   stats.FuzzyHits,
		"llm_hits":     stats.LLMHits,
	}).Info("[matching.columns]")
	return results, stats
}

func toColumnResult(source string, r MatchResult) ColumnMatchResult {
	if r.TargetField == "" {
		reasoning := r.Reasoning
		if reasoning == "" {
			reasoning = "no tier produced a match"
		}
		out := unmatchedResult(source, reasoning)
		return out
	}

	target := r.TargetField
	out := ColumnMatchResult{
		SourceColumn: source,
		TargetField:  &target,
		Confidence:   r.Confidence,
		Tier:         r.Tier,
		FuzzyScore:   r.FuzzyScore,
		NeedsReview:  r.Confidence < autoAcceptConfidence,
	}
	if r.Reasoning != "" {
		reasoning := r.Reasoning
		out.Reasoning = &reasoning
	}
	return out
}

func unmatchedResult(source, reasoning string) ColumnMatchResult {
	return ColumnMatchResult{
		SourceColumn: source,
		Tier:         models.MatchTierUnmatched,
		NeedsReview:  true,
		Ignored:      true,
		Reasoning:    &reasoning,
	}
}

func computeStats(results []ColumnMatchResult) MatchStats {
	stats := MatchStats{TotalColumns: len(results)}
	for _, r := range results {
		switch r.Tier {
		case models.MatchTierHash:
			stats.HashHits++
		case models.MatchTierFuzzy:
			stats.FuzzyHits++
		case models.MatchTierLLM:
			if r.TargetField != nil {
				stats.LLMHits++
			}
		}

		switch {
		case r.TargetField == nil || r.Confidence < reviewConfidence:
			stats.Unmatched++
		case r.Confidence < autoAcceptConfidence:
			stats.NeedsReview++
		default:
			stats.AutoMapped++
		}
	}
	return stats
}
