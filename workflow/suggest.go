package workflow

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/aguo890/linesight/config"
	"github.com/aguo890/linesight/matching"
)

// MaxSuggestionSamples caps how many cell values per column are fed to the
// matching tiers for type inference.
const MaxSuggestionSamples = 5

// MappingSuggestion is the review payload for one uploaded file: a proposed
// mapping per source column plus aggregate tier statistics. Nothing is
// persisted; the caller confirms (possibly after edits) via ActivateMapping.
type MappingSuggestion struct {
	Columns []matching.ColumnMatchResult `json:"columns"`
	Stats   matching.MatchStats          `json:"stats"`
}

// SuggestMapping reads a file's headers and sample rows and runs them
// through the matching waterfall. The reasoning service may be nil; matching
// then stops at the fuzzy tier.
func SuggestMapping(ctx context.Context, db *gorm.DB, filePath string, scopes matching.ScopeIDs, svc matching.ReasoningService) (*MappingSuggestion, error) {
	headers, rows, err := ReadTabularFile(ctx, filePath)
	if err != nil {
		return nil, err
	}

	engine, err := matching.NewEngineForScopes(ctx, db, scopes, svc)
	if err != nil {
		return nil, err
	}

	samples := sampleColumns(headers, rows, MaxSuggestionSamples)
	results, stats := engine.MatchColumns(ctx, headers, samples)

	config.GetLogger().WithFields(map[string]interface{}{
		"file":      filePath,
		"columns":   len(headers),
		"hash":      stats.HashHits,
		"fuzzy":     stats.FuzzyHits,
		"llm":       stats.LLMHits,
		"unmatched": stats.Unmatched,
	}).Info("[workflow.suggest] mapping suggested")

	return &MappingSuggestion{Columns: results, Stats: stats}, nil
}

func sampleColumns(headers []string, rows [][]string, limit int) map[string][]string {
	samples := make(map[string][]string, len(headers))
	for i, header := range headers {
		var values []string
		for _, row := range rows {
			if len(values) >= limit {
				break
			}
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				values = append(values, row[i])
			}
		}
		samples[header] = values
	}
	return samples
}
