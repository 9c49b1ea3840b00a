package matching

import (
	"context"

	"github.com/aguo890/linesight/models"
	"gorm.io/gorm"
)

type aliasHit struct {
	canonicalField string
	aliasId        int
}

// AliasCache is the Tier-1 lookup state: learned aliases partitioned by
// scope, loaded once per engine instance. It is read-only after construction
// and safe to share across concurrent matches; learning writes go through
// models.RecordAliasCorrection, not through the cache.
type AliasCache struct {
	factory map[string]aliasHit
	org     map[string]aliasHit
	global  map[string]aliasHit
}

// LoadAliasCache pulls every alias visible to the factory/organization pair
// in one query and indexes it by normalized alias.
func LoadAliasCache(ctx context.Context, db *gorm.DB, scopes ScopeIDs) (*AliasCache, error) {
	entries, err := models.LoadAliases(ctx, db, scopes.FactoryID, scopes.OrganizationID)
	if err != nil {
		return nil, err
	}
	return NewAliasCache(entries), nil
}

func NewAliasCache(entries []models.ColumnAlias) *AliasCache {
	c := &AliasCache{
		factory: map[string]aliasHit{},
		org:     map[string]aliasHit{},
		global:  map[string]aliasHit{},
	}
	for _, e := range entries {
		hit := aliasHit{canonicalField: e.CanonicalField, aliasId: e.ID}
		switch e.Scope {
		case models.AliasScopeFactory:
			c.factory[e.NormalizedAlias] = hit
		case models.AliasScopeOrganization:
			c.org[e.NormalizedAlias] = hit
		case models.AliasScopeGlobal:
			c.global[e.NormalizedAlias] = hit
		}
	}
	return c
}

// AliasMatcher is Tier 1: O(1) normalized lookup. Factory scope strictly
// outranks organization, which outranks global learned, which yields to the
// built-in table only because built-ins are curated (confidence 1.0) while
// learned globals carry slightly less certainty.
type AliasMatcher struct {
	cache *AliasCache
}

func NewAliasMatcher(cache *AliasCache) *AliasMatcher {
	if cache == nil {
		cache = NewAliasCache(nil)
	}
	return &AliasMatcher{cache: cache}
}

// Match returns nil when no exact alias exists; the waterfall then falls
// through to fuzzy matching. Read-only: confirming a suggestion is a
// separate, explicit call (models.IncrementAliasUsage).
func (m *AliasMatcher) Match(columnName string) *MatchResult {
	key := NormalizeHeader(columnName)
	if key == "" {
		return nil
	}

	if hit, ok := m.cache.factory[key]; ok {
		return &MatchResult{
			TargetField: hit.canonicalField,
			Confidence:  1.0,
			Tier:        models.MatchTierHash,
			Reasoning:   "exact match via factory alias",
			AliasId:     hit.aliasId,
		}
	}
	if hit, ok := m.cache.org[key]; ok {
		return &MatchResult{
			TargetField: hit.canonicalField,
			Confidence:  0.99,
			Tier:        models.MatchTierHash,
			Reasoning:   "exact match via organization alias",
			AliasId:     hit.aliasId,
		}
	}
	if hit, ok := m.cache.global[key]; ok {
		return &MatchResult{
			TargetField: hit.canonicalField,
			Confidence:  0.98,
			Tier:        models.MatchTierHash,
			Reasoning:   "exact match via learned alias",
			AliasId:     hit.aliasId,
		}
	}
	if field, ok := BuiltinAlias(key); ok {
		return &MatchResult{
			TargetField: field,
			Confidence:  1.0,
			Tier:        models.MatchTierHash,
			Reasoning:   "exact match via built-in alias table",
		}
	}
	return nil
}
