package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/aguo890/linesight/models"
	"github.com/xrash/smetrics"
)

// Fuzzy cutoffs. Calibration knobs: chosen empirically against real factory
// exports, not derived. Tune per deployment, do not silently "fix".
const (
	FuzzyCutoffLow    = 60
	FuzzyCutoffMedium = 75
	FuzzyCutoffHigh   = 90

	// ShortKeyMaxLen guards acronym keys like "sam", "dhu", "po": partial
	// overlap scores them too easily, so anything this short must score a
	// perfect 100 to count.
	ShortKeyMaxLen = 3
)

// FuzzyMatcher is Tier 2: weighted-ratio similarity of the incoming header
// against every known variation string. The variation map is built once at
// construction and read-only afterwards.
type FuzzyMatcher struct {
	// variations: spaced phrase -> canonical field
	variations map[string]string
	keys       []string
	cutoff     int
}

func NewFuzzyMatcher(cutoff int) *FuzzyMatcher {
	if cutoff <= 0 {
		cutoff = FuzzyCutoffLow
	}
	m := &FuzzyMatcher{
		variations: map[string]string{},
		cutoff:     cutoff,
	}
	for _, f := range Catalogue() {
		m.addVariation(spacedForm(NormalizeHeader(f.Name)), f.Name)
		m.addVariation(strings.ReplaceAll(f.Name, "_", " "), f.Name)
		for _, v := range f.Variations {
			m.addVariation(spacedForm(NormalizeHeader(v)), f.Name)
		}
	}
	sort.Strings(m.keys)
	return m
}

func (m *FuzzyMatcher) addVariation(key, field string) {
	if key == "" {
		return
	}
	if _, exists := m.variations[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.variations[key] = field
}

// Match returns nil below the cutoff. Only invoked when Tier 1 missed.
func (m *FuzzyMatcher) Match(columnName string) *MatchResult {
	name := spacedForm(NormalizeHeader(columnName))
	if name == "" {
		return nil
	}

	bestScore := -1
	bestKey := ""
	for _, key := range m.keys {
		score := WeightedRatio(name, key)
		if score > bestScore {
			bestScore = score
			bestKey = key
		}
	}

	if bestScore < m.cutoff {
		return nil
	}
	if len(bestKey) <= ShortKeyMaxLen && bestScore < 100 {
		// short acronym, partial overlap is not evidence
		return nil
	}

	field := m.variations[bestKey]
	score := bestScore
	return &MatchResult{
		TargetField: field,
		Confidence:  float64(score) / 100.0,
		Tier:        models.MatchTierFuzzy,
		FuzzyScore:  &score,
		Reasoning:   fuzzyReasoning(score, bestKey),
	}
}

// Alternative is one candidate for manual-review UIs.
type Alternative struct {
	TargetField string `json:"target_field"`
	Score       int    `json:"score"`
	Variation   string `json:"variation"`
}

// MatchWithAlternatives returns the top-N distinct canonical candidates,
// best first. Near ties are broken by Jaro-Winkler on the winning variation
// so "line efficiency" beats "line" for the header "Line Efficiency %".
func (m *FuzzyMatcher) MatchWithAlternatives(columnName string, topN int) []Alternative {
	name := spacedForm(NormalizeHeader(columnName))
	if name == "" || topN <= 0 {
		return nil
	}

	type scored struct {
		field string
		key   string
		score int
		jw    float64
	}
	best := map[string]scored{}
	for _, key := range m.keys {
		score := WeightedRatio(name, key)
		field := m.variations[key]
		jw := smetrics.JaroWinkler(name, key, 0.7, 4)
		prev, seen := best[field]
		if !seen || score > prev.score || (score == prev.score && jw > prev.jw) {
			best[field] = scored{field: field, key: key, score: score, jw: jw}
		}
	}

	ranked := make([]scored, 0, len(best))
	for _, s := range best {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].jw != ranked[j].jw {
			return ranked[i].jw > ranked[j].jw
		}
		return ranked[i].field < ranked[j].field
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]Alternative, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, Alternative{TargetField: s.field, Score: s.score, Variation: s.key})
	}
	return out
}

func fuzzyReasoning(score int, key string) string {
	switch {
	case score >= FuzzyCutoffHigh:
		return fmt.Sprintf("near-exact similarity to %q (score %d)", key, score)
	case score >= FuzzyCutoffMedium:
		return fmt.Sprintf("strong similarity to %q (score %d)", key, score)
	default:
		return fmt.Sprintf("possible match to %q (score %d), review recommended", key, score)
	}
}

// WeightedRatio scores two phrases 0-100, tolerant of token reordering
// ("line efficiency" ~ "efficiency line") and substring containment
// ("total sam" contains "sam"). Partial matches are damped by 0.9 so a
// substring hit never outranks a full-string one of equal quality.
func WeightedRatio(a, b string) int {
	if a == b {
		return 100
	}
	full := ratio(a, b)
	tokenSort := ratio(sortTokens(a), sortTokens(b))
	partial := int(math.Round(float64(partialRatio(a, b)) * 0.9))

	best := full
	if tokenSort > best {
		best = tokenSort
	}
	if partial > best {
		best = partial
	}
	return best
}

func ratio(a, b string) int {
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	score := float64(total-2*d) / float64(total) * 100
	if score < 0 {
		score = 0
	}
	return int(math.Round(score))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// partialRatio slides the shorter string across same-length windows of the
// longer one and keeps the best plain ratio.
func partialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	if len(short) == len(long) {
		return ratio(string(short), string(long))
	}

	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		window := string(long[i : i+len(short)])
		if r := ratio(string(short), window); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}
