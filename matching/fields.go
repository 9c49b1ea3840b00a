package matching

import (
	"fmt"
	"sort"
	"strings"
)

// CanonicalField is one member of the closed target vocabulary. Every source
// column either maps onto one of these or stays unmatched; no tier is allowed
// to invent a field name, including the reasoning service.
type CanonicalField struct {
	Name        string
	Description string
	// Variations are industry synonyms and common header spellings, kept
	// lowercase with spaces. They feed both the built-in exact table and the
	// fuzzy matcher's candidate keys.
	Variations []string
}

var canonicalFields = []CanonicalField{
	{
		Name:        "style_number",
		Description: "Garment style identifier assigned by the factory or buyer",
		Variations:  []string{"style", "style no", "style num", "style code", "style ref", "design number", "art no", "article number"},
	},
	{
		Name:        "po_number",
		Description: "Purchase order number the production belongs to",
		Variations:  []string{"po", "po no", "purchase order", "purchase order no", "order no", "order number", "po ref"},
	},
	{
		Name:        "buyer",
		Description: "Buyer, brand or customer the style is produced for",
		Variations:  []string{"customer", "client", "brand", "buyer name"},
	},
	{
		Name:        "season",
		Description: "Buying season code, e.g. SS25 or FW24",
		Variations:  []string{"season code", "sales season"},
	},
	{
		Name:        "line_number",
		Description: "Sewing line that produced the output",
		Variations:  []string{"line", "line no", "sewing line", "production line", "line name"},
	},
	{
		Name:        "production_date",
		Description: "Calendar date the output was produced",
		Variations:  []string{"date", "prod date", "production day", "work date", "output date"},
	},
	{
		Name:        "shift",
		Description: "Work shift (day/night/A/B) the output belongs to",
		Variations:  []string{"shift name", "work shift"},
	},
	{
		Name:        "actual_qty",
		Description: "Actual pieces produced in the shift",
		Variations:  []string{"actual", "actual quantity", "actual output", "output", "output qty", "production qty", "pieces produced", "total output", "achieved qty", "qty produced"},
	},
	{
		Name:        "planned_qty",
		Description: "Planned or target pieces for the shift",
		Variations:  []string{"planned", "planned quantity", "plan qty", "target", "target qty", "daily target", "plan"},
	},
	{
		Name:        "sam",
		Description: "Standard Allowed Minutes per piece (a.k.a. SMV)",
		Variations:  []string{"standard allowed minute", "standard allowed minutes", "standard minute value", "smv", "total sam"},
	},
	{
		Name:        "dhu",
		Description: "Defects per hundred units",
		Variations:  []string{"defects per hundred units", "defect rate", "dhu pct"},
	},
	{
		Name:        "operators_present",
		Description: "Number of sewing operators present",
		Variations:  []string{"operators", "operator count", "no of operators", "present operators", "manpower operators"},
	},
	{
		Name:        "helpers_present",
		Description: "Number of helpers present",
		Variations:  []string{"helpers", "helper count", "no of helpers", "present helpers"},
	},
	{
		Name:        "working_hours",
		Description: "Hours worked in the shift",
		Variations:  []string{"hours", "working hrs", "work hours", "worked hours", "shift hours"},
	},
	{
		Name:        "defect_count",
		Description: "Total defects found at end-line inspection",
		Variations:  []string{"defects", "total defects", "defect qty", "rejects", "reject qty"},
	},
	{
		Name:        "inspected_qty",
		Description: "Pieces inspected at end-line",
		Variations:  []string{"inspected", "inspected quantity", "checked qty", "inspection qty"},
	},
	{
		Name:        "efficiency_pct",
		Description: "Reported line efficiency percentage",
		Variations:  []string{"efficiency", "line efficiency", "eff", "efficiency pct"},
	},
	{
		Name:        "remarks",
		Description: "Free-text remarks for the row",
		Variations:  []string{"notes", "note", "comment", "comments", "observation"},
	},
}

var (
	fieldsByName = func() map[string]CanonicalField {
		m := make(map[string]CanonicalField, len(canonicalFields))
		for _, f := range canonicalFields {
			m[f.Name] = f
		}
		return m
	}()

	// builtinAliases: normalized header -> canonical field. Contains every
	// canonical name plus every variation. First tier of the waterfall.
	builtinAliases = func() map[string]string {
		m := make(map[string]string)
		for _, f := range canonicalFields {
			m[NormalizeHeader(f.Name)] = f.Name
			for _, v := range f.Variations {
				m[NormalizeHeader(v)] = f.Name
			}
		}
		return m
	}()
)

func Catalogue() []CanonicalField {
	out := make([]CanonicalField, len(canonicalFields))
	copy(out, canonicalFields)
	return out
}

func IsCanonical(name string) bool {
	_, ok := fieldsByName[name]
	return ok
}

func BuiltinAlias(normalizedHeader string) (string, bool) {
	field, ok := builtinAliases[normalizedHeader]
	return field, ok
}

// CataloguePrompt renders the vocabulary for the reasoning-service prompt:
// one "name: description" line per field, sorted for stable prompts.
func CataloguePrompt() string {
	names := make([]string, 0, len(canonicalFields))
	for _, f := range canonicalFields {
		names = append(names, f.Name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, n := range names {
		fmt.Fprintf(&b, "- %s: %s\n", n, fieldsByName[n].Description)
	}
	return b.String()
}
