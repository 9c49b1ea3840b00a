package matching

import "strings"

// NormalizeHeader folds the messy spellings factories use into a stable
// lookup key: "Actual-Qty / Day" and "actual qty day" both normalize to
// "actual_qty_day".
func NormalizeHeader(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, "%", "_pct")

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '/', r == ' ', r == '_', r == '.':
			b.WriteRune('_')
		}
		// any other rune is noise and dropped
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

// spacedForm converts a normalized key back to a space-separated phrase for
// similarity scoring ("actual_qty" -> "actual qty").
func spacedForm(normalized string) string {
	return strings.ReplaceAll(normalized, "_", " ")
}
