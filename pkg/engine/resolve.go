package engine

import "github.com/cardpress/cardpress/pkg/template"

// resolveValue applies the two-tier resolution rule for a layer: a bound
// variable wins over the static fallback only when its resolved value is
// non-empty. An unset or empty variable falls back to the static value, so
// missing content never renders blank.
func resolveValue(el template.Element, content template.ContentData, static string) string {
	if el.VariableID != "" {
		if v := content.Get(el.VariableID); v != "" {
			return v
		}
	}
	return static
}

// firstNonEmpty returns its first non-empty argument.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
