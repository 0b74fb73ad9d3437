package store

import (
	"strings"

	"warranty-tracker-backend/internal/model"
)

// FilterAppliances applies read-side narrowing over a listing. It is a pure
// function: the input slice is not modified and relative order is kept.
func FilterAppliances(items []model.Appliance, f ApplianceFilter) []model.Appliance {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]model.Appliance, 0, len(items))
	for _, a := range items {
		if !matchDimension(f.Category, string(a.Category)) {
			continue
		}
		if !matchDimension(f.Status, string(a.Status)) {
			continue
		}
		if query != "" && !matchQuery(a, query) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchDimension(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}

func matchQuery(a model.Appliance, query string) bool {
	for _, field := range []string{a.Name, a.Brand, a.Model} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
