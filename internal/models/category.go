package models

import "strings"

// Group labels.
const (
	GroupPeople   = "People"
	GroupVehicles = "Vehicles"
)

// MaxCategoryLen bounds the stored category column.
const MaxCategoryLen = 50

var categoryGroups = map[string]string{
	"pedestrian": GroupPeople,
	"bicycle":    GroupPeople,
	"car":        GroupVehicles,
	"truck":      GroupVehicles,
	"van":        GroupVehicles,
}

// NormalizeCategory is applied to every category at the ingest boundary.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// GroupOf returns the coarse group for a category. ok is false for
// categories outside the mapping; those never take part in sessionization.
func GroupOf(category string) (group string, ok bool) {
	group, ok = categoryGroups[NormalizeCategory(category)]
	return group, ok
}

// IsGroup reports whether label names a known group (case-insensitive).
func IsGroup(label string) bool {
	for _, g := range categoryGroups {
		if strings.EqualFold(g, label) {
			return true
		}
	}
	return false
}

// InGroup reports whether category maps to the group label (case-insensitive).
func InGroup(category, label string) bool {
	g, ok := GroupOf(category)
	return ok && strings.EqualFold(g, label)
}
