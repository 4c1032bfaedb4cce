// internal/aggregate/opened.go
package aggregate

// OpenedCategories tracks which categories are expanded in the breakdown
// view. Absent means collapsed. Expansion only gates visibility; aggregation
// always computes for all categories regardless of this state.
type OpenedCategories map[string]bool

// Toggle flips the expanded state for a category.
func (o OpenedCategories) Toggle(name string) {
	o[name] = !o[name]
}

// IsOpen reports whether a category is expanded, defaulting to collapsed.
func (o OpenedCategories) IsOpen(name string) bool {
	return o[name]
}
