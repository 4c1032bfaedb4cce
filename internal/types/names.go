// internal/types/names.go
package types

import "strings"

/*
 * Rule name addressing.
 *
 * Rule names are namespaced paths, e.g. "transport . voiture . km".
 * The delimiter is part of the addressing scheme shared with the external
 * engine; the core never normalizes or rewrites names, it only splits them
 * to derive the owning category (first segment) and parent namespaces.
 */

// NamespaceDelimiter separates segments of a RuleName.
const NamespaceDelimiter = " . "

// Segments splits the name into its namespace path components.
func (n RuleName) Segments() []string {
	return strings.Split(string(n), NamespaceDelimiter)
}

// Category returns the first namespace segment, the category a rule
// belongs to. A single-segment name is its own category.
func (n RuleName) Category() string {
	return n.Segments()[0]
}

// Leaf returns the last namespace segment.
func (n RuleName) Leaf() string {
	segs := n.Segments()
	return segs[len(segs)-1]
}

// Parent returns the enclosing namespace, or "" for a root name.
func (n RuleName) Parent() RuleName {
	idx := strings.LastIndex(string(n), NamespaceDelimiter)
	if idx < 0 {
		return ""
	}
	return n[:idx]
}

// InCategory reports whether the rule belongs to the given category.
func (n RuleName) InCategory(category string) bool {
	return n.Category() == category
}
