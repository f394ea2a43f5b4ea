package graph

import (
	"strings"
)

// NormalizeID canonicalizes a raw node identifier. Phone numbers arrive
// from several sources with inconsistent whitespace; every boundary in the
// system goes through this one function before comparing ids.
func NormalizeID(raw string) string {
	return strings.TrimSpace(raw)
}

// EdgeKey synthesizes the identity key for the undirected edge between two
// nodes: normalized endpoints, smaller id first
func EdgeKey(a, b string) string {
	a, b = NormalizeID(a), NormalizeID(b)
	if b < a {
		a, b = b, a
	}
	return a + "->" + b
}
