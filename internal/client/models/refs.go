package models

import "strings"

// RefPrefix marks a string value as a pointer to a filetree node.
const RefPrefix = "@filetree/ref:"

// IsRef reports whether s is a reference token. Tokens are opaque: they are
// neither decoded nor re-encoded, only recognized.
func IsRef(s string) bool {
	return strings.HasPrefix(s, RefPrefix)
}

// RefFor builds the reference token for a node ref.
func RefFor(ref string) string {
	return RefPrefix + ref
}
