package crud

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// newStrictPolicy returns the sanitization policy applied to all
// user-supplied text before it is stored: no tags, no attributes, plain
// text only. Policies are safe for concurrent use, so services hold one
// instance each.
func newStrictPolicy() *bluemonday.Policy {
	return bluemonday.StrictPolicy()
}

// stripMarkup trims whitespace and removes all markup from a user-supplied
// text field. Tag bodies of non-content elements (script, style) are
// dropped entirely, not just their tags.
func stripMarkup(policy *bluemonday.Policy, s string) string {
	return strings.TrimSpace(policy.Sanitize(strings.TrimSpace(s)))
}
