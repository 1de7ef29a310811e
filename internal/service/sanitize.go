package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// catalogSanitizer cleans the formatted text fields of catalog entries. Only the markup
// allowed in user generated content survives; scripts, styles and event handlers are removed.
type catalogSanitizer struct {
	policy *bluemonday.Policy
}

func newCatalogSanitizer() catalogSanitizer {
	return catalogSanitizer{policy: bluemonday.UGCPolicy()}
}

func (s catalogSanitizer) Clean(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}
