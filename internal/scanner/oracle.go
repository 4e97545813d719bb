package scanner

import (
	"regexp"
	"strings"
)

// Trigger keywords whose presence in a response suggests the payload's
// JavaScript call survived into the page.
var triggerKeywords = []string{
	"alert(",
	"alert`",
	"confirm(",
	"prompt(",
	"print(",
}

var eventHandlerRe = regexp.MustCompile(`(?i)on[a-z]+\s*=`)

// isExploited reports whether the response shows the payload executing
// rather than being neutralized. Success requires a trigger keyword (or an
// on<event>= handler token) in the body, plus either the raw payload
// verbatim or the absence of its entity-encoded form: if the critical `"`
// had been escaped to &quot; the payload would be neutralized, so the
// encoded form not appearing is itself evidence it was not sanitized.
//
// This is a heuristic, not execution-verified confirmation. A trigger
// keyword in unrelated page content can false-positive; real confirmation
// would need a browser, which is out of scope.
func isExploited(body, payload string) bool {
	lower := strings.ToLower(body)
	keyword := false
	for _, kw := range triggerKeywords {
		if strings.Contains(lower, kw) {
			keyword = true
			break
		}
	}
	if !keyword && !eventHandlerRe.MatchString(body) {
		return false
	}

	if strings.Contains(body, payload) {
		return true
	}
	encoded := strings.ReplaceAll(payload, `"`, "&quot;")
	return !strings.Contains(body, encoded)
}
