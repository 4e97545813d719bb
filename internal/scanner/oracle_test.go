package scanner

import (
	"strings"
	"testing"
)

func TestIsExploitedVerbatimReflection(t *testing.T) {
	payload := `"><script>alert(1)</script>`
	body := `<input value="` + payload + `">`
	if !isExploited(body, payload) {
		t.Error("verbatim reflected payload with trigger keyword should count as exploited")
	}
}

func TestIsExploitedEncodedQuoteNeutralizes(t *testing.T) {
	payload := `"><script>alert(1)</script>`
	// Same response, but the critical quote was entity-encoded and the
	// payload no longer appears verbatim.
	body := `<input value="` + strings.ReplaceAll(payload, `"`, "&quot;") + `">`
	if isExploited(body, payload) {
		t.Error("entity-encoded payload should not count as exploited")
	}
}

func TestIsExploitedRequiresTriggerKeyword(t *testing.T) {
	payload := `"><script>alert(1)</script>`
	if isExploited("<p>completely unrelated content</p>", payload) {
		t.Error("body without any trigger keyword should never count as exploited")
	}
}

func TestIsExploitedEventHandlerToken(t *testing.T) {
	payload := `<img src=x onerror=confirm(1)>`
	body := `<div>` + payload + `</div>`
	if !isExploited(body, payload) {
		t.Error("reflected event handler payload should count as exploited")
	}
}

func TestIsExploitedCaseInsensitiveKeyword(t *testing.T) {
	payload := `<script>ALERT(1)</script>`
	body := `<div>` + payload + `</div>`
	if !isExploited(body, payload) {
		t.Error("keyword match should be case-insensitive")
	}
}

func TestExtractSnippetBounds(t *testing.T) {
	body := strings.Repeat("a", 500) + "MARKER" + strings.Repeat("b", 500)
	snippet := extractSnippet(body, "MARKER", 200)
	if len(snippet) != 200+len("MARKER")+200 {
		t.Errorf("snippet length %d, want %d", len(snippet), 200+len("MARKER")+200)
	}
	if !strings.Contains(snippet, "MARKER") {
		t.Error("snippet lost the marker")
	}

	if got := extractSnippet("short MARKER body", "MARKER", 200); got != "short MARKER body" {
		t.Errorf("snippet should clamp to body bounds, got %q", got)
	}
	if got := extractSnippet("no marker here", "MARKER", 200); got != "" {
		t.Errorf("missing marker should yield empty snippet, got %q", got)
	}
}
