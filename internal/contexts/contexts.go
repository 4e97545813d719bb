// Package contexts classifies where a reflected probe lands in a response.
//
// The classifier is best-effort: it favors regex approximations over a full
// HTML/JS parse and accepts false positives, because the payload test
// downstream is the final arbiter of exploitability.
package contexts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/net/html"
)

// Context is one structural position a probe can occupy in a response.
type Context int

const (
	HTMLText Context = iota
	AttrValueDoubleQuote
	AttrValueSingleQuote
	AttrValueNoQuote
	AttrName
	ScriptBlock
	ScriptString
	StyleBlock
	HTMLComment
	JSONValue
	URLParam
)

var contextNames = map[Context]string{
	HTMLText:             "HTML Text Node",
	AttrValueDoubleQuote: "Attribute Value (Double Quote)",
	AttrValueSingleQuote: "Attribute Value (Single Quote)",
	AttrValueNoQuote:     "Attribute Value (No Quote)",
	AttrName:             "Attribute Name",
	ScriptBlock:          "Inside <script> Tag",
	ScriptString:         "JavaScript String",
	StyleBlock:           "Inside <style> Tag",
	HTMLComment:          "HTML Comment",
	JSONValue:            "JSON Context",
	URLParam:             "URL Parameter",
}

func (c Context) String() string {
	if name, ok := contextNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Context(%d)", int(c))
}

// Set holds the contexts detected for one probe. A malformed page can put
// the same probe in several contexts at once, so membership is what
// matters, not any single "best" label.
type Set = mapset.Set[Context]

// Classify runs every detector against the body and returns the set of
// contexts the probe appears in. Detectors are independent; one firing
// never suppresses another. If the probe is absent the empty set is
// returned without running any detector.
func Classify(body, probe, contentType string) Set {
	detected := mapset.NewSet[Context]()
	if probe == "" || !strings.Contains(body, probe) {
		return detected
	}

	if detectJSON(body, probe, contentType) {
		detected.Add(JSONValue)
	}
	block, jsString := detectScript(body, probe)
	if block {
		detected.Add(ScriptBlock)
	}
	if jsString {
		detected.Add(ScriptString)
	}
	if detectStyle(body, probe) {
		detected.Add(StyleBlock)
	}
	if detectComment(body, probe) {
		detected.Add(HTMLComment)
	}
	if detectAttrDoubleQuote(body, probe) {
		detected.Add(AttrValueDoubleQuote)
	}
	if detectAttrSingleQuote(body, probe) {
		detected.Add(AttrValueSingleQuote)
	}
	if detectAttrNoQuote(body, probe) {
		detected.Add(AttrValueNoQuote)
	}
	if detectAttrName(body, probe) {
		detected.Add(AttrName)
	}
	if detectTextNode(body, probe) {
		detected.Add(HTMLText)
	}
	if detectURLAttr(body, probe) {
		detected.Add(URLParam)
	}

	return detected
}

// detectJSON fires on a JSON content type, or on a body that looks like a
// bare JSON document.
func detectJSON(body, probe, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "json") {
		return true
	}
	trimmed := strings.TrimSpace(body)
	if len(trimmed) < 2 {
		return false
	}
	object := strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
	array := strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
	return (object || array) && strings.Contains(trimmed, probe)
}

// detectScript reports whether the probe sits inside a <script> span, and
// additionally whether it is flanked by matching quote characters there.
func detectScript(body, probe string) (block, jsString bool) {
	p := regexp.QuoteMeta(probe)
	scriptRe := regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
	doubleRe := regexp.MustCompile(`"[^"]*` + p + `[^"]*"`)
	singleRe := regexp.MustCompile(`'[^']*` + p + `[^']*'`)

	for _, m := range scriptRe.FindAllStringSubmatch(body, -1) {
		content := m[1]
		if !strings.Contains(content, probe) {
			continue
		}
		block = true
		if doubleRe.MatchString(content) || singleRe.MatchString(content) {
			jsString = true
		}
	}
	return block, jsString
}

func detectStyle(body, probe string) bool {
	re := regexp.MustCompile(`(?is)<style[^>]*>.*?` + regexp.QuoteMeta(probe) + `.*?</style>`)
	return re.MatchString(body)
}

func detectComment(body, probe string) bool {
	re := regexp.MustCompile(`(?s)<!--.*?` + regexp.QuoteMeta(probe) + `.*?-->`)
	return re.MatchString(body)
}

func detectAttrDoubleQuote(body, probe string) bool {
	re := regexp.MustCompile(`="\s*[^"]*` + regexp.QuoteMeta(probe) + `[^"]*"`)
	return re.MatchString(body)
}

func detectAttrSingleQuote(body, probe string) bool {
	re := regexp.MustCompile(`='\s*[^']*` + regexp.QuoteMeta(probe) + `[^']*'`)
	return re.MatchString(body)
}

// detectAttrNoQuote matches a bare attribute value: the probe directly
// after `=` and terminated by whitespace, `/`, `>`, or end of input.
func detectAttrNoQuote(body, probe string) bool {
	re := regexp.MustCompile(`=\s*` + regexp.QuoteMeta(probe) + `(?:\s|[/>]|$)`)
	return re.MatchString(body)
}

func detectAttrName(body, probe string) bool {
	re := regexp.MustCompile(regexp.QuoteMeta(probe) + `\s*=`)
	return re.MatchString(body)
}

// detectTextNode parses the document and checks whether the probe occurs
// inside a text node rather than inside tag markup. When parsing fails the
// regex fallback approximates the same check.
func detectTextNode(body, probe string) bool {
	// A body without any markup cannot place the probe in an HTML text
	// node (bare JSON or plain text responses).
	if !strings.Contains(body, "<") || !strings.Contains(body, ">") {
		return false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return textNodeFallback(body, probe)
	}

	found := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.TextNode && strings.Contains(n.Data, probe) {
			// Script and style spans have dedicated detectors.
			if p := n.Parent; p == nil || (p.Data != "script" && p.Data != "style") {
				found = true
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return found
}

func textNodeFallback(body, probe string) bool {
	re := regexp.MustCompile(`>[^<]*` + regexp.QuoteMeta(probe) + `[^<]*<`)
	return re.MatchString(body)
}

// detectURLAttr fires when the probe appears in the value of a URL-bearing
// attribute (href, src, action, data).
func detectURLAttr(body, probe string) bool {
	re := regexp.MustCompile(`(?i)(?:href|src|action|data)\s*=\s*["']?[^"'>\s]*` + regexp.QuoteMeta(probe))
	return re.MatchString(body)
}
