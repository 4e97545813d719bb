// Package discovery extracts testable parameter names from a target URL
// and, when the URL itself carries none, from the page it serves.
package discovery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"xsscan/internal/requester"
)

// Result describes the discovered injection surface. BaseURL has the
// query string stripped; Params maps parameter names to their baseline
// values. Method is non-empty only when a form supplied the parameters.
type Result struct {
	BaseURL string
	Method  string
	Params  map[string]string
}

// Discover finds parameters for rawURL in three stages: the URL's own
// query string, named fields of forms on the page, then parameter names
// harvested from query strings of on-page links. The first stage that
// yields parameters wins.
func Discover(ctx context.Context, client *requester.HTTPClient, rawURL string) (Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("invalid target URL: %w", err)
	}

	base := *u
	base.RawQuery = ""
	base.Fragment = ""
	result := Result{BaseURL: base.String(), Params: map[string]string{}}

	// 1. Query string parameters.
	for name, values := range u.Query() {
		value := ""
		if len(values) > 0 {
			value = values[0]
		}
		result.Params[name] = value
	}
	if len(result.Params) > 0 {
		return result, nil
	}

	// 2 & 3 need the page itself.
	resp, err := client.Get(ctx, rawURL)
	if err != nil {
		return result, fmt.Errorf("fetch target page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Body))
	if err != nil {
		return result, fmt.Errorf("parse target page: %w", err)
	}

	// 2. Form fields.
	if form := firstUsableForm(doc, &base); form != nil {
		log.Info().Int("params", len(form.Params)).Str("action", form.BaseURL).Msg("Using form parameters")
		return *form, nil
	}

	// 3. Query parameter names from links.
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		link, err := url.Parse(href)
		if err != nil {
			return
		}
		for name := range link.Query() {
			if _, seen := result.Params[name]; !seen {
				result.Params[name] = ""
			}
		}
	})
	if len(result.Params) > 0 {
		log.Info().Int("params", len(result.Params)).Msg("Discovered parameters from links")
	}

	return result, nil
}

// firstUsableForm returns the first form with at least one named,
// non-submit field, with its action resolved against base.
func firstUsableForm(doc *goquery.Document, base *url.URL) *Result {
	var found *Result

	doc.Find("form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		params := map[string]string{}
		form.Find("input, textarea, select").Each(func(_ int, field *goquery.Selection) {
			name, ok := field.Attr("name")
			if !ok || name == "" {
				return
			}
			fieldType, _ := field.Attr("type")
			switch strings.ToLower(fieldType) {
			case "submit", "reset", "button":
				return
			}
			value, _ := field.Attr("value")
			params[name] = value
		})
		if len(params) == 0 {
			return true
		}

		actionURL := *base
		if action, ok := form.Attr("action"); ok && action != "" {
			if resolved, err := base.Parse(action); err == nil {
				actionURL = *resolved
			}
		}
		actionURL.RawQuery = ""

		method := strings.ToUpper(strings.TrimSpace(form.AttrOr("method", "")))
		if method != "POST" {
			method = "GET"
		}

		found = &Result{BaseURL: actionURL.String(), Method: method, Params: params}
		return false
	})

	return found
}
