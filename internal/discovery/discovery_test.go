package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"xsscan/internal/requester"
)

func testClient() *requester.HTTPClient {
	return requester.NewHTTPClient(requester.Options{Timeout: 5 * time.Second})
}

func TestDiscoverFromQueryString(t *testing.T) {
	// No request should be needed when the URL already carries parameters.
	result, err := Discover(context.Background(), testClient(), "http://target.local/search?q=golang&page=2")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if result.BaseURL != "http://target.local/search" {
		t.Errorf("BaseURL = %q", result.BaseURL)
	}
	if result.Params["q"] != "golang" || result.Params["page"] != "2" {
		t.Errorf("Params = %v", result.Params)
	}
}

func TestDiscoverFromForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>
			<form action="/comment" method="post">
				<input type="text" name="author" value="anon">
				<textarea name="body"></textarea>
				<input type="submit" name="go" value="Send">
			</form>
		</body></html>`))
	}))
	defer server.Close()

	result, err := Discover(context.Background(), testClient(), server.URL+"/page")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if result.Method != "POST" {
		t.Errorf("Method = %q, want POST", result.Method)
	}
	if !strings.HasSuffix(result.BaseURL, "/comment") {
		t.Errorf("BaseURL = %q, want the form action", result.BaseURL)
	}
	if result.Params["author"] != "anon" {
		t.Errorf("author baseline = %q, want anon", result.Params["author"])
	}
	if _, ok := result.Params["body"]; !ok {
		t.Error("textarea field not discovered")
	}
	if _, ok := result.Params["go"]; ok {
		t.Error("submit button should not be a test parameter")
	}
}

func TestDiscoverFromLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>
			<a href="/item?id=3&ref=home">item</a>
			<a href="/list?sort=asc">list</a>
			<a href="/plain">plain</a>
		</body></html>`))
	}))
	defer server.Close()

	result, err := Discover(context.Background(), testClient(), server.URL+"/")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	for _, name := range []string{"id", "ref", "sort"} {
		if _, ok := result.Params[name]; !ok {
			t.Errorf("link parameter %q not discovered (got %v)", name, result.Params)
		}
	}
}

func TestDiscoverUnreachablePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result, err := Discover(context.Background(), testClient(), url+"/page")
	if err == nil {
		t.Error("expected an error for an unreachable page")
	}
	if len(result.Params) != 0 {
		t.Errorf("unexpected params from unreachable page: %v", result.Params)
	}
}
