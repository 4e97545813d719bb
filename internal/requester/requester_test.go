package requester

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"xsscan/internal/models"
)

func TestSendGetSubstitutesOnlyParamUnderTest(t *testing.T) {
	var gotQuery map[string][]string
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewHTTPClient(Options{Timeout: 5 * time.Second})
	target := models.ScanTarget{
		URL:    server.URL,
		Method: "GET",
		Params: map[string]string{"q": "baseline", "page": "2"},
	}

	resp, err := client.Send(context.Background(), target, "q", "PAYLOAD")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := gotQuery["q"]; len(got) != 1 || got[0] != "PAYLOAD" {
		t.Errorf("q = %v, want [PAYLOAD]", got)
	}
	if got := gotQuery["page"]; len(got) != 1 || got[0] != "2" {
		t.Errorf("page = %v, want baseline [2]", got)
	}
	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Errorf("User-Agent %q does not look like a browser", gotUA)
	}
	if !strings.Contains(gotAccept, "text/html") {
		t.Errorf("Accept header missing text/html: %q", gotAccept)
	}
}

func TestSendPostFormEncodesBody(t *testing.T) {
	var gotContentType, gotComment, gotName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		r.ParseForm()
		gotComment = r.PostFormValue("comment")
		gotName = r.PostFormValue("name")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewHTTPClient(Options{Timeout: 5 * time.Second})
	target := models.ScanTarget{
		URL:    server.URL,
		Method: "POST",
		Params: map[string]string{"comment": "hello", "name": "alice"},
	}

	if _, err := client.Send(context.Background(), target, "comment", "<svg onload=alert(1)>"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotComment != "<svg onload=alert(1)>" {
		t.Errorf("comment = %q, want the payload", gotComment)
	}
	if gotName != "alice" {
		t.Errorf("name = %q, want baseline alice", gotName)
	}
}

func TestSendFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("landed"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewHTTPClient(Options{Timeout: 5 * time.Second})
	target := models.ScanTarget{URL: server.URL + "/start", Method: "GET", Params: map[string]string{"q": "x"}}

	resp, err := client.Send(context.Background(), target, "q", "probe")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Body != "landed" {
		t.Errorf("body = %q, want redirect target body", resp.Body)
	}
	if !strings.HasSuffix(resp.FinalURL, "/final") {
		t.Errorf("FinalURL = %q, want the post-redirect URL", resp.FinalURL)
	}
}

func TestSendTimeoutIsRecoverableError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewHTTPClient(Options{Timeout: 50 * time.Millisecond})
	target := models.ScanTarget{URL: server.URL, Method: "GET", Params: map[string]string{"q": "x"}}

	if _, err := client.Send(context.Background(), target, "q", "probe"); err == nil {
		t.Fatal("expected a timeout error")
	}
}

func TestGetFetchesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client := NewHTTPClient(Options{})
	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !strings.Contains(resp.ContentType, "text/html") {
		t.Errorf("ContentType = %q", resp.ContentType)
	}
}
