package linkpreview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFetchTruncatesSummaryOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("税", 400)
	page := `<html><head>` +
		`<meta property="og:title" content="GST filing note"/>` +
		`<meta property="og:description" content="` + long + `"/>` +
		`</head><body></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	preview, err := NewFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if preview.Title != "GST filing note" {
		t.Fatalf("unexpected title: %q", preview.Title)
	}
	if !utf8.ValidString(preview.Summary) {
		t.Fatalf("truncated summary is not valid utf-8")
	}
	if got := utf8.RuneCountInString(preview.Summary); got != maxSummaryRunes {
		t.Fatalf("expected %d runes, got %d", maxSummaryRunes, got)
	}
}

func TestFetchRejectsUnsupportedScheme(t *testing.T) {
	if _, err := NewFetcher().Fetch(context.Background(), "ftp://example.com/file"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}
