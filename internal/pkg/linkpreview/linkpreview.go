package linkpreview

import (
	"context"
	log "log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const maxSummaryRunes = 300

// Preview holds metadata scraped from a shared link.
type Preview struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Fetcher fetches link metadata for post attachments.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Preview, error)
}

type FetcherImpl struct {
	httpClient *resty.Client
}

func NewFetcher() Fetcher {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", userAgent)

	return &FetcherImpl{httpClient: client}
}

// Fetch downloads the page and extracts the open graph title and
// description, falling back to the title tag and first paragraph.
func (s *FetcherImpl) Fetch(ctx context.Context, rawURL string) (*Preview, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, errors.New("unsupported url scheme")
	}

	resp, err := s.httpClient.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		log.WarnContext(ctx, "link preview fetch failed", "url", rawURL, "err", err)
		return nil, err
	}
	if resp.IsError() {
		return nil, errors.New("link preview fetch failed: " + resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse link preview page")
	}

	preview := &Preview{URL: rawURL}

	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		preview.Title = strings.TrimSpace(title)
	} else {
		preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		preview.Summary = strings.TrimSpace(desc)
	} else if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		preview.Summary = strings.TrimSpace(desc)
	} else {
		preview.Summary = strings.TrimSpace(doc.Find("p").First().Text())
	}

	preview.Summary = truncateRunes(preview.Summary, maxSummaryRunes)

	return preview, nil
}

// truncateRunes cuts on a rune boundary so a multi byte character is never
// split.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
