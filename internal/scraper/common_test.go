package scraper

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
)

func TestAbsoluteURL(t *testing.T) {
	base := "https://example.com/path/page"
	cases := []struct {
		href string
		want string
	}{
		{"/jobs/1", "https://example.com/jobs/1"},
		{"jobs/2", "https://example.com/path/jobs/2"},
		{"https://other.com/a", "https://other.com/a"},
		{"//cdn.example.com/asset", "https://cdn.example.com/asset"},
		{"", ""},
	}

	for _, tc := range cases {
		got := absoluteURL(base, tc.href)
		if got != tc.want {
			t.Fatalf("absoluteURL(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

type stubDoer struct {
	status   int
	body     string
	err      error
	lastReq  *fhttp.Request
	deadline bool
}

func (d *stubDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	d.lastReq = req
	_, d.deadline = req.Context().Deadline()
	if d.err != nil {
		return nil, d.err
	}
	return &fhttp.Response{
		StatusCode: d.status,
		Body:       io.NopCloser(strings.NewReader(d.body)),
	}, nil
}

func TestHTTPFetcherParsesDocument(t *testing.T) {
	doer := &stubDoer{status: 200, body: `<html><body><a href="/jobs/1">Clerk</a></body></html>`}
	fetcher := NewHTTPFetcher(doer, 10*time.Second)

	doc, err := fetcher.Fetch(context.Background(), "https://example.com/list")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := doc.Find("a").Text(); got != "Clerk" {
		t.Fatalf("anchor text = %q, want %q", got, "Clerk")
	}
	if doc.Url == nil || doc.Url.String() != "https://example.com/list" {
		t.Fatalf("doc.Url = %v, want request URL", doc.Url)
	}
	if !doer.deadline {
		t.Fatalf("expected request context to carry a deadline")
	}
	if doer.lastReq.Header.Get("accept-language") == "" {
		t.Fatalf("expected accept-language header")
	}
}

func TestHTTPFetcherRejectsErrorStatus(t *testing.T) {
	fetcher := NewHTTPFetcher(&stubDoer{status: 503, body: "down"}, time.Second)
	_, err := fetcher.Fetch(context.Background(), "https://example.com")
	if !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("Fetch() error = %v, want ErrHTTPStatus", err)
	}
}

func TestHTTPFetcherPropagatesTransportError(t *testing.T) {
	boom := errors.New("dial tcp: timeout")
	fetcher := NewHTTPFetcher(&stubDoer{err: boom}, time.Second)
	_, err := fetcher.Fetch(context.Background(), "https://example.com")
	if !errors.Is(err, boom) {
		t.Fatalf("Fetch() error = %v, want %v", err, boom)
	}
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}
