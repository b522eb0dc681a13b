package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/govjobalert/internal/network"
)

// Doer sends a single HTTP request.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// HTTPFetcher fetches pages through a Doer with a bounded wait per page.
type HTTPFetcher struct {
	client  Doer
	timeout time.Duration
	headers map[string]string
}

func NewHTTPFetcher(client Doer, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = network.DefaultTimeout
	}
	return &HTTPFetcher{client: client, timeout: timeout}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, target string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return fetchDocument(ctx, f.client, target, f.headers)
}

func fetchDocument(ctx context.Context, client Doer, target string, headers map[string]string) (*goquery.Document, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	applyHeaders(req, headers)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	if doc.Url == nil {
		doc.Url = req.URL
	}
	return doc, nil
}

func applyHeaders(req *fhttp.Request, headers map[string]string) {
	req.Header.Set("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("accept-language", "en-US,en;q=0.9")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// displayText joins the text of sel with single spaces, so markup such as
// <br/> or indentation inside a cell does not leak into a title.
func displayText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
