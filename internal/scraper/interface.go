package scraper

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/govjobalert/internal/models"
)

var (
	ErrUnknownStrategy = errors.New("unknown extraction strategy")
	ErrHTTPStatus      = errors.New("unexpected http status")
)

// Fetcher returns the parsed page at target.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*goquery.Document, error)
}

// Extractor turns one parsed page into postings, in page order.
type Extractor interface {
	Extract(doc *goquery.Document, src models.Source) []models.Posting
}
