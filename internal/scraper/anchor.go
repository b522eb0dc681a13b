package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/govjobalert/internal/models"
)

const jobMarker = "job"

// Anchor treats every hyperlink whose own path mentions "job" as a
// posting. The href is tested as written, before resolving it against the
// page URL.
type Anchor struct{}

func (Anchor) Extract(doc *goquery.Document, src models.Source) []models.Posting {
	var postings []models.Posting
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		title := displayText(s)
		if title == "" {
			return
		}
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if !isJobLink(href) {
			return
		}
		link := absoluteURL(src.URL, href)

		postings = append(postings, models.Posting{
			Title:  title,
			Link:   link,
			Source: src.Name,
		})
	})
	return postings
}

func isJobLink(href string) bool {
	if href == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(u.Path), jobMarker)
}
