package scraper

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/govjobalert/internal/models"
)

const (
	defaultTitleCell = 1
	minTabularCells  = 2
)

// Tabular reads postings out of table rows. The title comes from a
// designated cell and the link is Root+href, concatenated as-is.
type Tabular struct{}

func (Tabular) Extract(doc *goquery.Document, src models.Source) []models.Posting {
	titleCell := src.TitleCell
	if titleCell <= 0 {
		titleCell = defaultTitleCell
	}
	minCells := minTabularCells
	if titleCell+1 > minCells {
		minCells = titleCell + 1
	}

	var postings []models.Posting
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < minCells {
			return
		}

		title := displayText(cells.Eq(titleCell))
		if title == "" {
			return
		}
		href, ok := rowLink(cells, titleCell)
		if !ok {
			return
		}

		postings = append(postings, models.Posting{
			Title:  title,
			Link:   src.Root + href,
			Source: src.Name,
		})
	})
	return postings
}

// rowLink prefers the anchor inside the title cell and falls back to the
// first anchor in a later cell of the same row.
func rowLink(cells *goquery.Selection, titleCell int) (string, bool) {
	for i := titleCell; i < cells.Length(); i++ {
		if href, ok := cells.Eq(i).Find("a[href]").First().Attr("href"); ok {
			return href, true
		}
	}
	return "", false
}
