package models

// Strategy names how a source page is turned into postings.
type Strategy string

const (
	StrategyAnchor  Strategy = "anchor"
	StrategyTabular Strategy = "tabular"
)

// Source is one configured job-listing website.
type Source struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Strategy Strategy `json:"strategy"`
	// Root is prepended verbatim to hrefs found by the tabular strategy.
	Root      string `json:"root,omitempty"`
	TitleCell int    `json:"title_cell,omitempty"`
}
