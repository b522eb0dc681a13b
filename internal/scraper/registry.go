package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/jimezsa/govjobalert/internal/models"
)

const (
	SiteFPSC = "FPSC"
	SitePPSC = "PPSC"
	SiteNTS  = "NTS"
)

// DefaultSources returns the built-in registry in polling order.
func DefaultSources() []models.Source {
	return []models.Source{
		{
			Name:     SiteFPSC,
			URL:      "https://fpsc.gov.pk/jobs/gr/currentjobs",
			Strategy: models.StrategyAnchor,
		},
		{
			Name:      SitePPSC,
			URL:       "https://www.ppsc.gop.pk/Jobs.aspx",
			Strategy:  models.StrategyTabular,
			Root:      "https://www.ppsc.gop.pk/",
			TitleCell: defaultTitleCell,
		},
		{
			Name:     SiteNTS,
			URL:      "https://www.nts.org.pk/new/Allresults.php",
			Strategy: models.StrategyAnchor,
		},
	}
}

// StrategyFor picks the extractor for src. It depends on nothing but src.
func StrategyFor(src models.Source) (Extractor, error) {
	switch NormalizeStrategy(src.Strategy) {
	case models.StrategyTabular:
		return Tabular{}, nil
	case models.StrategyAnchor, "":
		return Anchor{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, src.Strategy)
	}
}

func NormalizeStrategy(s models.Strategy) models.Strategy {
	return models.Strategy(strings.ToLower(strings.TrimSpace(string(s))))
}

// ValidateSources rejects registries the poll loop cannot drive.
func ValidateSources(sources []models.Source) error {
	if len(sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	names := make(map[string]struct{}, len(sources))
	for i, src := range sources {
		name := strings.TrimSpace(src.Name)
		if name == "" {
			return fmt.Errorf("sources[%d]: name is required", i)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("sources[%d]: duplicate name %q", i, name)
		}
		names[name] = struct{}{}
		if strings.TrimSpace(src.URL) == "" {
			return fmt.Errorf("source %s: url is required", name)
		}
		if _, err := StrategyFor(src); err != nil {
			return fmt.Errorf("source %s: %w", name, err)
		}
		if NormalizeStrategy(src.Strategy) == models.StrategyTabular && strings.TrimSpace(src.Root) == "" {
			return fmt.Errorf("source %s: tabular strategy requires root", name)
		}
	}
	return nil
}

// Scrape fetches src and extracts its postings.
func Scrape(ctx context.Context, fetcher Fetcher, src models.Source) ([]models.Posting, error) {
	extractor, err := StrategyFor(src)
	if err != nil {
		return nil, err
	}
	doc, err := fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	return extractor.Extract(doc, src), nil
}
