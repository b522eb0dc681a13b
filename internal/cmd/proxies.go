package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/govjobalert/internal/config"
	"github.com/jimezsa/govjobalert/internal/models"
	"github.com/jimezsa/govjobalert/internal/network"
	"github.com/jimezsa/govjobalert/internal/scraper"
)

const directRoute = "direct"

type ProxiesCmd struct {
	Check ProxyCheckCmd `cmd:"" help:"Scrape every source directly and through each proxy, and report reachability."`
}

type ProxyCheckCmd struct {
	Proxies string        `help:"Comma-separated proxy URLs." env:"GOVJOBALERT_PROXIES"`
	Source  string        `help:"Only check the named source."`
	Timeout time.Duration `help:"Per-page fetch timeout."`
}

// SourceCheck is the outcome of one source scraped over one route.
type SourceCheck struct {
	Route     string `json:"route"`
	Source    string `json:"source"`
	Status    string `json:"status"`
	Postings  int    `json:"postings"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	sources, err := ctx.Config.EffectiveSources()
	if err != nil {
		return err
	}
	sources, err = filterSources(sources, p.Source)
	if err != nil {
		return err
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout, err = ctx.Config.TimeoutDuration()
		if err != nil {
			return err
		}
	}

	proxies, err := config.LoadProxies(p.Proxies)
	if err != nil {
		return err
	}
	routes := append([]string{directRoute}, proxies...)

	var results []SourceCheck
	for _, route := range routes {
		fetcher, err := routeFetcher(route, timeout)
		if err != nil {
			for _, src := range sources {
				results = append(results, SourceCheck{Route: route, Source: src.Name, Status: "error", Error: err.Error()})
			}
			continue
		}
		results = append(results, checkSources(context.Background(), route, fetcher, sources)...)
	}

	return writeSourceChecks(ctx, results)
}

func routeFetcher(route string, timeout time.Duration) (*scraper.HTTPFetcher, error) {
	var rotator *network.Rotator
	if route != directRoute {
		var err error
		rotator, err = network.NewRotator([]string{route}, proxyBanDuration)
		if err != nil {
			return nil, err
		}
	}
	client, err := network.NewClient(rotator, timeout)
	if err != nil {
		return nil, err
	}
	return scraper.NewHTTPFetcher(client, timeout), nil
}

// checkSources scrapes each source once through fetcher. Every source is
// reported, whether it failed or not.
func checkSources(ctx context.Context, route string, fetcher scraper.Fetcher, sources []models.Source) []SourceCheck {
	results := make([]SourceCheck, 0, len(sources))
	for _, src := range sources {
		result := SourceCheck{Route: route, Source: src.Name}
		start := time.Now()
		postings, err := scraper.Scrape(ctx, fetcher, src)
		result.LatencyMS = time.Since(start).Milliseconds()
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
		} else {
			result.Status = "ok"
			result.Postings = len(postings)
		}
		results = append(results, result)
	}
	return results
}

func filterSources(sources []models.Source, name string) ([]models.Source, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return sources, nil
	}
	for _, src := range sources {
		if strings.EqualFold(src.Name, name) {
			return []models.Source{src}, nil
		}
	}
	return nil, fmt.Errorf("unknown source %q", name)
}

func writeSourceChecks(ctx *Context, results []SourceCheck) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Route, res.Source, res.Status, fmt.Sprintf("%d", res.Postings), fmt.Sprintf("%d", res.LatencyMS), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "route\tsource\tstatus\tpostings\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", res.Route, res.Source, res.Status, res.Postings, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
