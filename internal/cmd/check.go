package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jimezsa/govjobalert/internal/export"
	"github.com/jimezsa/govjobalert/internal/poll"
	"github.com/muesli/termenv"
)

var ErrAllSourcesFailed = errors.New("every source failed")

type CheckCmd struct {
	WatchOptions
	NoLog  bool   `help:"Do not append new postings to the job log."`
	Format string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
}

func (c *CheckCmd) Run(ctx *Context) error {
	setup, err := newWatchSetup(ctx, c.WatchOptions)
	if err != nil {
		return err
	}

	var sink poll.Sink
	if !c.NoLog {
		sink = setup.workbook
	}
	loop, err := setup.loop(ctx, sink, nil, 0)
	if err != nil {
		return err
	}

	report := loop.RunCycle(context.Background())
	reportSourceFailures(ctx, report)

	format, err := resolveFormat(ctx, c.Format)
	if err != nil {
		return err
	}
	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	if err := export.WritePostings(ctx.Out, report.Discovered, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(ctx.Out),
		LinkStyle:    export.LinkStyleShort,
	}); err != nil {
		return err
	}
	printCheckSummary(ctx, report)

	if len(report.Sources) > 0 && report.FailedSources() == len(report.Sources) {
		return ErrAllSourcesFailed
	}
	return nil
}

func printCheckSummary(ctx *Context, report poll.CycleReport) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", formatCheckSummary(report))
}

func formatCheckSummary(report poll.CycleReport) string {
	if len(report.Sources) == 0 {
		return "summary: new_postings=0 by_source=none"
	}

	sources := append([]poll.SourceReport(nil), report.Sources...)
	sort.SliceStable(sources, func(i, j int) bool {
		return strings.ToLower(sources[i].Name) < strings.ToLower(sources[j].Name)
	})

	parts := make([]string, 0, len(sources))
	for _, sr := range sources {
		if sr.Err != nil {
			parts = append(parts, fmt.Sprintf("%s:error", sr.Name))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", sr.Name, sr.New))
	}
	return fmt.Sprintf("summary: new_postings=%d by_source=%s", len(report.Discovered), strings.Join(parts, ", "))
}

func resolveFormat(ctx *Context, flag string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
