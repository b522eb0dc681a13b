package cmd

import (
	"fmt"

	"github.com/jimezsa/govjobalert/internal/export"
	"github.com/jimezsa/govjobalert/internal/joblog"
)

type LogCmd struct {
	LogFile string `help:"Path of the job log workbook." env:"GOVJOBALERT_LOG_FILE"`
	Source  string `help:"Only show postings from this source."`
	Format  string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
}

func (l *LogCmd) Run(ctx *Context) error {
	workbook := joblog.NewWorkbook(firstNonEmpty(l.LogFile, ctx.Config.LogFile), joblog.WithLogger(ctx.Logger))
	records, err := workbook.ReadAll()
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}

	if l.Source != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.Source == l.Source {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	format, err := resolveFormat(ctx, l.Format)
	if err != nil {
		return err
	}
	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	return export.WriteRecords(ctx.Out, records, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(ctx.Out),
		LinkStyle:    export.LinkStyleShort,
	})
}
