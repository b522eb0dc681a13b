package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/govjobalert/internal/models"
)

type SourcesCmd struct{}

func (s *SourcesCmd) Run(ctx *Context) error {
	sources, err := ctx.Config.EffectiveSources()
	if err != nil {
		return err
	}
	return writeSources(ctx, sources)
}

func writeSources(ctx *Context, sources []models.Source) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(sources)
	}

	if ctx.PlainText {
		for _, src := range sources {
			line := []string{src.Name, string(src.Strategy), src.URL, src.Root}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tstrategy\turl\troot")
	for _, src := range sources {
		root := src.Root
		if root == "" {
			root = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", src.Name, src.Strategy, src.URL, root)
	}
	return tw.Flush()
}
