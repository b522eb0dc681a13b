package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/govjobalert/internal/joblog"
	"github.com/jimezsa/govjobalert/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

// WriteRecords renders log records in the requested format.
func WriteRecords(w io.Writer, records []models.Record, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatCSV:
		return writeCSV(w, records, ',')
	case FormatTSV:
		return writeCSV(w, records, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, records)
	default:
		return writeTable(w, records, opts)
	}
}

// WritePostings renders postings found in one cycle, stamped as records.
func WritePostings(w io.Writer, postings []models.Posting, format Format, opts WriteOptions) error {
	records := make([]models.Record, 0, len(postings))
	for _, p := range postings {
		records = append(records, models.Record{Title: p.Title, Link: p.Link, Source: p.Source, Status: models.StatusNotApplied})
	}
	return WriteRecords(w, records, format, opts)
}

func writeJSON(w io.Writer, records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeCSV(w io.Writer, records []models.Record, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(joblog.Header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writer.Write(csvRow(rec)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, records []models.Record, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, rec := range records {
		fmt.Fprintln(tw, strings.Join(tableRow(rec, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, records []models.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No postings.")
		return err
	}
	for _, rec := range records {
		urlLine := "  Link: -"
		if link := safe(rec.Link); link != "" {
			urlLine = fmt.Sprintf("  Link: [Open posting](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(rec.Title), safe(rec.Source)),
			urlLine,
		}
		if found := foundAt(rec); found != "" {
			lines = append(lines, fmt.Sprintf("  Found: %s", found))
		}
		if rec.Status != "" {
			lines = append(lines, fmt.Sprintf("  Status: %s", safe(rec.Status)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvRow(rec models.Record) []string {
	return []string{
		foundAt(rec),
		rec.Title,
		rec.Link,
		rec.Source,
		rec.Status,
	}
}

func foundAt(rec models.Record) string {
	if rec.FoundAt.IsZero() {
		return ""
	}
	return rec.FoundAt.Format(joblog.DateLayout)
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"found",
		"source",
		"title",
		"link",
		"status",
	}
}

func tableRow(rec models.Record, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	link := safe(rec.Link)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}
	found := foundAt(rec)
	if found == "" {
		found = "-"
	}
	return []string{
		found,
		safe(rec.Source),
		safe(rec.Title),
		displayURL,
		safe(rec.Status),
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
