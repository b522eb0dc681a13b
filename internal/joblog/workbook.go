// Package joblog is the append-only spreadsheet of discovered postings.
package joblog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/jimezsa/govjobalert/internal/models"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultFileName = "govt_jobs.xlsx"
	DateLayout      = "2006-01-02 15:04"

	lockRetryDelay = 50 * time.Millisecond
)

var ErrMalformedRow = errors.New("malformed log row")

// Header is the first row of every log workbook.
var Header = []string{"Date Found", "Job Title", "Link", "Source", "Status"}

// Workbook appends records to an .xlsx file. Rows are only ever added
// after the last used row; existing rows are never rewritten.
type Workbook struct {
	path   string
	mu     sync.Mutex
	lock   *flock.Flock
	logger zerolog.Logger
}

type Option func(*Workbook)

// WithLogger reports rows skipped while reading.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Workbook) {
		w.logger = logger
	}
}

func NewWorkbook(path string, opts ...Option) *Workbook {
	if strings.TrimSpace(path) == "" {
		path = DefaultFileName
	}
	w := &Workbook{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workbook) Path() string {
	return w.path
}

// Append writes rec as the next row, creating the workbook with its
// header row first if it does not exist.
func (w *Workbook) Append(ctx context.Context, rec models.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.acquire(ctx); err != nil {
		return err
	}
	defer w.lock.Unlock()

	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.path, err)
	}

	next := len(rows) + 1
	if len(rows) == 0 {
		if err := setRow(f, sheet, 1, Header); err != nil {
			return err
		}
		next = 2
	}
	if err := setRow(f, sheet, next, recordRow(rec)); err != nil {
		return err
	}

	if created {
		if err := f.SaveAs(w.path); err != nil {
			return fmt.Errorf("save %s: %w", w.path, err)
		}
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}

// ReadAll returns every record in file order. A missing workbook is an
// empty log. Blank rows and rows that do not parse (a hand-edited date,
// a row with no title column) are skipped.
func (w *Workbook) ReadAll() ([]models.Record, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", w.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", w.path, err)
	}

	records := make([]models.Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			w.logger.Debug().Err(err).Str("log_file", w.path).Int("row", i+1).Msg("skipping log row")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Titles returns the title of every logged record.
func (w *Workbook) Titles() ([]string, error) {
	records, err := w.ReadAll()
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(records))
	for _, rec := range records {
		titles = append(titles, rec.Title)
	}
	return titles, nil
}

func (w *Workbook) acquire(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}
	locked, err := w.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", w.path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", w.path)
	}
	return nil
}

func (w *Workbook) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(w.path)
	if err == nil {
		return f, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("open %s: %w", w.path, err)
	}
	return excelize.NewFile(), true, nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func recordRow(rec models.Record) []string {
	status := rec.Status
	if status == "" {
		status = models.StatusNotApplied
	}
	return []string{
		rec.FoundAt.Local().Format(DateLayout),
		rec.Title,
		rec.Link,
		rec.Source,
		status,
	}
}

func isHeader(row []string) bool {
	return len(row) > 0 && row[0] == Header[0]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string) (models.Record, error) {
	if len(row) < 2 {
		return models.Record{}, ErrMalformedRow
	}
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	rec := models.Record{
		Title:  cell(1),
		Link:   cell(2),
		Source: cell(3),
		Status: cell(4),
	}
	if raw := cell(0); raw != "" {
		ts, err := time.ParseInLocation(DateLayout, raw, time.Local)
		if err != nil {
			return models.Record{}, fmt.Errorf("%w: date %q", ErrMalformedRow, raw)
		}
		rec.FoundAt = ts
	}
	return rec, nil
}
