package poll

import (
	"time"

	"github.com/jimezsa/govjobalert/internal/models"
)

// SourceReport summarises one source within a cycle.
type SourceReport struct {
	Name            string
	Found           int
	New             int
	PersistFailures int
	Err             error
}

// CycleReport is what one pass over the registry produced. Discovered is
// in discovery order.
type CycleReport struct {
	StartedAt  time.Time
	Sources    []SourceReport
	Discovered []models.Posting
}

func (r CycleReport) FailedSources() int {
	failed := 0
	for _, s := range r.Sources {
		if s.Err != nil {
			failed++
		}
	}
	return failed
}
