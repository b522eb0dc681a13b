package models

import "time"

// StatusNotApplied is the status every log record starts with.
const StatusNotApplied = "Not Applied"

// Posting is a candidate job listing extracted from a source page.
type Posting struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
}

// Record is one row of the job log.
type Record struct {
	FoundAt time.Time `json:"found_at"`
	Title   string    `json:"title"`
	Link    string    `json:"link"`
	Source  string    `json:"source"`
	Status  string    `json:"status"`
}

func NewRecord(p Posting, foundAt time.Time) Record {
	return Record{
		FoundAt: foundAt,
		Title:   p.Title,
		Link:    p.Link,
		Source:  p.Source,
		Status:  StatusNotApplied,
	}
}
