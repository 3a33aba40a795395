// Package models defines data structures for the odds pipeline.
package models

import "time"

// UnknownOdds is the placeholder price recorded when a source quotes no
// usable number for a fighter. It is never a real market price.
const UnknownOdds = 1.0

// Columns returns the output column set, in order. Every run emits exactly
// these columns regardless of which sources contributed records.
func Columns() []string {
	return []string{
		"link", "date", "event",
		"fighter1", "fighter2",
		"fighter1_odds", "fighter2_odds",
		"result", "timestamp",
	}
}

// Event identifies one upcoming card found by a listing source. Locator is
// either a real page URL or a synthetic marker understood by the page
// scraper.
type Event struct {
	Date    string
	Name    string
	Locator string
}

// OddsRecord is one fight's odds line. Fighter names and odds are paired
// positionally; the pairing from the source is preserved as-is.
type OddsRecord struct {
	Link         string    `csv:"link" json:"link"`
	Date         string    `csv:"date" json:"date"`
	Event        string    `csv:"event" json:"event"`
	Fighter1     string    `csv:"fighter1" json:"fighter1"`
	Fighter2     string    `csv:"fighter2" json:"fighter2"`
	Fighter1Odds float64   `csv:"fighter1_odds" json:"fighter1_odds"`
	Fighter2Odds float64   `csv:"fighter2_odds" json:"fighter2_odds"`
	Result       string    `csv:"result" json:"result"`
	Timestamp    time.Time `csv:"timestamp" json:"timestamp"`
}

// SourceStatus describes how a single source invocation went.
type SourceStatus string

const (
	// SourceData means the source responded and produced records.
	SourceData SourceStatus = "data"
	// SourceEmpty means the source responded but yielded nothing.
	SourceEmpty SourceStatus = "empty"
	// SourceFailed means the source could not be read at all.
	SourceFailed SourceStatus = "failed"
)

// SourceOutcome records the result of one source invocation. Failures are
// captured here instead of aborting the run.
type SourceOutcome struct {
	Source  string
	Status  SourceStatus
	Records int
	Err     string
}

// NewOutcome classifies a source invocation from its record count and error.
func NewOutcome(source string, records int, err error) SourceOutcome {
	outcome := SourceOutcome{Source: source, Records: records}
	switch {
	case err != nil:
		outcome.Status = SourceFailed
		outcome.Err = err.Error()
	case records > 0:
		outcome.Status = SourceData
	default:
		outcome.Status = SourceEmpty
	}
	return outcome
}

// ScrapeResult holds the merged output of one run. Records is always
// non-nil; a run that found nothing carries an empty slice.
type ScrapeResult struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []OddsRecord
	Sources    []SourceOutcome
	Problems   map[string]int
}

// OutcomeCounts tallies source outcomes by status.
func (r *ScrapeResult) OutcomeCounts() map[SourceStatus]int {
	counts := make(map[SourceStatus]int, 3)
	for _, outcome := range r.Sources {
		counts[outcome.Status]++
	}
	return counts
}

// Duration reports how long the run took.
func (r *ScrapeResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
