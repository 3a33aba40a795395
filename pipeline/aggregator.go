// Package pipeline assembles scraped odds into a run result and writes it
// to the configured outputs.
package pipeline

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Saggygee/ufc-data/config"
	"github.com/Saggygee/ufc-data/models"
	"github.com/Saggygee/ufc-data/parser"
	"github.com/google/uuid"
)

// LiveSource returns complete records from a bookmaker API in one call.
type LiveSource interface {
	Records(ctx context.Context) ([]models.OddsRecord, error)
}

// PageSource resolves one event locator into its fight records.
type PageSource interface {
	FightOdds(ctx context.Context, locator string) ([]models.OddsRecord, error)
}

// Aggregator walks discovered events one at a time and assembles the run's
// records. A failing source contributes an outcome, never an error: the
// result always carries whatever was collected.
type Aggregator struct {
	cfg   *config.Config
	live  LiveSource
	pages PageSource

	now   func() time.Time
	sleep func(time.Duration)
}

// NewAggregator wires the aggregator. live may be nil when no API source
// is configured.
func NewAggregator(cfg *config.Config, live LiveSource, pages PageSource) *Aggregator {
	return &Aggregator{
		cfg:   cfg,
		live:  live,
		pages: pages,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// CollectAll gathers records from the live API first, then from each event
// page in order. Every record of the run shares one collection timestamp.
// Page records take their link and date from the event that produced them.
func (a *Aggregator) CollectAll(ctx context.Context, events []models.Event) *models.ScrapeResult {
	result := &models.ScrapeResult{
		RunID:     uuid.NewString(),
		StartedAt: a.now(),
		Records:   []models.OddsRecord{},
		Problems:  make(map[string]int),
	}
	stamp := result.StartedAt
	log := slog.With(slog.String("run_id", result.RunID))

	if a.live != nil && a.cfg.APIKey != "" {
		records, err := a.live.Records(ctx)
		result.Sources = append(result.Sources, models.NewOutcome("odds_api", len(records), err))
		for _, record := range records {
			record.Timestamp = stamp
			a.collect(result, record)
		}
	}

	for i, event := range events {
		if a.cfg.TestMode && i >= a.cfg.TestEventLimit {
			log.Info("event limit reached in test mode", "limit", a.cfg.TestEventLimit)
			break
		}
		if err := ctx.Err(); err != nil {
			result.Sources = append(result.Sources, models.NewOutcome("page:"+event.Locator, 0, err))
			break
		}

		log.Info("scraping event", "index", i+1, "total", len(events), "event", event.Name)
		records, err := a.pages.FightOdds(ctx, event.Locator)
		result.Sources = append(result.Sources, models.NewOutcome("page:"+event.Locator, len(records), err))
		for _, record := range records {
			record.Link = event.Locator
			record.Date = event.Date
			record.Timestamp = stamp
			a.collect(result, record)
		}
		a.pause()
	}

	result.FinishedAt = a.now()
	return result
}

// collect appends a record, tallying but not dropping ones that fail the
// advisory checks.
func (a *Aggregator) collect(result *models.ScrapeResult, record models.OddsRecord) {
	if err := parser.ValidateRecord(&record); err != nil {
		result.Problems[err.Error()]++
	}
	result.Records = append(result.Records, record)
}

// pause sleeps the fixed delay plus a uniform random share so request
// timing does not look mechanical.
func (a *Aggregator) pause() {
	delay := a.cfg.Delay
	if a.cfg.RandomDelay > 0 {
		delay += rand.N(a.cfg.RandomDelay)
	}
	if delay > 0 {
		a.sleep(delay)
	}
}
