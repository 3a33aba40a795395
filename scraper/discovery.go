package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Saggygee/ufc-data/config"
	"github.com/Saggygee/ufc-data/models"
	"github.com/Saggygee/ufc-data/parser"
	lru "github.com/hashicorp/golang-lru/v2"
)

// eventSelectors are tried in order against the odds listing page. The
// listing markup shifts often, so several loose patterns are scanned.
var eventSelectors = []string{
	`div[class*="event"]`,
	`div[class*="fight"]`,
	`div[class*="match"]`,
	`tr[class*="event"]`,
	`tr[class*="fight"]`,
	`.event-row`,
	`.fight-row`,
}

const maxEventNameLen = 100

// Discoverer finds upcoming cards. Providers are tried in order, and the
// bundled samples stand in when every live source yields nothing, so
// Discover never fails.
type Discoverer struct {
	cfg     *config.Config
	client  *Client
	samples SampleProvider
	seen    *lru.Cache[string, struct{}]
	now     func() time.Time
}

// NewDiscoverer wires the discovery providers.
func NewDiscoverer(cfg *config.Config, client *Client, samples SampleProvider) *Discoverer {
	seen, _ := lru.New[string, struct{}](256)
	return &Discoverer{
		cfg:     cfg,
		client:  client,
		samples: samples,
		seen:    seen,
		now:     time.Now,
	}
}

// Discover returns upcoming events and one outcome per provider attempted.
func (d *Discoverer) Discover(ctx context.Context) ([]models.Event, []models.SourceOutcome) {
	var outcomes []models.SourceOutcome

	events, err := d.scanOddsPage(ctx)
	outcomes = append(outcomes, models.NewOutcome("oddsshark", len(events), err))
	if err == nil && len(events) > 0 {
		d.client.Metrics.AddEvents("oddsshark", len(events))
		slog.Info("events found on odds page", slog.Int("count", len(events)))
		return events, outcomes
	}
	if err != nil {
		slog.Warn("odds page scan failed", slog.Any("error", err))
	}

	events, err = d.scanListings(ctx)
	outcomes = append(outcomes, models.NewOutcome("bestfightodds", len(events), err))
	if err == nil && len(events) > 0 {
		d.client.Metrics.AddEvents("bestfightodds", len(events))
		slog.Info("events found on listings page", slog.Int("count", len(events)))
		return events, outcomes
	}
	if err != nil {
		slog.Warn("listings page scan failed", slog.Any("error", err))
	}

	fallback := d.samples.Events()
	outcomes = append(outcomes, models.NewOutcome("samples", len(fallback), nil))
	d.client.Metrics.AddEvents("samples", len(fallback))
	slog.Warn("no live events found, using sample cards", slog.Int("count", len(fallback)))
	return fallback, outcomes
}

// scanOddsPage walks the selector groups in order, keeping elements whose
// text mentions the promotion. Only the first MaxPerSelector elements of
// each group are examined, and at most MaxEvents collected overall.
func (d *Discoverer) scanOddsPage(ctx context.Context) ([]models.Event, error) {
	doc, err := d.client.fetchDocument(ctx, "discovery", d.cfg.OddsPageURL)
	if err != nil {
		return nil, err
	}

	var events []models.Event
	for _, selector := range eventSelectors {
		if len(events) >= d.cfg.MaxEvents {
			break
		}
		doc.Find(selector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			if i >= d.cfg.MaxPerSelector {
				return false
			}
			text := parser.CleanText(sel.Text())
			if !mentionsPromotion(text) {
				return true
			}
			date, ok := parser.ExtractDate(text)
			if !ok {
				date = parser.FallbackDate(d.now())
			}
			events = append(events, models.Event{
				Date:    date,
				Name:    parser.Truncate(text, maxEventNameLen),
				Locator: fmt.Sprintf("oddsshark_%d", len(events)),
			})
			return len(events) < d.cfg.MaxEvents
		})
	}
	return events, nil
}

// scanListings reads the backup listings page, which exposes real event
// URLs. The same event link appears in several sections of the page, so
// hrefs are deduplicated through a bounded cache.
func (d *Discoverer) scanListings(ctx context.Context) ([]models.Event, error) {
	doc, err := d.client.fetchDocument(ctx, "discovery", d.cfg.ListingsURL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(d.cfg.ListingsURL)
	if err != nil {
		return nil, fmt.Errorf("parse listings url: %w", err)
	}

	var events []models.Event
	doc.Find(`a[href*="/events/"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		name := parser.CleanText(sel.Text())
		if !mentionsPromotion(name) {
			return true
		}
		locator := base.ResolveReference(ref).String()
		if d.seen.Contains(locator) {
			return true
		}
		d.seen.Add(locator, struct{}{})

		row := sel.Closest("tr")
		if row.Length() == 0 {
			row = sel.Parent()
		}
		date, ok := parser.ExtractDate(parser.CleanText(row.Text()))
		if !ok {
			date = parser.FallbackDate(d.now())
		}
		events = append(events, models.Event{
			Date:    date,
			Name:    parser.Truncate(name, maxEventNameLen),
			Locator: locator,
		})
		return len(events) < d.cfg.MaxEvents
	})
	return events, nil
}

// mentionsPromotion reports whether text plausibly names a UFC card.
func mentionsPromotion(text string) bool {
	return len(text) > 5 && strings.Contains(strings.ToLower(text), "ufc")
}
