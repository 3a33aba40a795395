package scraper

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Saggygee/ufc-data/models"
	"github.com/Saggygee/ufc-data/parser"
)

var (
	fightRowRe   = regexp.MustCompile(`fight|odd`)
	fightBlockRe = regexp.MustCompile(`fight|match`)
)

// PageScraper extracts fight odds from individual event pages.
type PageScraper struct {
	client  *Client
	samples SampleProvider
}

// NewPageScraper builds the per-event page source.
func NewPageScraper(client *Client, samples SampleProvider) *PageScraper {
	return &PageScraper{client: client, samples: samples}
}

// FightOdds returns the odds rows for one event locator. Synthetic locators
// resolve to the bundled sample card; anything else is fetched and parsed.
// Rows that cannot be extracted are skipped, never fatal. The caller owns
// the link and date fields of the returned records.
func (p *PageScraper) FightOdds(ctx context.Context, locator string) ([]models.OddsRecord, error) {
	if strings.HasPrefix(locator, syntheticPrefix) {
		fights := p.samples.Fights(locator)
		p.client.Metrics.AddRecords("samples", len(fights))
		return fights, nil
	}

	doc, err := p.client.fetchDocument(ctx, "page", locator)
	if err != nil {
		return nil, err
	}

	title := parser.CleanText(doc.Find("h1").First().Text())
	if title == "" {
		title = "UFC Event"
	}

	rows := doc.Find("tr").FilterFunction(classMatches(fightRowRe))
	if rows.Length() == 0 {
		rows = doc.Find("div").FilterFunction(classMatches(fightBlockRe))
	}

	var records []models.OddsRecord
	rows.Each(func(_ int, row *goquery.Selection) {
		record, ok := p.extractFight(row, title)
		if !ok {
			return
		}
		records = append(records, record)
	})
	p.client.Metrics.AddRecords("page", len(records))
	return records, nil
}

func classMatches(re *regexp.Regexp) func(int, *goquery.Selection) bool {
	return func(_ int, sel *goquery.Selection) bool {
		class, ok := sel.Attr("class")
		return ok && re.MatchString(class)
	}
}

// extractFight reads one candidate row. Fighter names come from the first
// two fighter-profile anchors; odds from the first two cells that carry a
// decimal price, in row order. Rows without two fighters are skipped.
func (p *PageScraper) extractFight(row *goquery.Selection, event string) (models.OddsRecord, bool) {
	anchors := row.Find("a").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		return ok && strings.Contains(href, "fighter")
	})
	if anchors.Length() < 2 {
		p.client.Metrics.IncSkip("row_fighters")
		return models.OddsRecord{}, false
	}

	odds1, odds2 := models.UnknownOdds, models.UnknownOdds
	matched := 0
	row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		value, ok := parser.ParseDecimalOdds(parser.CleanText(cell.Text()))
		if !ok {
			return true
		}
		if matched == 0 {
			odds1 = value
		} else {
			odds2 = value
		}
		matched++
		return matched < 2
	})

	return models.OddsRecord{
		Event:        event,
		Fighter1:     parser.CleanText(anchors.Eq(0).Text()),
		Fighter2:     parser.CleanText(anchors.Eq(1).Text()),
		Fighter1Odds: odds1,
		Fighter2Odds: odds2,
		Result:       "",
	}, true
}
