package scraper

import "github.com/Saggygee/ufc-data/models"

// syntheticPrefix marks locators that resolve to bundled data instead of a
// live page.
const syntheticPrefix = "oddsshark_"

// SampleProvider supplies the fallback data used when live sources yield
// nothing. The default provider returns a fixed card; tests swap in their
// own.
type SampleProvider interface {
	Events() []models.Event
	Fights(locator string) []models.OddsRecord
}

// Samples is the bundled fallback data set.
type Samples struct{}

// Events returns the fixed sample cards substituted when discovery comes up
// empty.
func (Samples) Events() []models.Event {
	return []models.Event{
		{
			Date:    "19 Jul 25",
			Name:    "UFC 304: Edwards vs Muhammad 2",
			Locator: "oddsshark_sample_1",
		},
		{
			Date:    "27 Jul 25",
			Name:    "UFC Fight Night: Sandhagen vs Nurmagomedov",
			Locator: "oddsshark_sample_2",
		},
	}
}

// Fights returns the fixed sample fight list for any synthetic locator.
func (Samples) Fights(locator string) []models.OddsRecord {
	return []models.OddsRecord{
		{
			Event:        "UFC 304: Edwards vs Muhammad 2",
			Fighter1:     "Leon Edwards",
			Fighter2:     "Belal Muhammad",
			Fighter1Odds: 1.85,
			Fighter2Odds: 1.95,
			Result:       "",
		},
		{
			Event:        "UFC 304: Edwards vs Muhammad 2",
			Fighter1:     "Tom Aspinall",
			Fighter2:     "Curtis Blaydes",
			Fighter1Odds: 1.45,
			Fighter2Odds: 2.75,
			Result:       "",
		},
		{
			Event:        "UFC Fight Night: Sandhagen vs Nurmagomedov",
			Fighter1:     "Cory Sandhagen",
			Fighter2:     "Umar Nurmagomedov",
			Fighter1Odds: 2.10,
			Fighter2Odds: 1.75,
			Result:       "",
		},
		{
			Event:        "UFC Fight Night: Sandhagen vs Nurmagomedov",
			Fighter1:     "Shara Magomedov",
			Fighter2:     "Michal Oleksiejczuk",
			Fighter1Odds: 1.65,
			Fighter2Odds: 2.25,
			Result:       "",
		},
	}
}
