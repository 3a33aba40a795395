package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Saggygee/ufc-data/config"
	"github.com/Saggygee/ufc-data/models"
)

// sportKey is the MMA sport identifier on the odds API.
const sportKey = "mma_mixed_martial_arts"

// OddsAPI pulls head-to-head prices for upcoming fights from a bookmaker
// aggregation API.
type OddsAPI struct {
	cfg        *config.Config
	httpClient *http.Client
	metrics    *Metrics
}

// NewOddsAPI builds the live odds source.
func NewOddsAPI(cfg *config.Config, metrics *Metrics) *OddsAPI {
	return &OddsAPI{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    metrics,
	}
}

// WithTransport replaces the HTTP transport, mainly for tests.
func (a *OddsAPI) WithTransport(rt http.RoundTripper) {
	a.httpClient.Transport = rt
}

// apiEvent mirrors one event in the odds API response.
type apiEvent struct {
	ID           string         `json:"id"`
	SportTitle   string         `json:"sport_title"`
	CommenceTime string         `json:"commence_time"`
	Bookmakers   []apiBookmaker `json:"bookmakers"`
}

type apiBookmaker struct {
	Key     string      `json:"key"`
	Markets []apiMarket `json:"markets"`
}

type apiMarket struct {
	Key      string       `json:"key"`
	Outcomes []apiOutcome `json:"outcomes"`
}

// apiOutcome carries one side of a market. Price is a pointer because the
// API omits or nulls it for suspended lines; those become UnknownOdds.
type apiOutcome struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// Records fetches current head-to-head prices. Only the first bookmaker of
// each event is read, and only two-sided head-to-head markets produce
// records. Returned records keep the API's own link and date fields.
func (a *OddsAPI) Records(ctx context.Context) ([]models.OddsRecord, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/odds", strings.TrimSuffix(a.cfg.OddsAPIURL, "/"), sportKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build odds api request: %w", err)
	}
	query := req.URL.Query()
	query.Set("apiKey", a.cfg.APIKey)
	query.Set("regions", a.cfg.Region)
	query.Set("markets", a.cfg.Markets)
	query.Set("oddsFormat", a.cfg.OddsFormat)
	req.URL.RawQuery = query.Encode()

	a.metrics.IncRequest("odds_api")
	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		classified := classifyError(err, 0)
		a.metrics.IncError(errorTypeLabel(classified))
		return nil, classified
	}
	defer resp.Body.Close()
	a.metrics.ObserveDuration(time.Since(start))

	if resp.StatusCode != http.StatusOK {
		classified := classifyError(nil, resp.StatusCode)
		a.metrics.IncError(errorTypeLabel(classified))
		return nil, classified
	}

	var payload []apiEvent
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode odds api response: %w", err)
	}

	var records []models.OddsRecord
	for _, event := range payload {
		if len(event.Bookmakers) == 0 {
			a.metrics.IncSkip("no_bookmakers")
			continue
		}
		title := event.SportTitle
		if title == "" {
			title = "UFC Event"
		}
		for _, market := range event.Bookmakers[0].Markets {
			if market.Key != "h2h" || len(market.Outcomes) < 2 {
				a.metrics.IncSkip("market_shape")
				continue
			}
			records = append(records, models.OddsRecord{
				Link:         "odds_api_" + event.ID,
				Date:         commenceDate(event.CommenceTime),
				Event:        title,
				Fighter1:     market.Outcomes[0].Name,
				Fighter2:     market.Outcomes[1].Name,
				Fighter1Odds: priceOrUnknown(market.Outcomes[0].Price),
				Fighter2Odds: priceOrUnknown(market.Outcomes[1].Price),
				Result:       "",
			})
		}
	}
	a.metrics.AddRecords("odds_api", len(records))
	return records, nil
}

// commenceDate keeps the date half of an RFC 3339 commence time.
func commenceDate(commenceTime string) string {
	if len(commenceTime) < 10 {
		return commenceTime
	}
	return commenceTime[:10]
}

func priceOrUnknown(price *float64) float64 {
	if price == nil {
		return models.UnknownOdds
	}
	return *price
}
