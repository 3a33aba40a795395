// Package scraper implements event discovery and the odds source adapters.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Saggygee/ufc-data/config"
	"github.com/gocolly/colly/v2"
)

// Client issues the page fetches shared by discovery and event scraping.
// Each fetch is a one-shot synchronous request bounded by the configured
// timeout; failures are classified and reported, never retried.
type Client struct {
	cfg       *config.Config
	transport http.RoundTripper
	Metrics   *Metrics
}

// NewClient builds the fetch client used by all page sources.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Metrics: NewMetrics(),
	}
}

// WithTransport replaces the HTTP transport used for page fetches.
func (c *Client) WithTransport(rt http.RoundTripper) {
	c.transport = rt
}

// newCollector builds a collector for a single fetch. Locators span several
// domains, so no domain allowlist is set.
func (c *Client) newCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent(c.cfg.UserAgent),
	)
	collector.SetRequestTimeout(c.cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(c.transport)
	return collector
}

// fetchDocument issues one GET through a fresh collector and parses the
// response body. The source label feeds metrics.
func (c *Client) fetchDocument(ctx context.Context, source, pageURL string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := c.newCollector()

	var doc *goquery.Document
	var parseErr error
	collector.OnResponse(func(r *colly.Response) {
		parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			parseErr = fmt.Errorf("parse %s: %w", pageURL, err)
			return
		}
		doc = parsed
	})

	var fetchErr error
	collector.OnError(func(r *colly.Response, err error) {
		statusCode := 0
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = classifyError(err, statusCode)
	})

	c.Metrics.IncRequest(source)
	start := time.Now()
	visitErr := collector.Visit(pageURL)
	collector.Wait()
	c.Metrics.ObserveDuration(time.Since(start))

	err := fetchErr
	if err == nil && visitErr != nil {
		err = classifyError(visitErr, 0)
	}
	if err == nil && parseErr != nil {
		err = parseErr
	}
	if err == nil && doc == nil {
		err = fmt.Errorf("no response received from %s", pageURL)
	}
	if err != nil {
		category := errorTypeLabel(err)
		c.Metrics.IncError(category)
		slog.Debug("page fetch failed",
			slog.String("url", pageURL),
			slog.String("category", category),
			slog.Any("error", err),
		)
		return nil, err
	}
	return doc, nil
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if statusCode >= http.StatusBadRequest {
		wrapped := err
		if wrapped == nil {
			wrapped = errors.New(http.StatusText(statusCode))
		}
		return ErrHTTPStatus{Code: statusCode, Err: wrapped}
	}

	return err
}
