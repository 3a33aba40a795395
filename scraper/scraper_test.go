package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/Saggygee/ufc-data/config"
	"github.com/jarcoal/httpmock"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		expected   string
	}{
		{name: "nil", err: nil, statusCode: 0, expected: "unknown"},
		{name: "context timeout", err: context.DeadlineExceeded, statusCode: 0, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, statusCode: 0, expected: "timeout"},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, statusCode: 0, expected: "connection"},
		{name: "forbidden", err: nil, statusCode: http.StatusForbidden, expected: "forbidden"},
		{name: "not found", err: nil, statusCode: http.StatusNotFound, expected: "not_found"},
		{name: "rate limited", err: nil, statusCode: http.StatusTooManyRequests, expected: "rate_limited"},
		{name: "server error family", err: nil, statusCode: http.StatusServiceUnavailable, expected: "http_5xx"},
		{name: "client error family", err: nil, statusCode: http.StatusBadRequest, expected: "http_4xx"},
		{name: "other", err: errors.New("some other error"), statusCode: 0, expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorTypeLabel(classifyError(tt.err, tt.statusCode)); got != tt.expected {
				t.Fatalf("classifyError(%v, %d) = %q, want %q", tt.err, tt.statusCode, got, tt.expected)
			}
		})
	}
}

func newTestClient(transport http.RoundTripper) *Client {
	cfg := config.DefaultConfig()
	cfg.OddsPageURL = "http://odds.test/ufc/odds"
	cfg.ListingsURL = "http://listings.test/events"
	client := NewClient(cfg)
	client.WithTransport(transport)
	return client
}

func TestFetchDocumentParsesBody(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://odds.test/ufc/odds",
		htmlResponder(`<html><body><h1>UFC Odds</h1></body></html>`))

	client := newTestClient(transport)
	doc, err := client.fetchDocument(context.Background(), "discovery", "http://odds.test/ufc/odds")
	if err != nil {
		t.Fatalf("fetch document: %v", err)
	}
	if got := doc.Find("h1").Text(); got != "UFC Odds" {
		t.Fatalf("h1 = %q, want %q", got, "UFC Odds")
	}
}

func TestFetchDocumentStatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{status: http.StatusTooManyRequests, expected: "rate_limited"},
		{status: http.StatusForbidden, expected: "forbidden"},
		{status: http.StatusNotFound, expected: "not_found"},
		{status: http.StatusInternalServerError, expected: "http_5xx"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			transport.RegisterResponder("GET", "http://odds.test/ufc/odds",
				httpmock.NewStringResponder(tt.status, ""))

			client := newTestClient(transport)
			_, err := client.fetchDocument(context.Background(), "discovery", "http://odds.test/ufc/odds")
			if err == nil {
				t.Fatalf("expected error for status %d", tt.status)
			}
			if got := errorTypeLabel(err); got != tt.expected {
				t.Fatalf("error label = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFetchDocumentConnectionError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://odds.test/ufc/odds",
		httpmock.NewErrorResponder(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}))

	client := newTestClient(transport)
	_, err := client.fetchDocument(context.Background(), "discovery", "http://odds.test/ufc/odds")
	if err == nil {
		t.Fatalf("expected connection error")
	}
	if got := errorTypeLabel(err); got != "connection" {
		t.Fatalf("error label = %q, want %q", got, "connection")
	}
}

func TestFetchDocumentCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(httpmock.NewMockTransport())
	if _, err := client.fetchDocument(ctx, "discovery", "http://odds.test/ufc/odds"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}
