// Package api contains clients for remote services
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/service"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/logger"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTreasuryBaseURL is the Fiscal Data API root
	DefaultTreasuryBaseURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service"
	exchangeRatePath       = "/v1/accounting/od/rates_of_exchange"

	defaultConnectTimeout = 5 * time.Second
	defaultReadTimeout    = 5 * time.Second

	// Bodies are a single row; anything larger than this is not a valid answer
	maxResponseBytes = 1 << 20
)

var (
	_ service.RateProvider  = (*TreasuryAPIClient)(nil)
	_ service.HealthChecker = (*TreasuryAPIClient)(nil)
)

// ClientConfig configures the Treasury API client. ReadTimeout bounds the wait
// for response headers once connected.
type ClientConfig struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// TreasuryAPIClient queries the Treasury "Rates of Exchange" dataset
type TreasuryAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewTreasuryAPIClient creates a new Treasury API client
func NewTreasuryAPIClient(cfg ClientConfig, log logger.Logger, m *metrics.Metrics) *TreasuryAPIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTreasuryBaseURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}

	return &TreasuryAPIClient{
		baseURL:    cfg.BaseURL,
		httpClient: newHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout),
		logger:     logger.OrDefault(log).WithField("component", "treasury_api"),
		metrics:    m,
	}
}

func newHTTPClient(connectTimeout, readTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout
	transport.ResponseHeaderTimeout = readTimeout

	return &http.Client{
		Transport: transport,
		// Hard ceiling covering a slow body after the headers arrived
		Timeout:   connectTimeout + readTimeout,
	}
}

// treasuryResponse is the subset of the Fiscal Data envelope we read. An
// absent "data" field and an empty array both decode to a nil/empty slice.
type treasuryResponse struct {
	Data []treasuryRate `json:"data"`
}

type treasuryRate struct {
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	RecordDate   string          `json:"record_date"`
}

// FetchLatestInRange retrieves the newest rate for currency with a record
// date in [start, end]. Transport errors, non-2xx responses and malformed
// payloads are logged and reported as nil.
func (c *TreasuryAPIClient) FetchLatestInRange(ctx context.Context, currency string, start, end time.Time) []entity.RateRecord {
	startedAt := time.Now()
	fields := map[string]interface{}{
		"currency":   currency,
		"start_date": start.Format(entity.DateLayout),
		"end_date":   end.Format(entity.DateLayout),
	}

	c.logger.Info("Calling Treasury API", fields)

	query := url.Values{}
	query.Set("fields", "exchange_rate,record_date")
	query.Set("filter", fmt.Sprintf("country_currency_desc:eq:%s,record_date:gte:%s,record_date:lte:%s",
		currency, start.Format(entity.DateLayout), end.Format(entity.DateLayout)))
	query.Set("sort", "-record_date")
	query.Set("page[size]", "1")

	var resp treasuryResponse
	if err := c.getJSON(ctx, query, &resp); err != nil {
		c.metrics.TreasuryRequest("error", time.Since(startedAt))
		c.logger.Error("Error calling Treasury API", withError(fields, err))
		return nil
	}

	records := make([]entity.RateRecord, 0, len(resp.Data))
	for _, row := range resp.Data {
		recordDate, err := entity.ParseDate(row.RecordDate)
		if err != nil {
			c.metrics.TreasuryRequest("error", time.Since(startedAt))
			c.logger.Error("Treasury API returned an unparsable record date", withError(fields, err))
			return nil
		}
		if !row.ExchangeRate.IsPositive() {
			c.metrics.TreasuryRequest("error", time.Since(startedAt))
			c.logger.Error("Treasury API returned a non-positive exchange rate", withError(fields,
				fmt.Errorf("invalid exchange rate value: %s", row.ExchangeRate.String())))
			return nil
		}
		records = append(records, entity.RateRecord{
			Rate:       row.ExchangeRate,
			RecordDate: recordDate,
		})
	}

	if len(records) == 0 {
		c.metrics.TreasuryRequest("empty", time.Since(startedAt))
		c.logger.Info("Treasury API returned no exchange rates", fields)
		return nil
	}

	c.metrics.TreasuryRequest("success", time.Since(startedAt))
	c.logger.Info("Successfully received exchange rates from Treasury API", map[string]interface{}{
		"currency":    currency,
		"records":     len(records),
		"record_date": records[0].RecordDate.Format(entity.DateLayout),
		"duration_ms": time.Since(startedAt).Milliseconds(),
	})

	return records
}

// Ping issues the cheapest possible query against the rates endpoint
func (c *TreasuryAPIClient) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("page[size]", "1")

	req, err := c.newRequest(ctx, query)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer c.closeBody(resp)

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("treasury API returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *TreasuryAPIClient) getJSON(ctx context.Context, query url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, query)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer c.closeBody(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API returned error status: %d, body: %s", resp.StatusCode, truncate(body, 512))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *TreasuryAPIClient) newRequest(ctx context.Context, query url.Values) (*http.Request, error) {
	reqURL := c.baseURL + exchangeRatePath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *TreasuryAPIClient) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Warn("Error closing response body", map[string]interface{}{"error": err.Error()})
	}
}

func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
