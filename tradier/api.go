package tradier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xhhuango/json"
)

const DefaultBaseURL = "https://api.tradier.com/v1"

var (
	ErrNoQuote   = errors.New("tradier returned no quote")
	ErrNoHistory = errors.New("tradier returned no price history")
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a client for the Tradier market data API. An empty baseURL
// selects the production endpoint.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// GetQuoteHistory fetches OHLC bars for symbol between start and end
// inclusive. interval is daily, weekly or monthly.
func (c *Client) GetQuoteHistory(ctx context.Context, symbol string, start, end time.Time, interval string) (*QuoteHistory, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("start", start.Format("2006-01-02"))
	params.Set("end", end.Format("2006-01-02"))
	params.Set("session_filter", "all")

	history := &QuoteHistory{}
	if err := c.get(ctx, "/markets/history", params, history); err != nil {
		return nil, fmt.Errorf("get quote history for %s: %w", symbol, err)
	}
	if len(history.Days()) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoHistory, symbol)
	}
	return history, nil
}

func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	params := url.Values{}
	params.Set("symbols", symbol)

	resp := &quotesResponse{}
	if err := c.get(ctx, "/markets/quotes", params, resp); err != nil {
		return nil, fmt.Errorf("get quote for %s: %w", symbol, err)
	}
	if resp.Quotes.Quote == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoQuote, symbol)
	}
	return resp.Quotes.Quote, nil
}

// GetLastPrice returns the last trade price, falling back to the previous
// close outside trading hours.
func (c *Client) GetLastPrice(ctx context.Context, symbol string) (float64, error) {
	quote, err := c.GetQuote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if quote.Last > 0 {
		return quote.Last, nil
	}
	if quote.PrevClose > 0 {
		return quote.PrevClose, nil
	}
	return 0, fmt.Errorf("%w: %s has no last or previous close", ErrNoQuote, symbol)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response data: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}
