// Package instantly is a client for the Instantly v2 REST API covering
// the endpoints the reporter reads: campaigns, campaign daily analytics,
// accounts, account daily analytics, emails and inbox-placement tests.
package instantly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/luxvance/instantly-reporter/internal/config"
	"github.com/luxvance/instantly-reporter/internal/pkg/httpretry"
)

// Client is the Instantly API client.
type Client struct {
	baseURL    string
	apiKey     string
	maxPages   int
	httpClient httpretry.HTTPDoer
}

// NewClient creates a new Instantly API client.
func NewClient(cfg config.InstantlyConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		maxPages: cfg.MaxPages,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL = reqURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("instantly API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// ListCampaigns retrieves all campaigns, draining the paginated endpoint.
func (c *Client) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	params := url.Values{}
	params.Set("limit", "100")
	return FetchAllPaginated[Campaign](ctx, c, "/campaigns", params, c.maxPages)
}

// ListAccounts retrieves the full account roster, draining the paginated endpoint.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	params := url.Values{}
	params.Set("limit", "100")
	return FetchAllPaginated[Account](ctx, c, "/accounts", params, c.maxPages)
}

// GetCampaignDailyAnalytics fetches per-day performance for one campaign
// over the given date range. The response is a flat array, not paginated.
func (c *Client) GetCampaignDailyAnalytics(ctx context.Context, campaignID string, from, to time.Time) ([]DailyStat, error) {
	params := url.Values{}
	params.Set("campaign_id", campaignID)
	params.Set("start_date", from.Format("2006-01-02"))
	params.Set("end_date", to.Format("2006-01-02"))

	var stats []DailyStat
	if err := c.get(ctx, "/campaigns/analytics/daily", params, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetAccountDailyAnalytics fetches per-account daily send counts over the
// given date range, across all accounts.
func (c *Client) GetAccountDailyAnalytics(ctx context.Context, from, to time.Time) ([]AccountDailyStat, error) {
	params := url.Values{}
	params.Set("start_date", from.Format("2006-01-02"))
	params.Set("end_date", to.Format("2006-01-02"))

	var stats []AccountDailyStat
	if err := c.get(ctx, "/accounts/analytics/daily", params, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetEmails fetches recent email events for a campaign.
func (c *Client) GetEmails(ctx context.Context, campaignID string, limit int) ([]Email, error) {
	params := url.Values{}
	params.Set("campaign_id", campaignID)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var page struct {
		Items []Email `json:"items"`
	}
	if err := c.get(ctx, "/emails", params, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetInboxPlacementTest fetches the raw payload of an inbox-placement
// test. The shape varies while a test is running, so decoding is left to
// the placement analyzer.
func (c *Client) GetInboxPlacementTest(ctx context.Context, testID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/inbox-placement-tests/"+testID, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
