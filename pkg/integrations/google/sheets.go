package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/cardstage/pkg/cache"
	"github.com/matzehuels/cardstage/pkg/integrations"
)

const (
	// DefaultSheetsURL is the Sheets API base URL.
	DefaultSheetsURL = "https://sheets.googleapis.com"

	// DefaultSheet and DefaultRange locate the card rows: six columns,
	// starting below the header row.
	DefaultSheet = "Data_Template"
	DefaultRange = DefaultSheet + "!A2:F"
)

// ValueRange is the payload of spreadsheets.values.get.
type ValueRange struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

// SheetsClient reads cell values from Google Sheets.
type SheetsClient struct {
	*integrations.Client
	baseURL string
	apiKey  string
}

// SheetsOption configures a SheetsClient.
type SheetsOption func(*sheetsOptions)

type sheetsOptions struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	baseURL string
	apiKey  string
}

// WithHTTPClient sets the client used for requests, normally one from
// [OAuthClient.HTTPClient].
func WithHTTPClient(h *http.Client) SheetsOption {
	return func(o *sheetsOptions) { o.http = h }
}

// WithCache stores responses in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) SheetsOption {
	return func(o *sheetsOptions) { o.cache, o.ttl = c, ttl }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) SheetsOption {
	return func(o *sheetsOptions) { o.baseURL = u }
}

// WithAPIKey adds an API key to every request.
func WithAPIKey(key string) SheetsOption {
	return func(o *sheetsOptions) { o.apiKey = key }
}

// NewSheetsClient creates a Sheets client.
func NewSheetsClient(opts ...SheetsOption) *SheetsClient {
	o := sheetsOptions{baseURL: DefaultSheetsURL, ttl: cache.TTLRows}
	for _, opt := range opts {
		opt(&o)
	}

	c := integrations.NewClient(o.cache, "sheets:", o.ttl, map[string]string{"Accept": "application/json"})
	c.SetHTTPClient(o.http)

	return &SheetsClient{Client: c, baseURL: o.baseURL, apiKey: o.apiKey}
}

// Values returns the cells of rng in spreadsheetID, row by row.
// If refresh is true, cached data is bypassed.
func (c *SheetsClient) Values(ctx context.Context, spreadsheetID, rng string, refresh bool) (*ValueRange, error) {
	if rng == "" {
		rng = DefaultRange
	}
	key := spreadsheetID + "/" + rng

	var vr ValueRange
	err := c.Cached(ctx, key, refresh, &vr, func() error {
		return c.Get(ctx, c.valuesURL(spreadsheetID, rng), &vr)
	})
	if err != nil {
		return nil, fmt.Errorf("sheets values %s: %w", rng, err)
	}
	return &vr, nil
}

func (c *SheetsClient) valuesURL(spreadsheetID, rng string) string {
	q := url.Values{
		"majorDimension":    {"ROWS"},
		"valueRenderOption": {"FORMATTED_VALUE"},
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	return fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?%s",
		c.baseURL, integrations.URLEncode(spreadsheetID), integrations.URLEncode(rng), q.Encode())
}
