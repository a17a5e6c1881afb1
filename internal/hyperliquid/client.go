package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/0xRichardL/whale-tracker/internal/numbers"
)

const (
	positionTimeout = 10 * time.Second
	quoteTimeout    = 5 * time.Second
)

// Client talks to the Hyperliquid public info endpoint.
type Client struct {
	apiURL string
	http   *http.Client
	logger *log.Logger
}

func NewClient(apiURL string, logger *log.Logger) *Client {
	return &Client{
		apiURL: apiURL,
		http:   &http.Client{},
		logger: logger,
	}
}

// RawPosition mirrors the clearinghouseState position shape. All numeric
// fields arrive string-encoded; markPx may be absent entirely.
type RawPosition struct {
	Coin          string `json:"coin"`
	Szi           string `json:"szi"`
	EntryPx       string `json:"entryPx"`
	MarkPx        string `json:"markPx"`
	UnrealizedPnl string `json:"unrealizedPnl"`
}

type AssetPosition struct {
	Type     string      `json:"type"`
	Position RawPosition `json:"position"`
}

// ClearinghouseState is the slice of the account state the tracker consumes.
type ClearinghouseState struct {
	AssetPositions []AssetPosition `json:"assetPositions"`
	Time           int64           `json:"time"`
}

func (c *Client) post(ctx context.Context, timeout time.Duration, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", c.apiURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: unexpected status %d", c.apiURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// FetchClearinghouseState fetches the current account state for a user.
func (c *Client) FetchClearinghouseState(ctx context.Context, user string) (*ClearinghouseState, error) {
	payload := map[string]string{"type": "clearinghouseState", "user": user}
	var state ClearinghouseState
	if err := c.post(ctx, positionTimeout, payload, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// AllMids fetches the current mid price for every listed asset. Entries
// that fail to parse or are non-positive are dropped.
func (c *Client) AllMids(ctx context.Context) (map[string]float64, error) {
	payload := map[string]string{"type": "allMids"}
	var raw map[string]string
	if err := c.post(ctx, quoteTimeout, payload, &raw); err != nil {
		return nil, err
	}

	mids := make(map[string]float64, len(raw))
	for coin, v := range raw {
		px := numbers.FloatOrZero(v)
		if px > 0 {
			mids[coin] = px
		}
	}
	return mids, nil
}

// MidPrice is a best-effort quote lookup for a single coin. Any transport
// failure, missing key, or non-positive value reports absent, never an error.
func (c *Client) MidPrice(ctx context.Context, coin string) (float64, bool) {
	mids, err := c.AllMids(ctx)
	if err != nil {
		c.logger.Printf("mid price lookup for %s failed: %v", coin, err)
		return 0, false
	}
	px, ok := mids[coin]
	if !ok || px <= 0 {
		return 0, false
	}
	return px, true
}
