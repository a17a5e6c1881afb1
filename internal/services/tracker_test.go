package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xRichardL/whale-tracker/internal/config"
	"github.com/0xRichardL/whale-tracker/internal/domain"
	"github.com/0xRichardL/whale-tracker/internal/hyperliquid"
)

// upstream fakes the Hyperliquid info endpoint: one healthy whale, one
// whose requests always fail.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch body["type"] {
		case "allMids":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"BTC": "95000", "ETH": "3000", "SOL": "150",
			})
		case "clearinghouseState":
			if body["user"] == "0xbroken" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"assetPositions": []map[string]any{
					{
						"type": "oneWay",
						"position": map[string]any{
							"coin":          "BTC",
							"szi":           "2",
							"entryPx":       "90000",
							"markPx":        "95000",
							"unrealizedPnl": "10000",
						},
					},
					{
						"type": "oneWay",
						"position": map[string]any{
							"coin":          "DOGE",
							"szi":           "100000",
							"entryPx":       "0.1",
							"markPx":        "0.2",
							"unrealizedPnl": "10000",
						},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestBuildReportDegradesPerWhale(t *testing.T) {
	srv := upstream(t)
	defer srv.Close()

	logger := log.New(os.Stdout, "test ", log.LstdFlags)
	cfg := config.Config{
		Whales: []domain.Whale{
			{Address: "0xhealthy", Name: "Healthy"},
			{Address: "0xbroken", Name: "Broken"},
		},
	}
	client := hyperliquid.NewClient(srv.URL, logger)
	tracker := NewTrackerService(cfg, client, nil, nil, logger)

	payloads := tracker.BuildReport(context.Background())
	require.Len(t, payloads, 1)
	msg := payloads[0]

	// The healthy whale is reported with its whitelisted position only.
	assert.Contains(t, msg, "Healthy")
	assert.Contains(t, msg, "<b>BTC LONG</b>")
	assert.NotContains(t, msg, "DOGE")

	// The broken whale is silently omitted but still counted.
	assert.NotContains(t, msg, "Broken")
	assert.Contains(t, msg, "Active Whales: 1/2")
	assert.Contains(t, msg, "Total Value: $190K")
}

func TestStartupMessageCountsConfiguredWhales(t *testing.T) {
	logger := log.New(os.Stdout, "test ", log.LstdFlags)
	cfg := config.Config{
		Whales: []domain.Whale{
			{Address: "0xaaa", Name: "Alpha"},
			{Address: "0xbbb", Name: "Beta"},
		},
	}
	tracker := NewTrackerService(cfg, nil, nil, nil, logger)

	assert.Contains(t, tracker.startupMessage(), "Tracking <b>2</b> whale(s)")
}

func TestWhalesWithoutStoreUsesConfigOrder(t *testing.T) {
	logger := log.New(os.Stdout, "test ", log.LstdFlags)
	cfg := config.Config{
		Whales: []domain.Whale{
			{Address: "0xaaa", Name: "Alpha"},
			{Address: "0xbbb", Name: "Beta"},
		},
	}
	tracker := NewTrackerService(cfg, nil, nil, nil, logger)

	whales := tracker.Whales(context.Background())
	require.Len(t, whales, 2)
	assert.Equal(t, "Alpha", whales[0].Name)
	assert.Equal(t, "Beta", whales[1].Name)
}
