package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xRichardL/whale-tracker/internal/domain"
)

func TestAggregatePreservesConfigurationOrder(t *testing.T) {
	whales := []domain.Whale{
		{Address: "0xaaa", Name: "Alpha"},
		{Address: "0xbbb", Name: "Beta"},
		{Address: "0xccc", Name: "Gamma"},
	}

	byAddress := map[string][]domain.Position{
		"0xaaa": {{Coin: "BTC", Side: domain.SideLong, Size: 1, Value: 100}},
		"0xbbb": {{Coin: "ETH", Side: domain.SideShort, Size: 2, Value: 200}},
		"0xccc": {{Coin: "SOL", Side: domain.SideLong, Size: 3, Value: 300}},
	}
	fetch := func(ctx context.Context, w domain.Whale) []domain.Position {
		return byAddress[w.Address]
	}

	reports, summary := Aggregate(context.Background(), whales, fetch)
	require.Len(t, reports, 3)
	assert.Equal(t, "Alpha", reports[0].Whale.Name)
	assert.Equal(t, "Beta", reports[1].Whale.Name)
	assert.Equal(t, "Gamma", reports[2].Whale.Name)
	assert.Equal(t, 3, summary.ActiveWhales)
}

func TestAggregateOmitsEmptyWhales(t *testing.T) {
	whales := []domain.Whale{
		{Address: "0xaaa", Name: "Alpha"},
		{Address: "0xbbb", Name: "Beta"},
	}
	fetch := func(ctx context.Context, w domain.Whale) []domain.Position {
		if w.Address == "0xbbb" {
			return nil
		}
		return []domain.Position{{Coin: "BTC", Value: 100}}
	}

	reports, summary := Aggregate(context.Background(), whales, fetch)
	require.Len(t, reports, 1)
	assert.Equal(t, "Alpha", reports[0].Whale.Name)
	assert.Equal(t, 1, summary.ActiveWhales)
	assert.Equal(t, 2, summary.TotalWhales)
}

func TestAggregateTotals(t *testing.T) {
	whales := []domain.Whale{
		{Address: "0xaaa", Name: "Alpha"},
		{Address: "0xbbb", Name: "Beta"},
	}
	fetch := func(ctx context.Context, w domain.Whale) []domain.Position {
		if w.Address == "0xaaa" {
			return []domain.Position{
				{Coin: "BTC", Value: 123456.78},
				{Coin: "ETH", Value: 9876.54},
			}
		}
		return []domain.Position{{Coin: "SOL", Value: 1111.11}}
	}

	reports, summary := Aggregate(context.Background(), whales, fetch)
	require.Len(t, reports, 2)

	assert.InDelta(t, 133333.32, reports[0].TotalValue, 1e-6)
	assert.InDelta(t, 1111.11, reports[1].TotalValue, 1e-6)
	assert.Equal(t, 3, summary.TotalPositions)

	var want float64
	for _, r := range reports {
		for _, p := range r.Positions {
			want += p.Value
		}
	}
	assert.InDelta(t, want, summary.TotalValue, 1e-6)
}

func TestAggregateNoWhales(t *testing.T) {
	reports, summary := Aggregate(context.Background(), nil, func(context.Context, domain.Whale) []domain.Position {
		t.Fatal("fetch must not be called")
		return nil
	})
	assert.Empty(t, reports)
	assert.Equal(t, domain.Summary{}, summary)
}
