package report

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/0xRichardL/whale-tracker/internal/domain"
)

// FetchFunc fetches the qualifying positions for one whale. Implementations
// must degrade to an empty slice on upstream failure rather than erroring;
// one whale's outage must not abort the batch.
type FetchFunc func(ctx context.Context, whale domain.Whale) []domain.Position

// Aggregate fans the fetch out over all configured whales and folds the
// results. Fetches run concurrently but the output keeps configuration
// order; whales with no qualifying positions are omitted from the reports
// yet still counted in Summary.TotalWhales.
func Aggregate(ctx context.Context, whales []domain.Whale, fetch FetchFunc) ([]domain.WhaleReport, domain.Summary) {
	results := make([][]domain.Position, len(whales))

	g, gctx := errgroup.WithContext(ctx)
	for i, whale := range whales {
		g.Go(func() error {
			results[i] = fetch(gctx, whale)
			return nil
		})
	}
	// Fetchers never error; Wait only joins the goroutines.
	_ = g.Wait()

	reports := make([]domain.WhaleReport, 0, len(whales))
	summary := domain.Summary{TotalWhales: len(whales)}

	for i, whale := range whales {
		positions := results[i]
		if len(positions) == 0 {
			continue
		}

		var total float64
		for _, p := range positions {
			total += p.Value
		}

		reports = append(reports, domain.WhaleReport{
			Whale:      whale,
			Positions:  positions,
			TotalValue: total,
		})

		summary.ActiveWhales++
		summary.TotalPositions += len(positions)
		summary.TotalValue += total
	}

	return reports, summary
}
