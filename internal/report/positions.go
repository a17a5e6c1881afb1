package report

import (
	"sort"

	"github.com/0xRichardL/whale-tracker/internal/domain"
	"github.com/0xRichardL/whale-tracker/internal/hyperliquid"
	"github.com/0xRichardL/whale-tracker/internal/numbers"
)

// Normalize turns a clearinghouse state into position records: whitelisted
// coins only, zero-size entries dropped, side from the sign of szi, sorted
// by notional value descending. mids is an optional mid-price map used when
// the payload carries no usable markPx; entry price is the final fallback.
func Normalize(state *hyperliquid.ClearinghouseState, mids map[string]float64) []domain.Position {
	if state == nil {
		return nil
	}

	positions := make([]domain.Position, 0, len(state.AssetPositions))
	for _, ap := range state.AssetPositions {
		raw := ap.Position
		if !domain.Whitelisted(raw.Coin) {
			continue
		}

		szi := numbers.FloatOrZero(raw.Szi)
		if szi == 0 {
			continue
		}

		entryPx := numbers.FloatOrZero(raw.EntryPx)
		markPx := numbers.FloatOrZero(raw.MarkPx)
		if markPx <= 0 {
			markPx = mids[raw.Coin]
		}
		if markPx <= 0 {
			markPx = entryPx
		}

		side := domain.SideLong
		if szi < 0 {
			side = domain.SideShort
			szi = -szi
		}

		var pnlPct float64
		if entryPx > 0 {
			if side == domain.SideLong {
				pnlPct = (markPx - entryPx) / entryPx * 100
			} else {
				pnlPct = (entryPx - markPx) / entryPx * 100
			}
		}

		positions = append(positions, domain.Position{
			Coin:    raw.Coin,
			Side:    side,
			Size:    szi,
			Value:   szi * markPx,
			EntryPx: entryPx,
			MarkPx:  markPx,
			PnlUSD:  numbers.FloatOrZero(raw.UnrealizedPnl),
			PnlPct:  pnlPct,
		})
	}

	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].Value > positions[j].Value
	})
	return positions
}
