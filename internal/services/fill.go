package services

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	hl "github.com/sonirico/go-hyperliquid"

	"github.com/0xRichardL/whale-tracker/internal/domain"
	"github.com/0xRichardL/whale-tracker/internal/numbers"
	"github.com/0xRichardL/whale-tracker/internal/report"
)

// NormalizeFill converts a Hyperliquid order fill into a FillAlert. Fills
// on non-whitelisted markets return nil and are dropped.
func NormalizeFill(whale domain.Whale, fill hl.WsOrderFill, receivedAt time.Time) *domain.FillAlert {
	if fill.Coin == "" {
		return nil
	}
	market := strings.ToUpper(fill.Coin)
	if !domain.Whitelisted(market) {
		return nil
	}

	price := numbers.FloatOrZero(fill.Px)
	startPosition := numbers.FloatOrZero(fill.StartPosition)
	size := numbers.FloatOrZero(fill.Sz)
	timestamp := fill.Time
	if timestamp == 0 && !receivedAt.IsZero() {
		timestamp = receivedAt.UnixMilli()
	}

	sideToken := strings.ToUpper(strings.TrimSpace(fill.Side))
	isBuy := sideToken == "B" || sideToken == "BUY"
	var newPosition float64
	if isBuy {
		newPosition = startPosition + size
	} else {
		newPosition = startPosition - size
	}

	prevSide := positionSideFromSize(startPosition)
	side := positionSideFromSize(newPosition)
	prevSize := math.Abs(startPosition)
	positionSize := math.Abs(newPosition)
	deltaSize := newPosition - startPosition

	sourceID := ""
	if fill.Hash != "" {
		sourceID = fill.Hash
	} else if fill.Tid != 0 {
		sourceID = fmt.Sprintf("tid:%d", fill.Tid)
	} else if fill.Oid != 0 {
		sourceID = fmt.Sprintf("oid:%d", fill.Oid)
	}
	if sourceID == "" {
		sourceID = fmt.Sprintf("fill:%s:%d", market, timestamp)
	}

	return &domain.FillAlert{
		Whale:       whale,
		Market:      market,
		Action:      deriveFillAction(prevSide, side, prevSize, positionSize),
		Side:        side,
		Size:        positionSize,
		DeltaSize:   deltaSize,
		Price:       price,
		TimestampMs: timestamp,
		SourceID:    sourceID,
	}
}

// deriveFillAction classifies on the change in exposure, not the signed
// delta, so long and short flows label symmetrically.
func deriveFillAction(prevSide, side domain.Side, prevSize, positionSize float64) domain.FillAction {
	switch {
	case prevSide == domain.SideFlat:
		return domain.FillActionOpen
	case positionSize == 0:
		return domain.FillActionClose
	case prevSide != side:
		return domain.FillActionFlip
	case positionSize > prevSize:
		return domain.FillActionIncrease
	default:
		return domain.FillActionDecrease
	}
}

func positionSideFromSize(size float64) domain.Side {
	switch {
	case size > 0:
		return domain.SideLong
	case size < 0:
		return domain.SideShort
	default:
		return domain.SideFlat
	}
}

// FormatFillAlert renders a fill alert as a short HTML chat message.
func FormatFillAlert(a *domain.FillAlert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚡ <b>%s</b> %s %s", html.EscapeString(a.Whale.Name), a.Action, a.Market)
	if a.Side != domain.SideFlat {
		fmt.Fprintf(&b, " %s", a.Side)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "<code>Position: %.5f @ %s</code>\n", a.Size, report.FormatPrice(a.Price))
	fmt.Fprintf(&b, "<code>Delta: %+.5f</code>", a.DeltaSize)
	return b.String()
}
