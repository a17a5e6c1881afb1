package domain

// Whale is a tracked Hyperliquid address with a display name for reports.
type Whale struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Side of an open position, derived from the sign of the raw signed size.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
	// SideFlat marks a closed position in fill alerts; report positions
	// are never flat.
	SideFlat Side = "FLAT"
)

// whitelist is the fixed set of coins the tracker reports on.
var whitelist = map[string]struct{}{
	"BTC": {},
	"ETH": {},
	"SOL": {},
}

// Whitelisted reports whether a coin is one of the tracked markets.
func Whitelisted(coin string) bool {
	_, ok := whitelist[coin]
	return ok
}

// Position is a normalized open position for a single whitelisted coin.
// Value is |size| x mark price. PnlUSD comes straight from the upstream
// unrealizedPnl field; PnlPct is derived from the entry/mark delta.
type Position struct {
	Coin    string
	Side    Side
	Size    float64
	Value   float64
	EntryPx float64
	MarkPx  float64
	PnlUSD  float64
	PnlPct  float64
}

// WhaleReport holds one whale's qualifying positions, sorted by Value
// descending, together with their total notional value.
type WhaleReport struct {
	Whale      Whale
	Positions  []Position
	TotalValue float64
}

// Summary is the fold over all whale reports. TotalWhales counts every
// configured whale, ActiveWhales only those with at least one position.
type Summary struct {
	ActiveWhales   int
	TotalWhales    int
	TotalPositions int
	TotalValue     float64
}

// FillAction classifies what a fill did to the whale's position.
type FillAction string

const (
	FillActionOpen     FillAction = "OPEN"
	FillActionClose    FillAction = "CLOSE"
	FillActionIncrease FillAction = "INCREASE"
	FillActionDecrease FillAction = "DECREASE"
	FillActionFlip     FillAction = "FLIP"
)

// FillAlert is a normalized order fill observed on a watched whale,
// pushed to the chat and optionally onto the alert bus.
type FillAlert struct {
	Whale       Whale      `json:"whale"`
	Market      string     `json:"market"`
	Action      FillAction `json:"action"`
	Side        Side       `json:"side"`
	Size        float64    `json:"size"`
	DeltaSize   float64    `json:"deltaSize"`
	Price       float64    `json:"price"`
	TimestampMs int64      `json:"timestampMs"`
	SourceID    string     `json:"sourceEventId"`
}
