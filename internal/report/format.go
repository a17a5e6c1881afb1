package report

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/0xRichardL/whale-tracker/internal/domain"
)

// maxPayloadRunes keeps every payload comfortably under Telegram's 4096
// character message limit.
const maxPayloadRunes = 4000

const explorerBaseURL = "https://www.coinglass.com/hyperliquid/"

var (
	heavyRule = strings.Repeat("=", 40)
	lightRule = strings.Repeat("-", 40)
)

// Format renders the aggregated reports into one or more HTML payloads for
// Telegram, splitting at whale-block boundaries when the combined message
// would exceed the payload budget.
func Format(reports []domain.WhaleReport, summary domain.Summary, generatedAt time.Time) []string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>🐋 WHALE POSITIONS REPORT 🐋</b>\n")
	fmt.Fprintf(&b, "<code>Generated: %s UTC</code>\n", generatedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "<code>%s</code>\n\n", heavyRule)

	for _, report := range reports {
		writeWhaleBlock(&b, report)
	}

	if summary.ActiveWhales == 0 {
		b.WriteString("<i>No active BTC/ETH/SOL positions found</i>\n")
	} else {
		fmt.Fprintf(&b, "<code>%s</code>\n", heavyRule)
		b.WriteString("<b>📈 SUMMARY</b>\n")
		fmt.Fprintf(&b, "Active Whales: %d/%d\n", summary.ActiveWhales, summary.TotalWhales)
		fmt.Fprintf(&b, "Total Positions: %d\n", summary.TotalPositions)
		fmt.Fprintf(&b, "Total Value: %s\n", FormatValue(summary.TotalValue))
	}

	message := b.String()
	if utf8.RuneCountInString(message) <= maxPayloadRunes {
		return []string{message}
	}
	return splitMessage(message)
}

func writeWhaleBlock(b *strings.Builder, report domain.WhaleReport) {
	whale := report.Whale
	fmt.Fprintf(b, "<b>📊 <a href='%s%s'>%s</a></b>\n",
		explorerBaseURL, whale.Address, html.EscapeString(whale.Name))
	fmt.Fprintf(b, "<code>Address: %s</code>\n", ShortenAddress(whale.Address))
	fmt.Fprintf(b, "<code>Total Value: %s</code>\n", FormatValue(report.TotalValue))
	fmt.Fprintf(b, "<code>%s</code>\n", lightRule)

	for _, pos := range report.Positions {
		fmt.Fprintf(b, "<b>%s %s</b> %s\n", pos.Coin, pos.Side, PnlEmoji(pos.PnlPct))
		fmt.Fprintf(b, "  Size: %s\n", FormatValue(pos.Value))
		fmt.Fprintf(b, "  Entry: %s\n", FormatPrice(pos.EntryPx))
		fmt.Fprintf(b, "  Mark: %s\n", FormatPrice(pos.MarkPx))

		sign := "+"
		if pos.PnlUSD < 0 {
			sign = "-"
		}
		fmt.Fprintf(b, "  P&L: <b>%s%s</b> (<b>%s%.2f%%</b>)\n\n",
			sign, FormatValue(math.Abs(pos.PnlUSD)), sign, math.Abs(pos.PnlPct))
	}

	b.WriteString("\n")
}

// splitMessage splits on the blank lines between whale blocks so no block
// ever spans a payload boundary.
func splitMessage(message string) []string {
	parts := strings.Split(message, "\n\n")

	var payloads []string
	var current string
	for _, part := range parts {
		if utf8.RuneCountInString(current)+utf8.RuneCountInString(part)+2 < maxPayloadRunes {
			if current != "" {
				current += "\n\n"
			}
			current += part
		} else {
			if current != "" {
				payloads = append(payloads, current)
			}
			current = part
		}
	}
	if current != "" {
		payloads = append(payloads, current)
	}
	return payloads
}

// FormatValue renders a USD notional: $X.XXM above a million, $XK above a
// thousand, whole dollars below that.
func FormatValue(value float64) string {
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("$%.2fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.0fK", value/1_000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

// FormatPrice renders a price with precision scaled to its magnitude, down
// to four decimals for sub-dollar assets.
func FormatPrice(price float64) string {
	switch {
	case price >= 1000:
		return "$" + humanize.FormatFloat("#,###.", price)
	case price >= 1:
		return "$" + humanize.FormatFloat("#,###.##", price)
	default:
		return fmt.Sprintf("$%.4f", price)
	}
}

// PnlEmoji maps a P&L percentage onto its tier indicator.
func PnlEmoji(pnlPct float64) string {
	switch {
	case pnlPct >= 50:
		return "🚀🚀🚀"
	case pnlPct >= 20:
		return "🚀🚀"
	case pnlPct >= 10:
		return "🚀"
	case pnlPct >= 5:
		return "📈"
	case pnlPct > 0:
		return "✅"
	case pnlPct == 0:
		return "➖"
	case pnlPct > -5:
		return "📉"
	case pnlPct > -10:
		return "⚠️"
	case pnlPct > -20:
		return "🔻"
	default:
		return "💀"
	}
}

// ShortenAddress truncates an address to first six / last four characters.
func ShortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
