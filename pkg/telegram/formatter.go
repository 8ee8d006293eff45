package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-metal-scryper/internal/dto"
)

// FormatNewsFetchResult formats a news fetch summary as a Markdown message.
func FormatNewsFetchResult(result *dto.NewsFetchResult) string {
	var b strings.Builder

	if result.Success {
		b.WriteString("📰 *Metal News Fetch Completed*\n\n")
	} else {
		b.WriteString("⚠️ *Metal News Fetch Failed*\n\n")
	}
	b.WriteString(fmt.Sprintf("💬 %s\n", result.Message))
	b.WriteString(fmt.Sprintf("✅ *Inserted:* %d\n", result.Inserted))
	b.WriteString(fmt.Sprintf("⏭ *Skipped:* %d\n", result.Skipped))
	b.WriteString(fmt.Sprintf("📦 *Total fetched:* %d\n", result.TotalFetched))

	return b.String()
}

// FormatNewsFetchFailure formats a terminal scheduled-run failure.
func FormatNewsFetchFailure(err error, attempts int) string {
	var b strings.Builder
	b.WriteString("🚨 *Scheduled Metal News Fetch Failed*\n\n")
	b.WriteString(fmt.Sprintf("🔁 *Attempts:* %d\n", attempts))
	b.WriteString(fmt.Sprintf("❌ *Error:* %s\n", err.Error()))
	return b.String()
}

// FormatPriceFetchResult formats a price fetch summary as a Markdown message.
func FormatPriceFetchResult(result *dto.PriceFetchResult) string {
	var b strings.Builder

	b.WriteString("🪙 *Metal Prices Fetch Completed*\n\n")
	b.WriteString(fmt.Sprintf("💬 %s\n", result.Message))
	b.WriteString(fmt.Sprintf("✅ *Inserted:* %d\n", result.Inserted))
	b.WriteString(fmt.Sprintf("🕐 *Batch:* %s\n", result.FetchedAt.UTC().Format(time.RFC3339)))

	if len(result.Prices) > 0 {
		b.WriteString("\n")
		for _, p := range result.Prices {
			b.WriteString(fmt.Sprintf("• *%s*: chart %s, history %d points\n",
				p.Symbol, p.ChartIndicator.String(), p.PriceHistoryCount))
		}
	}

	return b.String()
}
