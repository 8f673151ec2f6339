package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"pc-recommender/domain"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

func formatPrice(price float64) string {
	return formatDecimal(decimal.NewFromFloat(price))
}

func formatDecimal(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// configurationTable renders builds with their 1-based position so users
// can refer to them in follow-up commands.
func configurationTable(items []domain.PCConfiguration) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "ID", "NAME", "PRICE", "CONFIDENCE", "PERFORMANCE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for i, item := range items {
		perf := "-"
		if p := item.OverallPerformance(); p > 0 {
			perf = strconv.FormatFloat(p, 'f', -1, 64)
		}
		t.Row(
			strconv.Itoa(i+1),
			item.ConfigurationID,
			item.Name,
			formatPrice(item.TotalPrice),
			strconv.FormatFloat(item.ConfidenceScore, 'f', -1, 64)+"%",
			perf,
		)
	}
	return t.String()
}

func printConfigurations(w io.Writer, items []domain.PCConfiguration) {
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No PCs to show."))
		return
	}
	fmt.Fprintln(w, configurationTable(items))
}

func printStats(w io.Writer, stats domain.ComparisonStats) {
	fmt.Fprintf(w, "PCs in comparison: %d\n", stats.Count)
	if stats.Count == 0 {
		return
	}
	if pr := stats.PriceRange; pr != nil {
		fmt.Fprintf(w, "Price range: %s - %s (difference %s)\n",
			formatDecimal(pr.Min.Decimal), formatDecimal(pr.Max.Decimal), formatDecimal(pr.Difference.Decimal))
	}
	fmt.Fprintf(w, "Average confidence: %d%%\n", stats.AvgConfidence)
	if bv := stats.BestValue; bv != nil {
		fmt.Fprintf(w, "Best value: %s (%s) at %s\n", bv.Name, bv.ConfigurationID, formatPrice(bv.TotalPrice))
	}
}

func printSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render(message))
}

// printJSON pretty-prints v. Raw JSON from the API is re-indented.
func printJSON(w io.Writer, v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			v = decoded
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
