// Package report renders activity statistics for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/naka-gawa/github-dow/internal/domain"
)

// Format selects how a report is written.
type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or table)", s)
	}
}

// Write renders stats to w in the given format.
func Write(w io.Writer, format Format, stats *domain.ActivityStats) error {
	if format == FormatTable {
		writeTable(w, stats)
		return nil
	}
	return writeJSON(w, stats)
}

// WriteDates renders a list of timestamps as a JSON array of RFC 3339 strings.
func WriteDates(w io.Writer, dates []time.Time) error {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(time.RFC3339))
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	// Marshal the results into a pretty-printed JSON string.
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTable(w io.Writer, stats *domain.ActivityStats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("GitHub activity for " + stats.User)
	t.AppendHeader(table.Row{"Statistic", "Value"})
	t.AppendRows([]table.Row{
		{"Repositories", stats.Repositories},
		{"Commits", stats.Commits},
		{"Most active weekday", orDash(stats.MostActiveWeekday)},
		{"Most active month", orDash(stats.MostActiveMonth)},
	})
	if stats.AverageCommitIntervalHours != nil {
		t.AppendRow(table.Row{"Commit interval in " + stats.Repository + " (h)", twoDecimals(*stats.AverageCommitIntervalHours)})
	}
	t.AppendRows([]table.Row{
		{"Open issues per repository", twoDecimals(stats.AverageOpenIssues)},
		{"Pull request open time (h)", twoDecimals(stats.AveragePullRequestOpenHours)},
		{"Collaborators per repository", twoDecimals(stats.AverageCollaborators)},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func twoDecimals(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
