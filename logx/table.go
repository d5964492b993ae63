package logx

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// LeaderboardRow is one investor line in the final standings table.
type LeaderboardRow struct {
	Rank     int
	ID       int
	Strategy string
	Cash     float64
	Value    float64
	Holdings string
}

// NewTableWriter creates a tabwriter for custom output
func NewTableWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// PrintLeaderboard prints the investor standings as an aligned table.
func PrintLeaderboard(out io.Writer, initialCash float64, rows []LeaderboardRow) {
	w := NewTableWriter(out)
	fmt.Fprintf(w, "RANK\tID\tSTRATEGY\tCASH\tVALUE\tHOLDINGS\n")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%d\t%s\t%.2f\t%s\t%s\n",
			r.Rank, r.ID, r.Strategy, r.Cash, ValueColor(r.Value, initialCash), r.Holdings)
	}
	w.Flush()
}
