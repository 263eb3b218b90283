package dashboard

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"FxSignals/internal/domain/models"
	"FxSignals/pkg/util"
)

// Render writes a snapshot as a plain text table.
func Render(w io.Writer, s Snapshot) error {
	switch {
	case s.IsLoading:
		_, err := fmt.Fprintln(w, "Loading signals...")
		return err
	case s.LastFetchTime != "":
		status := "Last updated: " + s.LastFetchTime
		if s.IsRefreshing {
			status += " (refreshing)"
		}
		if _, err := fmt.Fprintln(w, status); err != nil {
			return err
		}
	case s.IsRefreshing:
		if _, err := fmt.Fprintln(w, "Refreshing..."); err != nil {
			return err
		}
	}

	if len(s.Signals) == 0 {
		_, err := fmt.Fprintln(w, "No signals available.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PAIR\tSIGNAL\tCONFIDENCE\tREASON\tTIME")
	for _, rec := range s.Signals {
		reason := rec.Reason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d%%\t%s\t%s\n", rec.Pair, rec.Signal, rec.Confidence, reason, candleTime(rec, s.Location))
	}
	return tw.Flush()
}

// candleTime renders TimeUTC in the display zone, falling back to the server's rendering.
func candleTime(rec models.SignalRecord, loc *time.Location) string {
	t, ok := util.ParseTime(rec.TimeUTC)
	if !ok {
		return rec.Time
	}
	return util.FormatIn(t, loc, util.LayoutEnIN)
}
