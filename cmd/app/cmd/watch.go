package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"FxSignals/internal/dashboard"
	"FxSignals/internal/di"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the signal API and display the latest signal per pair",
	Long: `Poll GET /api/signals every dashboard.poll_interval and merge each batch
into a table keyed by pair. Pairs missing from a batch keep their last signal.

Example:
  fxsignals watch --url http://localhost:5000`,
	RunE: runWatch,
}

var (
	watchURL   string
	watchClear bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchURL, "url", "", "signal server base URL (overrides config)")
	watchCmd.Flags().BoolVar(&watchClear, "clear", true, "clear the terminal before each redraw")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchURL != "" {
		cfg.Dashboard.URL = watchURL
	}
	// keep log lines off the table
	if cfg.Log.Output == "" || cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	draw := func(s dashboard.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		redraw(out, s, watchClear)
	}

	r, err := di.InitializeDashboard(cfg, draw)
	if err != nil {
		return fmt.Errorf("dashboard initialization failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	r.Stop()
	<-r.Done()
	return nil
}

func redraw(w io.Writer, s dashboard.Snapshot, clear bool) {
	if clear {
		fmt.Fprint(w, "\033[H\033[2J")
	}
	_ = dashboard.Render(w, s)
}
