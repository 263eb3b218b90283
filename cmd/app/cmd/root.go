package cmd

import (
	"fmt"

	"FxSignals/pkg/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fxsignals",
	Short: "Forex RSI/SMA signal server and polling dashboard",
	Long: `fxsignals polls recent candles for a fixed set of currency pairs, computes
RSI(14), SMA(20) and SMA(50), and serves ranked Call/Put signals at /api/signals.

The watch command is the matching client: it polls the endpoint and keeps
the latest signal per pair on screen.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "config file path (missing file means defaults + env)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}
