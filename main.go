package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"Doodler/internal/config"
	"Doodler/internal/logging"
	doodlenet "Doodler/internal/net"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "doodler [link]",
	Short: "Doodler records drawings and replays them",
	Long: `Doodler records freehand drawing as a compact event log that can be
replayed at the pace it was drawn, streamed live to viewers on the LAN,
or rendered to PNG and PDF.

Run without arguments to host a board. Pass a doodler:// share link to
watch someone else's board.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return hostCmd.RunE(cmd, args)
		}
		if strings.HasPrefix(args[0], doodlenet.Scheme+"://") {
			return viewCmd.RunE(cmd, args)
		}
		return fmt.Errorf("unknown argument %q, expected a %s:// link", args[0], doodlenet.Scheme)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "doodler.toml", "Path to the TOML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config")
}

// loadConfig reads the config named by --config and builds the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(level), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	Execute(ctx)
}
