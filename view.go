package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Doodler/internal/canvas"
	doodlenet "Doodler/internal/net"
	"Doodler/internal/ui"

	"github.com/spf13/cobra"
)

var errNoStreams = errors.New("no streams found on the local network")

var viewCmd = &cobra.Command{
	Use:   "view [link]",
	Short: "Watch a host's board",
	Long: `Connects to a host and mirrors its board as it is drawn. Without a link,
the first stream advertised on the LAN is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var link string
		if len(args) > 0 {
			link = args[0]
		} else {
			timeout, _ := cmd.Flags().GetDuration("browse-timeout")
			link, err = discover(cmd.Context(), timeout)
			if err != nil {
				return err
			}
			log.Info("found stream", "addr", link)
		}
		wsURL, err := doodlenet.ParseShareLink(link)
		if err != nil {
			return err
		}

		board := ui.NewBoardWidget(cfg.Canvas.Width, cfg.Canvas.Height)
		c := canvas.New(board,
			canvas.WithSize(cfg.Canvas.Width, cfg.Canvas.Height),
			canvas.WithInterval(cfg.Canvas.Interval.Duration()),
			canvas.ReadOnly(),
			canvas.WithLogger(log),
		)
		defer c.Close()

		win := ui.NewWindow(board, c, ui.Options{
			Title:    "Doodler (viewer)",
			Width:    cfg.Canvas.Width,
			Height:   cfg.Canvas.Height,
			Logger:   log,
			ReadOnly: true,
		})

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			win.SetStatus("Connecting to " + link)
			err := doodlenet.Follow(ctx, wsURL, c, log)
			switch {
			case ctx.Err() != nil:
				win.Quit()
			case err != nil:
				log.Error("stream lost", "error", err)
				win.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
			default:
				win.SetStatus("Host ended the stream")
			}
		}()
		win.ShowAndRun()
		return nil
	},
}

// discover returns the address of the first advertised stream.
func discover(ctx context.Context, timeout time.Duration) (string, error) {
	found, err := doodlenet.Browse(ctx, timeout)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", errNoStreams
	}
	return found[0], nil
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().Duration("browse-timeout", 3*time.Second, "How long to look for streams when no link is given")
}
