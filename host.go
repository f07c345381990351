package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"Doodler/internal/canvas"
	doodlenet "Doodler/internal/net"
	"Doodler/internal/ui"

	"github.com/hashicorp/mdns"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Open a board and stream it to viewers",
	Long: `Opens a drawing board and serves the live recording over WebSocket.
The share link shown in the status bar lets viewers on the LAN follow along.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		board := ui.NewBoardWidget(cfg.Canvas.Width, cfg.Canvas.Height)
		c := canvas.New(board,
			canvas.WithSize(cfg.Canvas.Width, cfg.Canvas.Height),
			canvas.WithInterval(cfg.Canvas.Interval.Duration()),
			canvas.WithLogger(log),
		)
		defer c.Close()

		hub := doodlenet.NewHub(doodlenet.WithLogger(log))
		c.OnEvent = hub.Publish
		c.OnReset = hub.Reset
		c.OnErase = hub.Erase

		ln, err := net.Listen("tcp", cfg.Addr())
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		port := ln.Addr().(*net.TCPAddr).Port
		srv := &http.Server{Handler: hub.Handler()}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("stream server stopped", "error", err)
			}
		}()
		log.Info("host server listening", "addr", ln.Addr().String())

		var advert *mdns.Server
		if cfg.Server.Advertise {
			advert, err = doodlenet.Advertise(port, log)
			if err != nil {
				// Viewers can still connect with the link.
				log.Warn("mdns advertisement failed", "error", err)
			}
		}

		ip, err := doodlenet.GetOutgoingIP()
		if err != nil {
			ip = "127.0.0.1"
		}
		link := doodlenet.ShareLink(ip, port)
		log.Info("share link", "link", link)

		win := ui.NewWindow(board, c, ui.Options{
			Title:   "Doodler (host)",
			Width:   cfg.Canvas.Width,
			Height:  cfg.Canvas.Height,
			Palette: cfg.Canvas.Palette,
			Logger:  log,
		})
		win.SetStatus("Share link: " + link)
		go func() {
			<-cmd.Context().Done()
			win.Quit()
		}()
		win.ShowAndRun()

		if advert != nil {
			if err := advert.Shutdown(); err != nil {
				log.Warn("mdns shutdown", "error", err)
			}
		}
		hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		log.Info("host stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hostCmd)
}
