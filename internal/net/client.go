package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
)

// Scheme is the URL scheme of share links.
const Scheme = "doodler"

// ErrShareLink is returned for links that do not name a doodler host.
var ErrShareLink = errors.New("invalid share link")

// Target is what a viewer applies the stream to. *canvas.Canvas implements
// it.
type Target interface {
	LoadRecording(doc string) error
	Redraw() error
	Apply(token string) error
	Erase() error
}

// ShareLink builds the link a host hands to viewers.
func ShareLink(host string, port int) string {
	return Scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// ParseShareLink returns the websocket URL for a share link. A bare
// host:port is accepted too.
func ParseShareLink(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil || u.Scheme != Scheme {
		u, err = url.Parse(Scheme + "://" + link)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrShareLink, link)
		}
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil || host == "" {
		return "", fmt.Errorf("%w: %q", ErrShareLink, link)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("%w: bad port in %q", ErrShareLink, link)
	}
	return (&url.URL{Scheme: "ws", Host: u.Host, Path: "/ws"}).String(), nil
}

// Follow connects to a host's stream and mirrors it onto target until ctx is
// done or the host closes the stream.
func Follow(ctx context.Context, wsURL string, target Target, log *slog.Logger) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Info("following host", "url", wsURL)
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("stream ended", "url", wsURL)
				return nil
			}
			return fmt.Errorf("read stream: %w", err)
		}
		if err := apply(target, msg); err != nil {
			return fmt.Errorf("apply %s message: %w", msg.Type, err)
		}
	}
}

func apply(target Target, msg Message) error {
	switch msg.Type {
	case MessageSnapshot, MessageReset:
		if err := target.LoadRecording(msg.Data); err != nil {
			return err
		}
		if err := target.Erase(); err != nil {
			return err
		}
		return target.Redraw()
	case MessageEvent:
		return target.Apply(msg.Data)
	case MessageErase:
		return target.Erase()
	}
	return fmt.Errorf("unknown message type %q", msg.Type)
}
