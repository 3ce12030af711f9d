package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/techdesk/internal/events"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveMessage is sent to live dashboard sockets
type LiveMessage struct {
	Type  string        `json:"type"` // "snapshot" or "error"
	Data  interface{}   `json:"data,omitempty"`
	Event *events.Event `json:"event,omitempty"` // change that triggered the snapshot
}

// handleLiveStats streams a fresh snapshot on connect and after every bus event
func (s *Server) handleLiveStats(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	feed, unsubscribe, err := s.bus.Subscribe(ctx)
	if err != nil {
		slog.Error("failed to subscribe to events", "error", err)
		s.sendLive(conn, LiveMessage{Type: "error", Data: "live updates unavailable"})
		return
	}
	defer unsubscribe()

	slog.Info("live stats websocket connected", "remote_addr", r.RemoteAddr)

	// Reader: only pongs and close frames are expected
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	if err := s.pushSnapshot(ctx, conn, nil); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("live stats websocket disconnected", "remote_addr", r.RemoteAddr)
			return
		case e, ok := <-feed:
			if !ok {
				return
			}
			if err := s.pushSnapshot(ctx, conn, &e); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Debug("failed to ping websocket", "error", err)
				return
			}
		}
	}
}

func (s *Server) pushSnapshot(ctx context.Context, conn *websocket.Conn, trigger *events.Event) error {
	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		slog.Error("failed to compute live snapshot", "error", err)
		return s.sendLive(conn, LiveMessage{Type: "error", Data: "failed to compute snapshot", Event: trigger})
	}
	return s.sendLive(conn, LiveMessage{Type: "snapshot", Data: snap, Event: trigger})
}

func (s *Server) sendLive(conn *websocket.Conn, msg LiveMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal live message", "error", err)
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send live message", "error", err)
		return err
	}
	return nil
}
