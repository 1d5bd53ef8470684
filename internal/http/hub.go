package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/olahol/melody"

	applog "smartfinance/internal/log"
)

const changeMessageType = "records.changed"

type changeMessage struct {
	Type    string `json:"type"`
	Version uint64 `json:"version"`
}

// Hub pushes record-set changes to websocket clients so open views can
// refetch. Each client gets the current version right after connecting.
type Hub struct {
	m       *melody.Melody
	version func() uint64
	logger  *applog.Logger
}

func NewHub(version func() uint64, logger *applog.Logger) *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 512
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &Hub{m: m, version: version, logger: logger.WithComponent(applog.ComponentWebSocket)}

	m.HandleConnect(func(s *melody.Session) {
		h.logger.Debug("Client connected", applog.FieldSessionCount, m.Len())
		if msg, err := encodeChange(h.version()); err == nil {
			_ = s.Write(msg)
		}
	})
	m.HandleDisconnect(func(s *melody.Session) {
		h.logger.Debug("Client disconnected", applog.FieldSessionCount, m.Len())
	})
	m.HandleError(func(s *melody.Session, err error) {
		h.logger.Warn("WebSocket error", applog.FieldError, err)
	})

	return h
}

func encodeChange(version uint64) ([]byte, error) {
	return json.Marshal(changeMessage{Type: changeMessageType, Version: version})
}

// NotifyChange broadcasts version to every connected client.
func (h *Hub) NotifyChange(version uint64) {
	msg, err := encodeChange(version)
	if err != nil {
		return
	}
	if err := h.m.Broadcast(msg); err != nil {
		h.logger.Warn("Broadcast failed", applog.FieldError, err, applog.FieldVersion, version)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.m.HandleRequest(w, r); err != nil {
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed", applog.FieldError, err)
	}
}

func (h *Hub) Sessions() int {
	return h.m.Len()
}

func (h *Hub) Close() error {
	return h.m.Close()
}
