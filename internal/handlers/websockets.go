package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pace_service_tool/internal/models"
	"pace_service_tool/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Client → server message types.
const (
	wsGetForm       = "get_form"
	wsRunTest       = "run_test"
	wsUpdateField   = "update_field"
	wsUpdateMotor   = "update_motor"
	wsUpdateSection = "update_section"
)

// Server → client message types.
const (
	wsTypeForm      = "form"
	wsTypeTelemetry = "telemetry"
	wsTypeError     = "error"
)

const errWSBadMessage = "invalid message"

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsRequest is one client message. Only the fields its type needs are read.
type wsRequest struct {
	Type    string `json:"type"`
	Field   string `json:"field,omitempty"`
	Group   string `json:"group,omitempty"`
	Index   int    `json:"index,omitempty"`
	Section string `json:"section,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Upgrader for HTTP -> WebSocket. The tool is served to a local PWA; origins are not checked.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Only this goroutine writes; the reader hands requests over.
	requests := make(chan wsRequest)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go h.startReader(conn, requests, done, quit)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	ctx := c.Request.Context()

	if err := h.writeEnvelope(conn, h.formEnvelope()); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case req := <-requests:
			if err := h.writeEnvelope(conn, h.handleWSRequest(ctx, req)); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "type", req.Type)
				}
				return
			}
		}
	}
}

// startReader decodes client messages until the connection closes.
func (h *Handler) startReader(conn *websocket.Conn, requests chan<- wsRequest, done chan<- struct{}, quit <-chan struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		var req wsRequest
		if err := json.Unmarshal(data, &req); err != nil {
			req = wsRequest{}
		}
		select {
		case requests <- req:
		case <-quit:
			return
		}
	}
}

func (h *Handler) handleWSRequest(ctx context.Context, req wsRequest) wsEnvelope {
	var (
		rec models.EquipmentRecord
		err error
	)
	switch req.Type {
	case wsGetForm:
		return h.formEnvelope()
	case wsRunTest:
		return wsEnvelope{Type: wsTypeTelemetry, Data: h.services.Telemetry.RunTest()}
	case wsUpdateField:
		rec, err = h.services.Form.UpdateField(ctx, models.Field(req.Field), req.Value)
	case wsUpdateMotor:
		rec, err = h.services.Form.UpdateMotor(ctx, service.MotorParams{
			Group: models.MotorGroup(req.Group),
			Index: req.Index,
			Field: models.MotorField(req.Field),
			Value: req.Value,
		})
	case wsUpdateSection:
		rec, err = h.services.Form.UpdateNested(ctx, service.NestedParams{
			Section: models.Section(req.Section),
			Field:   req.Field,
			Value:   req.Value,
		})
	default:
		return wsEnvelope{Type: wsTypeError, Error: errWSBadMessage}
	}
	if err != nil {
		return wsEnvelope{Type: wsTypeError, Error: err.Error()}
	}
	return wsEnvelope{Type: wsTypeForm, Data: newFormView(rec)}
}

func (h *Handler) formEnvelope() wsEnvelope {
	return wsEnvelope{Type: wsTypeForm, Data: newFormView(h.services.Form.Current())}
}

// writeEnvelope writes one JSON message with a write deadline.
func (h *Handler) writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
