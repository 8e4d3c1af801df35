package handlers

import (
	"net/http"
	"net/url"
	"time"

	"blog_backend/internal/models"

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

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// checkOrigin accepts same-origin requests, clients without an Origin header
// and the configured CORS origins.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// @Summary      Live posts
// @Description  WebSocket; pushes {"type":"post","data":<post>} for every new post matching the filter.
// @Tags         posts
// @Param        username  query  string  false  "Author"
// @Param        tag       query  string  false  "Tag"
// @Router       /api/posts/stream [get]
func (h *Handler) streamPosts(c *gin.Context) {
	filter := postFilter(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Infow("ws_upgrade_failed", "err", err, "request_id", requestIDFrom(c))
		return
	}
	defer func() { _ = conn.Close() }()

	posts, unsubscribe := h.services.Subscribe(filter)
	defer unsubscribe()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case p, ok := <-posts:
			if !ok {
				return
			}
			if err := h.sendPost(conn, p); err != nil {
				h.log.Infow("ws_write_failed", "err", err, "post_id", p.ID)
				return
			}
		}
	}
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

func (h *Handler) sendPost(conn *websocket.Conn, p models.Post) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "post", Data: p.Preview()})
}
