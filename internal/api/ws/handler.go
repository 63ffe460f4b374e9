package ws

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/termfolio/backend/internal/api/middleware"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termfolio/backend/internal/providers/terminal"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/id"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendTimeout    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler manages WebSocket connections
type Handler struct {
	manager *terminal.Manager
	keys    *middleware.RateLimitConfig
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// NewHandler creates a new WebSocket handler. keys bounds keystrokes per
// connection; nil disables the limit. metrics may be nil.
func NewHandler(manager *terminal.Manager, keys *middleware.RateLimitConfig, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		manager: manager,
		keys:    keys,
		metrics: metrics,
		logger:  logger.Component("ws"),
	}
}

// HandleConnection upgrades the request and binds it to a new session for
// as long as the socket stays open.
func (h *Handler) HandleConnection(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	ws.SetReadLimit(maxMessageSize)

	conn := &connection{
		id:      id.NewConnID(),
		ws:      ws,
		metrics: h.metrics,
		logger:  h.logger,
	}
	defer conn.close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	req := terminal.CreateRequest{
		ClientID: id.ClientIDOrNew(c.Query("client")),
		Cols:     queryInt(c, "cols"),
		Rows:     queryInt(c, "rows"),
	}
	sess, err := h.manager.Create(c.Request.Context(), req, conn)
	if err != nil {
		h.logger.Warn("session rejected", zap.String("conn_id", conn.id.String()), zap.Error(err))
		_ = conn.send(errorMessage(err.Error()))
		return
	}
	defer func() {
		if err := h.manager.Kill(sess.ID); err != nil && !errors.Is(err, terminal.ErrSessionNotFound) {
			h.logger.Warn("failed to close session", zap.Error(err))
		}
	}()

	_ = conn.send(Outbound{Type: TypeSession, ID: sess.ID.String(), Client: sess.ClientID.String()})

	// a session killed from elsewhere ends the connection
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-sess.Done():
			conn.close()
		case <-stop:
		}
	}()

	var limiter *rate.Limiter
	if h.keys != nil {
		limiter = h.keys.Limiter()
	}
	h.readLoop(c.Request.Context(), conn, sess, limiter)
}

func (h *Handler) readLoop(ctx context.Context, conn *connection, sess *terminal.Session, limiter *rate.Limiter) {
	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", zap.String("conn_id", conn.id.String()), zap.Error(err))
			}
			return
		}

		var msg Inbound
		if err := sonic.Unmarshal(data, &msg); err != nil {
			_ = conn.send(errorMessage("invalid message"))
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		if msg.Type == TypePing {
			_ = conn.send(Outbound{Type: TypePong})
			continue
		}

		ev, ok := msg.Event()
		if !ok {
			_ = conn.send(errorMessage("unknown message type"))
			continue
		}
		if msg.Type == TypeKey && limiter != nil && !limiter.Allow() {
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		err = sess.Send(sendCtx, ev)
		cancel()
		if errors.Is(err, terminal.ErrSessionClosed) {
			return
		}
		if err != nil {
			h.logger.Debug("event dropped", zap.String("type", msg.Type), zap.Error(err))
		}
	}
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// connection is the session's view of the widget on the other end of the
// socket. Writes come from the session loop and the read loop, so they are
// serialized.
type connection struct {
	id      id.ConnID
	ws      *websocket.Conn
	metrics *monitoring.Metrics
	logger  *logging.Logger

	mu     sync.Mutex
	closed bool
}

func (c *connection) send(msg Outbound) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.RecordWSMessage("out", msg.Type)
	}
	return nil
}

func (c *connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	_ = c.ws.Close()
}

// Output implements terminal.Client
func (c *connection) Output(data string) error {
	return c.send(Outbound{Type: TypeOutput, Data: data})
}

// Open implements terminal.Client
func (c *connection) Open(url string) error {
	return c.send(Outbound{Type: TypeOpen, URL: url})
}

// Links implements terminal.Client
func (c *connection) Links(row int, found []links.Link) error {
	return c.send(linksMessage(row, found))
}
