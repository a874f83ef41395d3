// Package gateway exposes the assistant over HTTP and WebSocket: a small
// JSON API for sending turns and reading transcripts, plus a one-way
// WebSocket push so the UI sees scheduled bot messages the moment they land.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/truongvq/tellerbot/internal/bank"
	"github.com/truongvq/tellerbot/internal/config"
	"github.com/truongvq/tellerbot/internal/dialog"
	"github.com/truongvq/tellerbot/internal/session"
	"github.com/truongvq/tellerbot/internal/validate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the tellerbot gateway server.
type Server struct {
	Config    *config.Config
	Manager   *dialog.Manager
	Bank      *bank.Repository
	Validator *validate.Validator
	httpSrv   *http.Server
	startAt   time.Time
}

func NewServer(cfg *config.Config, mgr *dialog.Manager, repo *bank.Repository, v *validate.Validator) *Server {
	return &Server{
		Config:    cfg,
		Manager:   mgr,
		Bank:      repo,
		Validator: v,
		startAt:   time.Now(),
	}
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", s.ginHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/ws", s.ginWebSocket)
	s.registerAPIRoutes(engine)
	return engine
}

// Start begins listening for connections.
func (s *Server) Start(ctx context.Context) error {
	engine := s.buildEngine()

	addr := fmt.Sprintf(":%d", s.Config.Gateway.Port)
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	slog.Info("tellerbot gateway starting", "port", s.Config.Gateway.Port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(shutdownCtx)
	}()

	if err := s.httpSrv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) ginHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startAt).String(),
		"sessions": s.Manager.Len(),
	})
}

// ginWebSocket streams transcript messages for one session. The socket is
// push-only: the client sends turns over HTTP and receives every appended
// message here, starting with a replay of the transcript so far.
func (s *Server) ginWebSocket(c *gin.Context) {
	token := c.Query("token")
	if !s.authenticate(token) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	sessionKey := c.Query("sessionKey")
	if sessionKey == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "sessionKey required"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	ctrl := s.Manager.Get(sessionKey)

	// Subscribers run under the controller lock, so hand messages to a
	// buffered channel and write from this goroutine. A client too slow to
	// drain 64 messages gets dropped rather than blocking the conversation.
	push := make(chan session.Message, 64)
	unsubscribe := ctrl.Subscribe(func(msg session.Message) {
		select {
		case push <- msg:
		default:
			slog.Warn("websocket push buffer full", "session", sessionKey)
		}
	})
	defer unsubscribe()

	history, err := ctrl.Messages(c.Request.Context())
	if err != nil {
		slog.Warn("websocket history replay failed", "session", sessionKey, "error", err)
	}
	var lastSeq int64
	for _, msg := range history {
		if err := ws.WriteJSON(msg); err != nil {
			return
		}
		lastSeq = msg.Seq
	}

	// Reads only detect the peer closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	slog.Info("websocket connected", "session", sessionKey)
	for {
		select {
		case msg := <-push:
			// Messages appended between Subscribe and the replay above show
			// up in both; the sequence number filters the duplicates.
			if msg.Seq <= lastSeq {
				continue
			}
			if err := ws.WriteJSON(msg); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func (s *Server) authenticate(token string) bool {
	expected := s.Config.Gateway.Auth.Token
	if expected == "" {
		return true // no auth configured
	}
	return token == expected
}
