package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techagentng/messaging/config"
	"github.com/techagentng/messaging/db"
	"github.com/techagentng/messaging/mailingservices"
	"github.com/techagentng/messaging/services"
	"github.com/techagentng/messaging/services/ratelimit"
	"github.com/techagentng/messaging/services/ws"
)

type Server struct {
	Config              *config.Config
	Mail                *mailingservices.Mailgun
	AuthRepository      db.AuthRepository
	AuthService         services.AuthService
	ConversationService services.ConversationService
	MessageService      services.MessageService
	NotificationService services.NotificationService
	MessageLimiter      *ratelimit.SlidingWindow
	Hub                 *ws.Hub
}

// Start runs the HTTP server until it receives an interrupt, then
// drains in-flight requests.
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}
