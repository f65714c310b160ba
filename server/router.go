package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		_ = r.SetTrustedProxies(nil)
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	// clientKey decides whether to honor X-Forwarded-For; gin must not
	// second-guess it through its own proxy trust.
	_ = r.SetTrustedProxies(nil)
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 3,
	})
	limitRate := limitRateForPasswordReset(store)

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/password/forgot", limitRate, s.HandleForgotPassword())
	apirouter.POST("/password/reset/:token", s.ResetPassword())
	apirouter.GET("/ws", s.handleWebsocket())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.DELETE("/me", s.handleDeleteAccount())

	authorized.POST("/conversations", s.handleCreateConversation())
	authorized.GET("/conversations", s.handleGetConversations())
	authorized.GET("/conversations/:conversationID", s.handleGetConversation())
	authorized.GET("/conversations/:conversationID/messages", s.handleListMessages())
	authorized.GET("/conversations/:conversationID/messages/:messageID/thread", s.handleGetMessageThread())

	authorized.GET("/notifications", s.handleGetNotifications())
	authorized.PUT("/notifications/:notificationID/read", s.handleMarkNotificationRead())
	authorized.GET("/messages/history", s.handleGetEditHistory())

	// Message writes run the full policy pipeline in order: identity
	// (Authorize above), time window, role, then participation inside
	// the service. The sliding-window limiter gates last so denied
	// requests never reach it.
	messageWrites := authorized.Group("/")
	messageWrites.Use(restrictAccessByTime(nil))
	messageWrites.Use(requireAdminRole())
	messageWrites.Use(s.limitMessageWrites())
	messageWrites.POST("/conversations/:conversationID/messages", s.handleSendMessage())
	messageWrites.PUT("/conversations/:conversationID/messages/:messageID", s.handleEditMessage())
}
