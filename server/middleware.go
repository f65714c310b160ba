package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/messaging/errors"
	"github.com/techagentng/messaging/models"
	"github.com/techagentng/messaging/server/response"
	"github.com/techagentng/messaging/services/jwt"
	"gorm.io/gorm"
)

// Authorize validates the bearer token, rejects blacklisted tokens and
// loads the authenticated user into the context.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		if s.AuthRepository.IsTokenInBlacklist(accessToken) {
			respondAndAbort(c, "Access token is blacklisted", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		secret := s.Config.JWTSecret
		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, secret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		userID, err := jwt.UserIDFromClaims(accessClaims)
		if err != nil {
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.New("Invalid userID format", http.StatusBadRequest))
			return
		}

		user, err := s.AuthRepository.FindUserByID(userID)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.New(err.Error(), http.StatusUnauthorized))
			default:
				respondAndAbort(c, "unable to find entity", http.StatusInternalServerError, nil, errs.New("internal server error", http.StatusInternalServerError))
			}
			return
		}

		c.Set("user", user)
		c.Set("userID", userID)
		c.Set("access_token", accessToken)
		c.Next()
	}
}

// restrictAccessByTime denies requests outside the 18:00-20:59 server
// local window, regardless of who is asking. A nil clock uses the wall
// clock; tests inject their own.
func restrictAccessByTime(clock func() time.Time) gin.HandlerFunc {
	if clock == nil {
		clock = time.Now
	}
	return func(c *gin.Context) {
		hour := clock().Hour()
		if hour < 18 || hour >= 21 {
			respondAndAbort(c, "messaging is only available between 6PM and 9PM", http.StatusForbidden, nil, errs.ErrForbidden)
			return
		}
		c.Next()
	}
}

// requireAdminRole denies the message write namespace to everyone but
// admins. Runs after Authorize, which loads the user.
func requireAdminRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		if !user.Role.IsAdmin() {
			respondAndAbort(c, "admin role required", http.StatusForbidden, nil, errs.ErrForbidden)
			return
		}
		c.Next()
	}
}

// limitMessageWrites applies the sliding-window limiter to write-type
// requests. Denied requests are rejected before any state is mutated.
func (s *Server) limitMessageWrites() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.MessageLimiter.Allow(s.clientKey(c), time.Now()) {
			respondAndAbort(c, "message rate limit exceeded, try again later", http.StatusTooManyRequests, nil, errs.ErrRateLimited)
			return
		}
		c.Next()
	}
}

// clientKey resolves the client identity for rate limiting. The first
// X-Forwarded-For entry is only honored when the deployment declares a
// trusted reverse proxy; otherwise the direct peer address is used.
func (s *Server) clientKey(c *gin.Context) string {
	if s.Config.TrustProxyHeaders {
		if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
			return strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
	}
	return c.ClientIP()
}

// limitRateForPasswordReset throttles reset mails per target email.
func limitRateForPasswordReset(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler:   errs.ErrorHandler,
		KeyFunc:        keyFunc,
		BeforeResponse: nil,
	})
}

// keyFunc keys the password reset limiter by the email in the body. The
// body is restored so the handler can bind it again.
func keyFunc(c *gin.Context) string {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.JSON(c, "", http.StatusBadRequest, nil, err)
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))

	var foundUser models.ForgotPassword
	if err := c.ShouldBindJSON(&foundUser); err != nil {
		response.JSON(c, "", http.StatusBadRequest, nil, err)
		return ""
	}

	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
	return foundUser.Email
}

// currentUser returns the user set by Authorize, or nil.
func currentUser(c *gin.Context) *models.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 8 {
		return authHeader[7:]
	}
	return ""
}
