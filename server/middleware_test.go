package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/techagentng/messaging/config"
	"github.com/techagentng/messaging/models"
	"github.com/techagentng/messaging/services/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 1, hour, 30, 0, 0, time.Local)
	}
}

func performWithClock(t *testing.T, hour int) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/write", restrictAccessByTime(fixedClock(hour)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRestrictAccessByTimeAllowsInsideWindow(t *testing.T) {
	for _, hour := range []int{18, 19, 20} {
		if w := performWithClock(t, hour); w.Code != http.StatusOK {
			t.Errorf("hour %d should be allowed, got %d", hour, w.Code)
		}
	}
}

func TestRestrictAccessByTimeDeniesOutsideWindow(t *testing.T) {
	for _, hour := range []int{0, 9, 17, 21, 23} {
		if w := performWithClock(t, hour); w.Code != http.StatusForbidden {
			t.Errorf("hour %d should be denied, got %d", hour, w.Code)
		}
	}
}

func userWithRole(role string) *models.User {
	user := &models.User{
		Model: models.Model{ID: uuid.New()},
		Role:  models.Role{ID: uuid.New(), Name: role},
	}
	user.RoleID = user.Role.ID
	return user
}

func performWithUser(t *testing.T, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/write", func(c *gin.Context) {
		if user != nil {
			c.Set("user", user)
		}
	}, requireAdminRole(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdminRoleAllowsAdmin(t *testing.T) {
	if w := performWithUser(t, userWithRole(models.RoleAdmin)); w.Code != http.StatusOK {
		t.Fatalf("admin should pass, got %d", w.Code)
	}
}

func TestRequireAdminRoleDeniesOtherRoles(t *testing.T) {
	for _, role := range []string{models.RoleGuest, models.RoleHost} {
		if w := performWithUser(t, userWithRole(role)); w.Code != http.StatusForbidden {
			t.Errorf("role %s should be denied, got %d", role, w.Code)
		}
	}
}

func TestRequireAdminRoleDeniesMissingUser(t *testing.T) {
	if w := performWithUser(t, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing user should be unauthorized, got %d", w.Code)
	}
}

func TestTimeWindowAppliesToAdminsToo(t *testing.T) {
	r := gin.New()
	r.POST("/write", func(c *gin.Context) {
		c.Set("user", userWithRole(models.RoleAdmin))
	}, restrictAccessByTime(fixedClock(9)), requireAdminRole(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("admin outside the window should still be denied, got %d", w.Code)
	}
}

func TestLimitMessageWritesDeniesSixthRequest(t *testing.T) {
	s := &Server{
		Config:         &config.Config{},
		MessageLimiter: ratelimit.New(5, time.Minute),
	}
	r := gin.New()
	r.POST("/write", s.limitMessageWrites(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		req.RemoteAddr = "10.1.1.1:4000"
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.RemoteAddr = "10.1.1.1:4000"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("sixth request should be rejected, got %d", w.Code)
	}
}

func clientKeyFor(s *Server, remoteAddr, forwarded string) string {
	c, engine := gin.CreateTestContext(httptest.NewRecorder())
	_ = engine.SetTrustedProxies(nil)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = remoteAddr
	if forwarded != "" {
		c.Request.Header.Set("X-Forwarded-For", forwarded)
	}
	return s.clientKey(c)
}

func TestClientKeyIgnoresProxyHeaderByDefault(t *testing.T) {
	s := &Server{Config: &config.Config{}}
	if key := clientKeyFor(s, "10.1.1.1:4000", "203.0.113.7, 10.0.0.1"); key != "10.1.1.1" {
		t.Fatalf("untrusted proxy header must be ignored, got %q", key)
	}
}

func TestClientKeyHonorsTrustedProxyHeader(t *testing.T) {
	s := &Server{Config: &config.Config{TrustProxyHeaders: true}}
	if key := clientKeyFor(s, "10.1.1.1:4000", "203.0.113.7, 10.0.0.1"); key != "203.0.113.7" {
		t.Fatalf("trusted proxy header must win, got %q", key)
	}
	if key := clientKeyFor(s, "10.1.1.1:4000", ""); key != "10.1.1.1" {
		t.Fatalf("missing header falls back to the peer address, got %q", key)
	}
}
