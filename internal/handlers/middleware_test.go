package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"threadchat/internal/models"
	"threadchat/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, "ok")
}

func TestBusinessHoursMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		hour   int
		minute int
		want   int
	}{
		{"before opening", 8, 59, http.StatusForbidden},
		{"opening minute", 9, 0, http.StatusOK},
		{"midday", 13, 30, http.StatusOK},
		{"closing minute", 18, 0, http.StatusOK},
		{"after closing", 18, 1, http.StatusForbidden},
		{"midnight", 0, 0, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clock := func() time.Time {
				return time.Date(2024, 1, 15, tc.hour, tc.minute, 0, 0, time.Local)
			}
			router := gin.New()
			router.GET("/messages/unread", BusinessHoursMiddleware(clock), okHandler)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/messages/unread", nil)
			router.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("at %02d:%02d expected %d, got %d", tc.hour, tc.minute, tc.want, w.Code)
			}
		})
	}
}

func TestAbuseRateLimitMiddlewareThrottlesPosts(t *testing.T) {
	now := time.Now()
	limiter := ratelimit.NewSlidingWindowLimiter(60*time.Second, 5).
		WithClock(func() time.Time { return now })

	router := gin.New()
	router.POST("/messages", AbuseRateLimitMiddleware(limiter), okHandler)

	post := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/messages", nil)
		req.RemoteAddr = "10.0.0.1:52000"
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 5; i++ {
		if code := post(); code != http.StatusOK {
			t.Fatalf("POST %d expected 200, got %d", i+1, code)
		}
	}
	if code := post(); code != http.StatusForbidden {
		t.Fatalf("6th POST expected 403, got %d", code)
	}

	now = now.Add(61 * time.Second)
	if code := post(); code != http.StatusOK {
		t.Fatalf("POST after window expected 200, got %d", code)
	}
}

func TestAbuseRateLimitMiddlewareIgnoresReads(t *testing.T) {
	limiter := ratelimit.NewSlidingWindowLimiter(60*time.Second, 1)

	router := gin.New()
	router.GET("/messages/unread", AbuseRateLimitMiddleware(limiter), okHandler)

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/messages/unread", nil)
		req.RemoteAddr = "10.0.0.1:52000"
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %d should not be rate limited, got %d", i+1, w.Code)
		}
	}
}

func TestAbuseRateLimitMiddlewareKeysByForwardedFor(t *testing.T) {
	limiter := ratelimit.NewSlidingWindowLimiter(60*time.Second, 1)

	router := gin.New()
	router.POST("/messages", AbuseRateLimitMiddleware(limiter), okHandler)

	post := func(forwarded string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/messages", nil)
		req.RemoteAddr = "10.0.0.9:52000"
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	// First value of the forwarded chain is the client key.
	if code := post("1.2.3.4, 5.6.7.8"); code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", code)
	}
	if code := post("1.2.3.4, 9.9.9.9"); code != http.StatusForbidden {
		t.Fatalf("same forwarded client expected 403, got %d", code)
	}
	if code := post("5.6.7.8, 1.2.3.4"); code != http.StatusOK {
		t.Fatalf("different forwarded client expected 200, got %d", code)
	}
	if code := post(""); code != http.StatusOK {
		t.Fatalf("direct peer fallback expected 200, got %d", code)
	}
}

func TestRequireElevatedRoleMiddleware(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{models.RoleGuest, http.StatusForbidden},
		{models.RoleStaff, http.StatusOK},
		{models.RoleAdmin, http.StatusOK},
		{"", http.StatusForbidden},
	}

	for _, tc := range cases {
		router := gin.New()
		router.GET("/admin/users",
			func(ctx *gin.Context) { ctx.Set("user_role", tc.role) },
			RequireElevatedRoleMiddleware(),
			okHandler,
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		router.ServeHTTP(w, req)

		if w.Code != tc.want {
			t.Fatalf("role %q expected %d, got %d", tc.role, tc.want, w.Code)
		}
	}
}

func TestRequestLogMiddlewareNeverRejects(t *testing.T) {
	router := gin.New()
	router.GET("/messages/unread", RequestLogMiddleware(), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/messages/unread", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("request log must always continue, got %d", w.Code)
	}
}

func TestFirstRejectionShortCircuits(t *testing.T) {
	// Business hours reject first; the limiter must never see the request.
	limiter := ratelimit.NewSlidingWindowLimiter(60*time.Second, 1)
	afterHours := func() time.Time {
		return time.Date(2024, 1, 15, 23, 0, 0, 0, time.Local)
	}

	handlerRan := false
	router := gin.New()
	router.POST("/messages",
		RequestLogMiddleware(),
		BusinessHoursMiddleware(afterHours),
		AbuseRateLimitMiddleware(limiter),
		func(ctx *gin.Context) { handlerRan = true },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.RemoteAddr = "10.0.0.1:52000"
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if handlerRan {
		t.Fatal("handler must not run after a rejection")
	}
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("limiter must not have recorded the rejected request")
	}
}
