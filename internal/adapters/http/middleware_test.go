package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/applicant-screener/internal/config"
)

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	fx := newRouterFixture(config.Config{
		APIRateLimitRPS:   1,
		APIRateLimitBurst: 1,
	})

	res1 := httptest.NewRecorder()
	fx.handler.ServeHTTP(res1, httptest.NewRequest(http.MethodGet, "/v1/candidates", nil))
	if res1.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", res1.Code)
	}

	res2 := httptest.NewRecorder()
	fx.handler.ServeHTTP(res2, httptest.NewRequest(http.MethodGet, "/v1/candidates", nil))
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}

	res3 := httptest.NewRecorder()
	fx.handler.ServeHTTP(res3, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res3.Code != http.StatusOK {
		t.Fatalf("health checks must bypass the limiter, got %d", res3.Code)
	}
}

func TestCORSPreflightForAllowedOrigin(t *testing.T) {
	fx := newRouterFixture(config.Config{CORSAllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/v1/candidates", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res := httptest.NewRecorder()
	fx.handler.ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", res.Code)
	}
	if res.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", res.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	fx := newRouterFixture(config.Config{CORSAllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	res := httptest.NewRecorder()
	fx.handler.ServeHTTP(res, req)

	if res.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow origin %q", res.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	fx := newRouterFixture(config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	res := httptest.NewRecorder()
	fx.handler.ServeHTTP(res, req)

	if res.Header().Get(requestIDHeader) != "abc-123" {
		t.Fatalf("expected request id echo, got %q", res.Header().Get(requestIDHeader))
	}
}
