package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"voting/internal/api/util"
	"voting/internal/core/token"
)

func TestAuthenticate(t *testing.T) {
	tokens := token.NewService([]byte("test-secret"), time.Hour)
	valid, err := tokens.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	forged, err := token.NewService([]byte("other"), time.Hour).Issue("user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := util.GetUserClaims(r)
		if err != nil {
			t.Errorf("Expected claims in context, got %v", err)
			return
		}
		gotUserID = claims.UserID
		w.WriteHeader(http.StatusOK)
	})
	h := NewAuthMiddleware(tokens).Authenticate(next)

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{"missing header", "", http.StatusUnauthorized, "Token not found"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, "Invalid token"},
		{"forged token", "Bearer " + forged, http.StatusUnauthorized, "Invalid token"},
		{"garbage token", "Bearer nonsense", http.StatusUnauthorized, "Invalid token"},
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest("GET", "/user/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusOK {
				if gotUserID != "user-42" {
					t.Errorf("Expected user-42 in context, got %q", gotUserID)
				}
				return
			}
			if gotUserID != "" {
				t.Error("Expected next handler not to run")
			}
			var body util.ErrorBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if body.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, body.Message)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("preflight is answered", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodOptions, "/candidate/add", nil)
		req.Header.Set("Origin", "http://frontend.test")
		w := httptest.NewRecorder()
		CORSMiddleware("http://frontend.test")(next).ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", w.Code)
		}
		if called {
			t.Error("Expected preflight not to reach the handler")
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://frontend.test" {
			t.Errorf("Expected allowed origin echoed, got %q", got)
		}
	})

	t.Run("other origin is not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/candidate", nil)
		req.Header.Set("Origin", "http://evil.test")
		w := httptest.NewRecorder()
		CORSMiddleware("http://frontend.test")(next).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Expected no allow-origin header, got %q", got)
		}
	})

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/candidate", nil)
		w := httptest.NewRecorder()
		CORSMiddleware("*")(next).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Expected *, got %q", got)
		}
	})
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})
	h := BodyLimit(8)(next)

	req := httptest.NewRequest("POST", "/user/signup", strings.NewReader("0123456789"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413 for declared oversize body, got %d", w.Code)
	}

	req = httptest.NewRequest("POST", "/user/signup", strings.NewReader("0123456789"))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if readErr == nil {
		t.Error("Expected reading past the limit to fail")
	}

	req = httptest.NewRequest("POST", "/user/signup", strings.NewReader("small"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if readErr != nil || w.Code != http.StatusOK {
		t.Errorf("Expected small body to pass, got %d (%v)", w.Code, readErr)
	}
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/x", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status preserved, got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("Expected a generated request id")
	}

	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("Expected incoming request id reused, got %q", got)
	}
}
