package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jewelbook/internal/auth"
	"jewelbook/internal/model"
	"jewelbook/internal/ratelimit"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
		},
		{
			name:           "POST request",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := CORS(testHandler)

			req := httptest.NewRequest(tt.method, "/api/v1/invoices", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		})
	}
}

func TestAuthenticate(t *testing.T) {
	logger := zerolog.Nop()
	authenticator := auth.New("test-secret-0123456789", "jewelbook")
	other := auth.New("another-secret-0123456789", "jewelbook")
	userID := uuid.New()

	valid, err := authenticator.IssueToken(userID, time.Hour)
	require.NoError(t, err)
	forged, err := other.IssueToken(userID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		path           string
		header         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Valid token",
			path:           "/api/v1/invoices",
			header:         "Bearer " + valid,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Wrong signing key",
			path:           "/api/v1/invoices",
			header:         "Bearer " + forged,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing header",
			path:           "/api/v1/invoices",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Not a bearer token",
			path:           "/api/v1/invoices",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Health check bypasses auth",
			path:           "/health",
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				if r.URL.Path != "/health" {
					got, ok := auth.UserIDFromContext(r.Context())
					assert.True(t, ok)
					assert.Equal(t, userID, got)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := Authenticate(authenticator, logger)(testHandler)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), model.ErrCodeUnauthorised)
			}
		})
	}
}

// stubLimiter returns a fixed decision.
type stubLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func TestRateLimit(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()
	resetAt := time.Now().Add(30 * time.Second)

	tests := []struct {
		name           string
		limiter        *stubLimiter
		authenticated  bool
		expectedStatus int
		expectHandler  bool
		expectHeaders  bool
	}{
		{
			name:           "Allowed",
			limiter:        &stubLimiter{decision: ratelimit.Decision{Allowed: true, Limit: 30, Remaining: 29, ResetAt: resetAt}},
			authenticated:  true,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
			expectHeaders:  true,
		},
		{
			name:           "Exceeded",
			limiter:        &stubLimiter{decision: ratelimit.Decision{Allowed: false, Limit: 30, ResetAt: resetAt}},
			authenticated:  true,
			expectedStatus: http.StatusTooManyRequests,
			expectHeaders:  true,
		},
		{
			name:           "Limiter error fails open",
			limiter:        &stubLimiter{err: errors.New("redis: connection refused")},
			authenticated:  true,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Anonymous passes through",
			limiter:        &stubLimiter{},
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := RateLimit(tt.limiter, logger)(testHandler)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", nil)
			if tt.authenticated {
				req = req.WithContext(auth.WithUserID(req.Context(), userID))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			if tt.expectHeaders {
				assert.Equal(t, "30", w.Header().Get("X-RateLimit-Limit"))
			}
			if tt.expectedStatus == http.StatusTooManyRequests {
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
				assert.Contains(t, w.Body.String(), model.ErrCodeRateLimited)
			}
			if tt.authenticated {
				assert.Equal(t, []string{userID.String()}, tt.limiter.keys)
			} else {
				assert.Empty(t, tt.limiter.keys)
			}
		})
	}
}

func TestLogging(t *testing.T) {
	logger := zerolog.Nop()

	for _, status := range []int{http.StatusCreated, http.StatusNotFound, http.StatusInternalServerError} {
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		handler := Logging(logger)(testHandler)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, status, w.Code)
	}
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		shouldPanic    bool
		panicValue     interface{}
		expectedStatus int
	}{
		{
			name:           "No panic",
			shouldPanic:    false,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Panic with string",
			shouldPanic:    true,
			panicValue:     "something went wrong",
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Panic with error",
			shouldPanic:    true,
			panicValue:     assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.shouldPanic {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := Recovery(logger)(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.shouldPanic {
				assert.Contains(t, w.Body.String(), model.ErrCodeInternalError)
			}
		})
	}
}

func TestResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusConflict)

	assert.Equal(t, http.StatusConflict, rw.statusCode)
	assert.Equal(t, http.StatusConflict, w.Code)
}
