package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"centremart/cart"
	"centremart/feed"
	"centremart/models"
	"centremart/session"
	"centremart/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuthMiddleware(t *testing.T) {
	utils.JwtKey = []byte("test-secret")
	admin, err := utils.GenerateJWT("u-1", "a@example.com", models.RoleAdmin)
	require.NoError(t, err)
	staff, err := utils.GenerateJWT("u-2", "s@example.com", "staff")
	require.NoError(t, err)

	guarded := AuthMiddleware(AdminMiddleware(http.HandlerFunc(okHandler)))
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + admin, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"not admin", "Bearer " + staff, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	utils.JwtKey = []byte("test-secret")
	token, err := utils.GenerateJWT("u-3", "a@example.com", models.RoleCustomer)
	require.NoError(t, err)

	var seen string
	h := OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFrom(r.Context()); ok {
			seen = claims.Email
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, seen)

	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "a@example.com", seen)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestID(Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})))

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.ErrorLevel, entry.Level)
	assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusInternalServerError, entry.ContextMap()["status"])
}

type noPages struct{}

func (noPages) Page(context.Context, *feed.Cursor, int) ([]models.Product, error) { return nil, nil }

func TestSession(t *testing.T) {
	reg := session.NewRegistry(cart.NewMemoryStorage(), noPages{}, zap.NewNop())
	var got *session.Session
	h := Session(reg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.NotNil(t, got)
	assigned := rec.Header().Get(SessionHeader)
	assert.Equal(t, got.ID, assigned)

	req.Header.Set(SessionHeader, assigned)
	first := got
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Same(t, first, got)
}
