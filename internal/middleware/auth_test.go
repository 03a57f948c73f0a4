package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarkita/marketplace-api/internal/auth"
	"github.com/pasarkita/marketplace-api/internal/domain"
)

const testJWTSecret = "test-secret"

func merchantRouter(t *testing.T) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(Auth(testJWTSecret))
		r.Use(RequireRole(domain.RoleMerchant))
		r.Get("/finances", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func bearerToken(t *testing.T, role domain.Role) string {
	t.Helper()

	token, err := auth.GenerateToken(uuid.New(), role, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthRequireRole(t *testing.T) {
	router := merchantRouter(t)

	expired, err := auth.GenerateToken(uuid.New(), domain.RoleMerchant, testJWTSecret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"merchant token passes", bearerToken(t, domain.RoleMerchant), http.StatusOK},
		{"customer token forbidden", bearerToken(t, domain.RoleCustomer), http.StatusForbidden},
		{"admin token forbidden", bearerToken(t, domain.RoleAdmin), http.StatusForbidden},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/finances", nil)
			if tc.authHeader != "" {
				r.Header.Set("Authorization", tc.authHeader)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, r)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestRequireRole_NoIdentity(t *testing.T) {
	// RequireRole without Auth in front has no identity to check.
	h := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
