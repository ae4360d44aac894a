package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdg-garage/visitor-intake-api/internal/config"
	"github.com/gdg-garage/visitor-intake-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, secret string, employeeID uint, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"employee_id": employeeID,
		"exp":         time.Now().Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func okHandler(seen *uint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = EmployeeIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_SlidingSession(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil, nil)

	t.Run("TokenRenewed", func(t *testing.T) {
		// 11 hours left is less than TokenDuration/2.
		tokenString := signedToken(t, cfg.JWTSecret, 1, 11*time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: tokenString})
		rr := httptest.NewRecorder()

		var seen uint
		handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", rr.Code)
		}
		if seen != 1 {
			t.Errorf("expected employee 1 in context, got %d", seen)
		}

		found := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == CookieName {
				found = true
				if c.Value == tokenString {
					t.Errorf("expected new token value, but got the old one")
				}
			}
		}
		if !found {
			t.Errorf("expected new auth_token cookie to be set")
		}
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		tokenString := signedToken(t, cfg.JWTSecret, 1, 13*time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: tokenString})
		rr := httptest.NewRecorder()

		var seen uint
		handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", rr.Code)
		}
		for _, c := range rr.Result().Cookies() {
			if c.Name == CookieName {
				t.Errorf("did not expect a new auth_token cookie to be set")
			}
		}
	})

	t.Run("Expired", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: signedToken(t, cfg.JWTSecret, 1, -time.Minute)})
		rr := httptest.NewRecorder()

		var seen uint
		handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %v", rr.Code)
		}
	})

	t.Run("NoCredentials", func(t *testing.T) {
		rr := httptest.NewRecorder()
		var seen uint
		handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %v", rr.Code)
		}
	})
}

func TestAPIKeyMiddleware(t *testing.T) {
	db := testDB(t)
	employee := models.Employee{Subject: "sub-7", Name: "Reception"}
	db.Create(&employee)
	past := time.Now().Add(-time.Hour)
	db.Create(&models.APIKey{EmployeeID: employee.ID, Key: "kiosk-key"})
	db.Create(&models.APIKey{EmployeeID: employee.ID, Key: "stale-key", ExpiresAt: &past})

	handler := NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("X-API-KEY", "kiosk-key")
	rr := httptest.NewRecorder()
	var seen uint
	handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || seen != employee.ID {
		t.Errorf("expected 200 for employee %d, got %d for %d", employee.ID, rr.Code, seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("X-API-KEY", "stale-key")
	rr = httptest.NewRecorder()
	handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired key, got %d", rr.Code)
	}
}
