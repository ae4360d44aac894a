package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

type contextKey string

const EmployeeIDKey contextKey = "employee_id"

// EmployeeIDFromContext returns the employee placed in ctx by AuthMiddleware.
func EmployeeIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(EmployeeIDKey).(uint)
	return id, ok && id != 0
}

func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey := r.Header.Get("X-API-KEY"); apiKey != "" {
			employeeID, err := h.lookupAPIKey(r.Context(), apiKey)
			if errors.Is(err, ErrAPIKeyExpired) {
				http.Error(w, "Unauthorized: API Key expired", http.StatusUnauthorized)
				return
			}
			if err == nil {
				ctx := context.WithValue(r.Context(), EmployeeIDKey, employeeID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		cookie, err := r.Cookie(CookieName)
		if err != nil {
			http.Error(w, "Unauthorized: No token found", http.StatusUnauthorized)
			return
		}

		employeeID, expires, err := h.parseToken(cookie.Value)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		if c := h.renewedCookie(employeeID, expires); c != nil {
			http.SetCookie(w, c)
		}

		ctx := context.WithValue(r.Context(), EmployeeIDKey, employeeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionRefresh is the huma counterpart of the refresh done in
// AuthMiddleware. Authentication itself stays with Authorize.
func (h *AuthHandler) SessionRefresh(ctx huma.Context, next func(huma.Context)) {
	if header := ctx.Header("Cookie"); header != "" {
		if cookies, err := http.ParseCookie(header); err == nil {
			for _, c := range cookies {
				if c.Name != CookieName {
					continue
				}
				if employeeID, expires, err := h.parseToken(c.Value); err == nil {
					if renewed := h.renewedCookie(employeeID, expires); renewed != nil {
						ctx.AppendHeader("Set-Cookie", renewed.String())
					}
				}
				break
			}
		}
	}
	next(ctx)
}

// renewedCookie returns a fresh session cookie once less than half the token
// lifetime remains, nil otherwise.
func (h *AuthHandler) renewedCookie(employeeID uint, expires time.Time) *http.Cookie {
	if expires.IsZero() || time.Until(expires) >= TokenDuration/2 {
		return nil
	}
	token, err := h.GenerateToken(employeeID)
	if err != nil {
		return nil
	}
	return h.sessionCookie(token)
}
