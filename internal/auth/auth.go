package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/visitor-intake-api/internal/config"
	"github.com/gdg-garage/visitor-intake-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	CookieName      = "auth_token"
	StateCookieName = "oauth_state"
	TokenDuration   = 24 * time.Hour
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAPIKeyExpired   = errors.New("api key expired")
)

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
	logger      logrus.FieldLogger
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, logger logrus.FieldLogger) *AuthHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.OAuthAuthURL,
				TokenURL:  cfg.OAuthTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		http.Error(w, "Failed to start login", http.StatusInternalServerError)
		return
	}
	state := hex.EncodeToString(stateBytes)

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

type userInfo struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(StateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		h.logger.WithError(err).Warn("OAuth code exchange failed")
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(h.cfg.OAuthUserInfoURL)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		http.Error(w, "Failed to get user info", http.StatusBadGateway)
		return
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}
	if info.Subject == "" {
		http.Error(w, "User info has no subject", http.StatusBadGateway)
		return
	}

	if !h.emailAllowed(info.Email) {
		h.logger.WithField("email", info.Email).Warn("Login rejected for email outside the allowed domain")
		http.Error(w, "Access denied: your account is not part of this organisation.", http.StatusForbidden)
		return
	}

	var employee models.Employee
	if err := h.db.FirstOrInit(&employee, models.Employee{Subject: info.Subject}).Error; err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	employee.Name = info.Name
	employee.Email = info.Email
	employee.Picture = info.Picture

	if err := h.db.Save(&employee).Error; err != nil {
		http.Error(w, "Failed to save employee", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(employee.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.sessionCookie(jwtToken))
	http.SetCookie(w, &http.Cookie{Name: StateCookieName, Value: "", Path: "/", MaxAge: -1})

	h.logger.WithField("employee_id", employee.ID).Info("Employee logged in")

	if h.cfg.FrontendURL != "" {
		http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
		return
	}
	fmt.Fprintf(w, "Welcome %s! You are logged in.", employee.Name)
}

func (h *AuthHandler) emailAllowed(email string) bool {
	if h.cfg.OAuthAllowedDomain == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(h.cfg.OAuthAllowedDomain))
}

func (h *AuthHandler) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) GenerateToken(employeeID uint) (string, error) {
	claims := jwt.MapClaims{
		"employee_id": employeeID,
		"exp":         time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// parseToken returns the employee id and expiry carried by a session token.
func (h *AuthHandler) parseToken(tokenString string) (uint, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, time.Time{}, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, ErrUnauthenticated
	}
	idFloat, ok := claims["employee_id"].(float64)
	if !ok || idFloat <= 0 {
		return 0, time.Time{}, ErrUnauthenticated
	}

	var expires time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expires = exp.Time
	}
	return uint(idFloat), expires, nil
}

// lookupAPIKey resolves an API key to its employee and stamps its last use.
func (h *AuthHandler) lookupAPIKey(ctx context.Context, key string) (uint, error) {
	if h.db == nil {
		return 0, ErrUnauthenticated
	}

	var keyModel models.APIKey
	if err := h.db.WithContext(ctx).Where("key = ?", key).First(&keyModel).Error; err != nil {
		return 0, ErrUnauthenticated
	}

	now := time.Now()
	if keyModel.ExpiresAt != nil && now.After(*keyModel.ExpiresAt) {
		return 0, ErrAPIKeyExpired
	}

	if err := h.db.WithContext(ctx).Model(&keyModel).Update("last_used_at", now).Error; err != nil {
		h.logger.WithError(err).Warn("Failed to record API key use")
	}
	return keyModel.EmployeeID, nil
}

// AuthInput carries the credentials a huma operation accepts.
type AuthInput struct {
	Cookie string `header:"Cookie"`
	APIKey string `header:"X-API-KEY"`
}

// Authorize resolves the calling employee. An id already placed in ctx by
// AuthMiddleware wins, then the API key, then the session cookie.
func (h *AuthHandler) Authorize(ctx context.Context, input AuthInput) (uint, error) {
	if id, ok := EmployeeIDFromContext(ctx); ok {
		return id, nil
	}

	if input.APIKey != "" {
		id, err := h.lookupAPIKey(ctx, input.APIKey)
		if err == nil {
			return id, nil
		}
		if errors.Is(err, ErrAPIKeyExpired) {
			return 0, huma.Error401Unauthorized("API key expired")
		}
	}

	if input.Cookie == "" {
		return 0, huma.Error401Unauthorized("Not logged in")
	}
	cookies, err := http.ParseCookie(input.Cookie)
	if err != nil {
		return 0, huma.Error401Unauthorized("Malformed cookie header")
	}
	for _, c := range cookies {
		if c.Name != CookieName {
			continue
		}
		id, _, err := h.parseToken(c.Value)
		if err != nil {
			return 0, huma.Error401Unauthorized("Invalid token")
		}
		return id, nil
	}
	return 0, huma.Error401Unauthorized("Not logged in")
}

type MeInput struct {
	AuthInput
}

type MeOutput struct {
	Body struct {
		ID      uint   `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeInput) (*MeOutput, error) {
	employeeID, err := h.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var employee models.Employee
	if err := h.db.WithContext(ctx).First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Employee not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load employee")
	}

	out := &MeOutput{}
	out.Body.ID = employee.ID
	out.Body.Name = employee.Name
	out.Body.Email = employee.Email
	out.Body.Picture = employee.Picture
	return out, nil
}
