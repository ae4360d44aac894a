package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/visitor-intake-api/internal/auth"
	"github.com/gdg-garage/visitor-intake-api/internal/config"
	"github.com/gdg-garage/visitor-intake-api/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth    *auth.AuthHandler
	Drafts  *DraftHandler
	Visits  *VisitHandler
	APIKeys *APIKeyHandler
}

func APIConfig() huma.Config {
	config := huma.DefaultConfig("Visitor Intake API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	return config
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, logger logrus.FieldLogger, h Handlers) huma.API {
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-KEY"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/auth/login", h.Auth.HandleLogin)
	r.Get("/auth/callback", h.Auth.HandleCallback)

	r.With(h.Auth.AuthMiddleware).Handle("/metrics", promhttp.Handler())

	api := humachi.New(r, APIConfig())
	RegisterOperations(api, h)
	return api
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
}

func withStatus(status int, tags ...string) func(o *huma.Operation) {
	return func(o *huma.Operation) {
		secured(o)
		o.DefaultStatus = status
		o.Tags = tags
	}
}

// RegisterOperations adds every huma operation to api.
func RegisterOperations(api huma.API, h Handlers) {
	api.UseMiddleware(h.Auth.SessionRefresh)

	huma.Get(api, "/me", h.Auth.HandleMe, withStatus(http.StatusOK, "auth"))

	huma.Get(api, "/catalog/floors", HandleFloors, func(o *huma.Operation) { o.Tags = []string{"catalog"} })
	huma.Get(api, "/catalog/country-codes", HandleCountryCodes, func(o *huma.Operation) { o.Tags = []string{"catalog"} })

	d := h.Drafts
	huma.Post(api, "/drafts", d.HandleCreate, withStatus(http.StatusCreated, "drafts"))
	huma.Get(api, "/drafts/{id}", d.HandleGet, withStatus(http.StatusOK, "drafts"))
	huma.Delete(api, "/drafts/{id}", d.HandleDelete, withStatus(http.StatusNoContent, "drafts"))
	huma.Patch(api, "/drafts/{id}/visit", d.HandleUpdateVisit, withStatus(http.StatusOK, "drafts"))
	huma.Put(api, "/drafts/{id}/floors", d.HandleSetFloors, withStatus(http.StatusOK, "drafts"))
	huma.Put(api, "/drafts/{id}/schedule/date", d.HandleSetDate, withStatus(http.StatusOK, "drafts"))
	huma.Put(api, "/drafts/{id}/schedule/entry", d.HandleSetEntry, withStatus(http.StatusOK, "drafts"))
	huma.Put(api, "/drafts/{id}/schedule/departure", d.HandleSetDeparture, withStatus(http.StatusOK, "drafts"))
	huma.Post(api, "/drafts/{id}/visitors", d.HandleAddVisitor, withStatus(http.StatusOK, "drafts"))
	huma.Patch(api, "/drafts/{id}/visitors/{index}", d.HandleUpdateVisitor, withStatus(http.StatusOK, "drafts"))
	huma.Delete(api, "/drafts/{id}/visitors/{index}", d.HandleRemoveVisitor, withStatus(http.StatusOK, "drafts"))
	huma.Post(api, "/drafts/{id}/next", d.HandleNext, withStatus(http.StatusOK, "drafts"))
	huma.Post(api, "/drafts/{id}/back", d.HandleBack, withStatus(http.StatusOK, "drafts"))
	huma.Post(api, "/drafts/{id}/confirm", d.HandleConfirm, withStatus(http.StatusOK, "drafts"))

	huma.Get(api, "/visits", h.Visits.HandleList, withStatus(http.StatusOK, "visits"))
	huma.Get(api, "/visits/{id}", h.Visits.HandleGet, withStatus(http.StatusOK, "visits"))

	huma.Post(api, "/api-keys", h.APIKeys.HandleCreate, withStatus(http.StatusCreated, "api-keys"))
	huma.Get(api, "/api-keys", h.APIKeys.HandleList, withStatus(http.StatusOK, "api-keys"))
	huma.Delete(api, "/api-keys/{id}", h.APIKeys.HandleDelete, withStatus(http.StatusNoContent, "api-keys"))
}
