// Package server mounts the intake and admin services on a goa muxer and
// wraps them in the HTTP middleware chain.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"

	"robolab/internal/config"
	"robolab/internal/metrics"
	"robolab/internal/services"
	"robolab/internal/util"
)

// Services are the handlers' collaborators
type Services struct {
	Inquiries *services.InquiryService
	Admin     *services.AdminService
	Health    *services.HealthService
}

// NewHandler returns the complete HTTP handler: routes, /metrics and the
// middleware chain.
func NewHandler(cfg *config.Config, svc Services) http.Handler {
	h := &handlers{svc: svc}
	mux := goahttp.NewMuxer()

	admin := adminOnly(services.AdminTokenMiddleware(
		util.NewTokenVerifier(cfg.Admin.Token, cfg.Admin.TokenHash),
		cfg.Admin.Header,
	))

	mux.Handle(http.MethodGet, "/api/health", h.health)

	mux.Handle(http.MethodPost, "/api/inquiries", h.submit)
	mux.Handle(http.MethodGet, "/api/inquiries/lookups/age-groups", h.ageGroups)
	mux.Handle(http.MethodGet, "/api/inquiries/lookups/org-types", h.orgTypes)

	mux.Handle(http.MethodGet, "/api/admin", admin(h.list))
	mux.Handle(http.MethodGet, "/api/admin/inquiries", admin(h.list))
	mux.Handle(http.MethodGet, "/api/admin/inquiries/{id}", admin(func(w http.ResponseWriter, r *http.Request) {
		h.get(w, r, mux.Vars(r)["id"])
	}))
	mux.Handle(http.MethodPatch, "/api/admin/inquiries/{id}/status", admin(func(w http.ResponseWriter, r *http.Request) {
		h.setStatus(w, r, mux.Vars(r)["id"])
	}))

	var api http.Handler = mux
	api = middleware.PopulateRequestContext()(api)
	api = middleware.RequestID()(api)

	prom := promhttp.Handler()
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			prom.ServeHTTP(w, r)
			return
		}
		api.ServeHTTP(w, r)
	})

	// Security -> CORS -> Logging -> Prometheus -> Handler
	return securityHeaders(cors(requestLogging(metrics.PrometheusMiddleware(root)), cfg), cfg)
}

// adminOnly adapts an http.Handler middleware to the muxer's HandlerFunc
func adminOnly(mw func(http.Handler) http.Handler) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return mw(next).ServeHTTP
	}
}
