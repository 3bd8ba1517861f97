// Package api exposes the HTTP surface the trading SPA talks to: auth,
// wallet requests, trading, the shared activity feed, and the admin
// moderation panel.
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emaskripto-boop/Emaskripto/internal/service"
	"github.com/emaskripto-boop/Emaskripto/internal/simulator"
	"github.com/emaskripto-boop/Emaskripto/internal/store"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "emaskripto_http_requests_total",
	Help: "Total HTTP requests",
}, []string{"method", "path", "status"})

type Server struct {
	svc            *service.Service
	sim            *simulator.Simulator
	store          *store.Store
	logger         *utils.Logger
	metricsEnabled bool
}

func NewServer(svc *service.Service, sim *simulator.Simulator, st *store.Store, logger *utils.Logger) *Server {
	return &Server{svc: svc, sim: sim, store: st, logger: logger}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(countRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Get("/session", s.handleSession)
		})

		r.Get("/stats", s.handleStats)
		r.Get("/stats/stream", s.handleStatsStream)
		r.Get("/referral", s.handleReferral)

		r.Route("/wallet", func(r chi.Router) {
			r.Post("/deposits", s.handleRequestDeposit)
			r.Post("/withdrawals", s.handleRequestWithdrawal)
		})

		r.Route("/trade", func(r chi.Router) {
			r.Post("/buy", s.handleBuy)
			r.Post("/sell", s.handleSell)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/pending", s.handlePending)
			r.Post("/deposits/{id}", s.handleProcessDeposit)
			r.Post("/withdrawals/{id}", s.handleProcessWithdrawal)
			r.Post("/simulator/pause", s.handleSimulatorPause)
			r.Post("/simulator/resume", s.handleSimulatorResume)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
	})
}
