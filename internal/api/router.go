package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/hackgods/dentist-appointment-booking/internal/appointment"
)

type RouterConfig struct {
	Service     *appointment.Service
	Logger      *zap.Logger
	Backend     string
	Env         string
	Version     string
	RateLimit   int
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	health := NewHealthHandler(cfg.Service, cfg.Backend, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Get("/practitioners", practitionersHandler(cfg.Service))
	r.Get("/slots", availableSlotsHandler(cfg.Service))

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(cfg.Service))
		r.Post("/", bookAppointmentHandler(cfg.Service))
		r.Get("/{id}", getAppointmentHandler(cfg.Service))
		r.Delete("/{id}", cancelAppointmentHandler(cfg.Service))
		r.Post("/{id}/reschedule", rescheduleAppointmentHandler(cfg.Service))
	})

	r.Get("/history", historyHandler(cfg.Service))
	r.Get("/history/export", exportHistoryHandler(cfg.Service, cfg.Logger))

	r.Get("/preferences/dark-mode", getDarkModeHandler(cfg.Service))
	r.Put("/preferences/dark-mode", setDarkModeHandler(cfg.Service))

	return r
}
