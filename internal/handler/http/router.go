package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(shiftHandler ShiftHandler, calendarHandler CalendarHandler, cancellationHandler CancellationHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftcore"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/shifts", func(r chi.Router) {
			r.Post("/open", shiftHandler.OpenActual)
			r.Post("/close", shiftHandler.CloseActual)
			r.Post("/cancel", shiftHandler.CancelActual)
			r.Post("/sweep", shiftHandler.RunSweep)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Post("/cancel", shiftHandler.CancelPlanned)
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/windows/{id}", calendarHandler.GetWindowOccupancy)
			r.Get("/locations/{locationID}", calendarHandler.ListDayOccupancy)
		})

		r.Route("/cancellations", func(r chi.Router) {
			r.Post("/", cancellationHandler.CancelShift)
			r.Post("/{id}/moderation", cancellationHandler.ResolveModeration)
		})
	})
	return r
}
