package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"devEvents/internal/config"
	"devEvents/internal/http-server/handlers/booking/createBooking"
	"devEvents/internal/http-server/handlers/event/createEvent"
	"devEvents/internal/http-server/handlers/event/getAllEvents"
	"devEvents/internal/http-server/handlers/event/getEvent"
	"devEvents/internal/http-server/handlers/event/getSimilarEvents"
	"devEvents/internal/http-server/middleware/mwlogger"
	"devEvents/internal/lib/api/response"
)

type eventStore interface {
	getEvent.EventGetter
	getAllEvents.EventsGetter
	createEvent.EventCreator
}

// api is everything the HTTP layer calls into.
type api struct {
	events   eventStore
	images   createEvent.ImageUploader
	similar  getSimilarEvents.SimilarFinder
	bookings createBooking.BookingCreator
}

func newRouter(log *slog.Logger, cfg config.HTTPServer, verbose bool, deps api) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(corsOptions(cfg.AllowedOrigins)))

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	router.Route("/api", func(r chi.Router) {
		r.Get("/events", getAllEvents.New(log, deps.events, verbose))
		r.Post("/events", createEvent.New(log, deps.events, deps.images, cfg.MaxUploadSize))
		// empty slug, answered with MISSING_SLUG
		r.Get("/events/", getEvent.New(log, deps.events, verbose))
		r.Get("/events/{slug}", getEvent.New(log, deps.events, verbose))
		r.Get("/events/{slug}/similar", getSimilarEvents.New(log, deps.similar, verbose))
		r.Post("/bookings", createBooking.New(log, deps.bookings, verbose))
	})

	return router
}

func corsOptions(origins []string) cors.Options {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	return cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         86400,
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, response.Error(response.CodeNotFound, "Route not found"))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, response.Error(response.CodeMethodNotAllowed, "Method not allowed"))
}
