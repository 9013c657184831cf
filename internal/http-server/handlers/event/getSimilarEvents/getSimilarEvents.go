package getSimilarEvents

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"devEvents/internal/lib/api/response"
	"devEvents/internal/lib/logger/sl"
	"devEvents/internal/lib/slug"
	"devEvents/internal/models"
)

type SimilarEventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SimilarFinder
type SimilarFinder interface {
	GetSimilarEventsBySlug(ctx context.Context, slug string) ([]models.Event, error)
}

func New(log *slog.Logger, finder SimilarFinder, verbose bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getSimilarEvents.New"

		log := log.With(slog.String("op", op))

		eventSlug := chi.URLParam(r, "slug")
		if eventSlug == "" {
			log.Info("slug is missing")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.CodeMissingSlug, "Slug parameter is required"))
			return
		}

		if !slug.Valid(eventSlug) {
			log.Info("invalid slug format", slog.String("slug", eventSlug))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(
				response.CodeInvalidSlugFormat,
				"Invalid slug format. Slug must contain only lowercase letters, numbers, and hyphens",
			))
			return
		}

		log = log.With(slog.String("slug", eventSlug))

		events, err := finder.GetSimilarEventsBySlug(r.Context(), eventSlug)
		if err != nil {
			log.Error("failed to get similar events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Internal("Failed to fetch similar events", err, verbose))
			return
		}

		log.Debug("similar events retrieved", slog.Int("count", len(events)))

		responseOK(w, r, events)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, events []models.Event) {
	if events == nil {
		events = []models.Event{}
	}

	render.JSON(w, r, SimilarEventsResponse{
		Response: response.OK("Similar events fetched successfully"),
		Events:   events,
	})
}
