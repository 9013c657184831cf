package getEvent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"devEvents/internal/lib/api/response"
	"devEvents/internal/lib/logger/sl"
	"devEvents/internal/lib/slug"
	"devEvents/internal/models"
	"devEvents/internal/storage"
)

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventGetter
type EventGetter interface {
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
}

// New serves GET /events/{slug}. verbose controls whether the error text of
// unexpected failures reaches the client.
func New(log *slog.Logger, eventGetter EventGetter, verbose bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getEvent.New"

		log := log.With(slog.String("op", op))

		eventSlug := chi.URLParam(r, "slug")
		if eventSlug == "" {
			log.Info("slug is missing")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.CodeMissingSlug, "Slug parameter is required"))
			return
		}

		log = log.With(slog.String("slug", eventSlug))

		if !slug.Valid(eventSlug) {
			log.Info("invalid slug format")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(
				response.CodeInvalidSlugFormat,
				"Invalid slug format. Slug must contain only lowercase letters, numbers, and hyphens",
			))
			return
		}

		event, err := eventGetter.GetEventBySlug(r.Context(), eventSlug)
		if err != nil {
			writeError(w, r, log, eventSlug, err, verbose)
			return
		}

		log.Info("event retrieved")

		responseOK(w, r, event)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, eventSlug string, err error, verbose bool) {
	var (
		validationErr *storage.ValidationError
		castErr       *storage.CastError
	)

	switch {
	case errors.Is(err, storage.ErrEventNotFound):
		log.Info("event not found")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(
			response.CodeEventNotFound,
			fmt.Sprintf("Event with slug %q not found", eventSlug),
		))
	case errors.As(err, &validationErr):
		log.Warn("stored event failed validation", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.CodeValidation, "Validation error occurred").
			WithDetails(validationErr.Error()))
	case errors.As(err, &castErr):
		log.Warn("invalid data format", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.CodeCast, "Invalid data format").
			WithDetails(castErr.Error()))
	default:
		log.Error("failed to get event", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Internal("Internal server error while fetching event", err, verbose))
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, event *models.Event) {
	render.JSON(w, r, EventResponse{
		Response: response.OK("Event retrieved successfully"),
		Event:    event,
	})
}
