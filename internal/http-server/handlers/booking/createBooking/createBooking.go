package createBooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"devEvents/internal/lib/api/response"
	"devEvents/internal/lib/logger/sl"
	"devEvents/internal/models"
	"devEvents/internal/services/booking"
	"devEvents/internal/storage"
)

type BookingRequest struct {
	EventID string `json:"eventId" validate:"required"`
	Slug    string `json:"slug"`
	Email   string `json:"email" validate:"required"`
}

type BookingResponse struct {
	response.Response
	Success bool            `json:"success"`
	Booking *models.Booking `json:"booking"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCreator
type BookingCreator interface {
	CreateBooking(ctx context.Context, eventID, slug, email string) booking.Result
}

func New(log *slog.Logger, creator BookingCreator, verbose bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.createBooking.New"

		log := log.With(slog.String("op", op))

		var req BookingRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Info("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.CodeInvalidRequest, "Failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Info("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		log = log.With(slog.String("event_id", req.EventID), slog.String("slug", req.Slug))

		res := creator.CreateBooking(r.Context(), req.EventID, req.Slug, req.Email)
		if !res.Success {
			writeFailure(w, r, log, res, verbose)
			return
		}

		log.Info("booking created", slog.String("booking_id", res.Booking.ID.Hex()))

		responseCreated(w, r, res.Booking)
	}
}

func writeFailure(w http.ResponseWriter, r *http.Request, log *slog.Logger, res booking.Result, verbose bool) {
	err := res.Err
	if err == nil {
		err = errors.New(res.Error)
	}

	var (
		validationErr *storage.ValidationError
		castErr       *storage.CastError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Info("booking failed validation", sl.Err(err))
		render.Status(r, http.StatusBadRequest)

		var validateErrs validator.ValidationErrors
		if errors.As(validationErr.Err, &validateErrs) {
			render.JSON(w, r, response.ValidationError(validateErrs))
			return
		}

		render.JSON(w, r, response.Error(response.CodeValidation, "Validation error occurred").
			WithDetails(validationErr.Error()))
	case errors.As(err, &castErr):
		log.Info("invalid event id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.CodeCast, "Invalid data format").WithDetails(castErr.Error()))
	case errors.Is(err, storage.ErrReferencedEventMissing):
		log.Info("referenced event does not exist")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.CodeEventNotFound, "Event not found"))
	default:
		log.Error("failed to create booking", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Internal("Failed to create booking", err, verbose))
	}
}

func responseCreated(w http.ResponseWriter, r *http.Request, b *models.Booking) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, BookingResponse{
		Response: response.OK("Booking created successfully"),
		Success:  true,
		Booking:  b,
	})
}
