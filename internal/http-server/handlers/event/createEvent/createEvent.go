package createEvent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ajg/form"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"devEvents/internal/lib/api/response"
	"devEvents/internal/lib/logger/sl"
	"devEvents/internal/models"
	"devEvents/internal/storage"
)

const imageField = "image"

// EventRequest holds the plain text fields of the multipart form. Tags and
// Agenda arrive as JSON documents.
type EventRequest struct {
	Title       string `form:"title"`
	Slug        string `form:"slug"`
	Description string `form:"description"`
	Overview    string `form:"overview"`
	Venue       string `form:"venue"`
	Location    string `form:"location"`
	Date        string `form:"date"`
	Time        string `form:"time"`
	Mode        string `form:"mode"`
	Audience    string `form:"audience"`
	Organizer   string `form:"organizer"`
	Tags        string `form:"tags"`
	Agenda      string `form:"agenda"`
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, event *models.Event) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageUploader
type ImageUploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// New serves POST /events. The image is uploaded before the event is
// stored, so a failed insert leaves an orphaned object behind. Every
// failure is answered with 400.
func New(log *slog.Logger, creator EventCreator, uploader ImageUploader, maxUploadSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log := log.With(slog.String("op", op))

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			log.Info("failed to parse multipart form", sl.Err(err))
			badRequest(w, r, response.Error(response.CodeInvalidForm, "Invalid form data").WithDetails(err.Error()))
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		image, err := readImage(r)
		if err != nil {
			log.Info("image is missing", sl.Err(err))
			badRequest(w, r, response.Error(response.CodeMissingImage, "Image file is required"))
			return
		}

		var req EventRequest

		dec := form.NewDecoder(nil)
		dec.IgnoreUnknownKeys(true)
		err = dec.DecodeValues(&req, url.Values(r.MultipartForm.Value))
		if err != nil {
			log.Info("failed to decode form fields", sl.Err(err))
			badRequest(w, r, response.Error(response.CodeInvalidForm, "Invalid form data").WithDetails(err.Error()))
			return
		}

		event := req.toEvent()

		if event.Tags, err = parseTags(req.Tags); err != nil {
			log.Info("invalid tags", sl.Err(err))
			badRequest(w, r, response.Error(response.CodeInvalidTags, "Tags must be a JSON array of strings").
				WithDetails(err.Error()))
			return
		}

		if event.Agenda, err = parseAgenda(req.Agenda); err != nil {
			log.Info("invalid agenda", sl.Err(err))
			badRequest(w, r, response.Error(response.CodeInvalidAgenda, "Agenda must be a JSON array").
				WithDetails(err.Error()))
			return
		}

		event.Image, err = uploader.Upload(r.Context(), image)
		if err != nil {
			log.Error("failed to upload image", sl.Err(err))
			badRequest(w, r, response.Error(response.CodeImageUpload, "Failed to upload image").
				WithDetails(err.Error()))
			return
		}

		log = log.With(slog.String("image", event.Image))

		if err = creator.CreateEvent(r.Context(), event); err != nil {
			log.Error("failed to create event", sl.Err(err))
			badRequest(w, r, createFailure(err))
			return
		}

		log.Info("event created", slog.String("slug", event.Slug), slog.String("id", event.ID.Hex()))

		responseCreated(w, r, event)
	}
}

func (req EventRequest) toEvent() *models.Event {
	return &models.Event{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Overview:    req.Overview,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        req.Mode,
		Audience:    req.Audience,
		Organizer:   req.Organizer,
	}
}

func readImage(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile(imageField)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, errors.New("image file is empty")
	}

	return data, nil
}

// parseTags accepts an empty value so that the missing field is reported by
// model validation.
func parseTags(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}

	return tags, nil
}

// parseAgenda accepts either an array of agenda objects or an array of
// plain strings, each string becoming an item title.
func parseAgenda(raw string) ([]models.AgendaItem, error) {
	if raw == "" {
		return nil, nil
	}

	var items []models.AgendaItem
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items, nil
	}

	var titles []string
	if err := json.Unmarshal([]byte(raw), &titles); err != nil {
		return nil, fmt.Errorf("agenda is neither a list of items nor a list of strings: %w", err)
	}

	items = make([]models.AgendaItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, models.AgendaItem{Title: title})
	}

	return items, nil
}

func createFailure(err error) response.Response {
	var validationErr *storage.ValidationError
	if errors.As(err, &validationErr) {
		var validateErrs validator.ValidationErrors
		if errors.As(validationErr.Err, &validateErrs) {
			return response.ValidationError(validateErrs)
		}

		return response.Error(response.CodeValidation, "Validation error occurred").WithDetails(validationErr.Error())
	}

	return response.Error(response.CodeEventCreate, "Error creating event").WithDetails(err.Error())
}

func badRequest(w http.ResponseWriter, r *http.Request, resp response.Response) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, resp)
}

func responseCreated(w http.ResponseWriter, r *http.Request, event *models.Event) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, EventResponse{
		Response: response.OK("Event created successfully"),
		Event:    event,
	})
}
