package getAllEvents

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devEvents/internal/http-server/handlers/event/getAllEvents/mocks"
	"devEvents/internal/lib/logger/handlers/slogdiscard"
	"devEvents/internal/models"
)

func TestGetAllEventsHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testEvents := []models.Event{
		{
			ID:        primitive.NewObjectID(),
			Title:     "Rust Night",
			Slug:      "rust-night",
			CreatedAt: createdAt.Add(time.Hour),
		},
		{
			ID:        primitive.NewObjectID(),
			Title:     "Go Meetup",
			Slug:      "go-meetup",
			CreatedAt: createdAt,
		},
	}

	testCases := []struct {
		name           string
		verbose        bool
		mockSetup      func(getter *mocks.EventsGetter)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "Success with events",
			mockSetup: func(getter *mocks.EventsGetter) {
				getter.On("GetAllEvents", mock.Anything).Return(testEvents, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp EventsResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)
				assert.Equal(t, "Events fetched successfully", resp.Message)
				assert.Empty(t, resp.Error)
				require.Len(t, resp.Events, 2)
				assert.Equal(t, "rust-night", resp.Events[0].Slug)
				assert.Equal(t, "go-meetup", resp.Events[1].Slug)
			},
		},
		{
			name: "Success with no events",
			mockSetup: func(getter *mocks.EventsGetter) {
				getter.On("GetAllEvents", mock.Anything).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","message":"Events fetched successfully","events":[]}`,
		},
		{
			name: "Storage failure hides details",
			mockSetup: func(getter *mocks.EventsGetter) {
				getter.On("GetAllEvents", mock.Anything).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"INTERNAL_SERVER_ERROR","message":"Error fetching events"}`,
		},
		{
			name:    "Storage failure with details",
			verbose: true,
			mockSetup: func(getter *mocks.EventsGetter) {
				getter.On("GetAllEvents", mock.Anything).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody: `{"status":"Error","error":"INTERNAL_SERVER_ERROR","message":"Error fetching events",
				"details":"connection refused"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			getter := mocks.NewEventsGetter(t)
			tc.mockSetup(getter)

			handler := New(logger, getter, tc.verbose)

			req, err := http.NewRequest(http.MethodGet, "/events", nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestHandlerReusesLogger(t *testing.T) {
	t.Parallel()

	getter := mocks.NewEventsGetter(t)
	getter.On("GetAllEvents", mock.Anything).Return([]models.Event{}, nil)

	handler := New(slogdiscard.NewDiscardLogger(), getter, false)

	const calls = 3

	for i := 0; i < calls; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	}

	getter.AssertNumberOfCalls(t, "GetAllEvents", calls)
}
