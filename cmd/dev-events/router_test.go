package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"devEvents/internal/config"
	bookingmocks "devEvents/internal/http-server/handlers/booking/createBooking/mocks"
	createmocks "devEvents/internal/http-server/handlers/event/createEvent/mocks"
	listmocks "devEvents/internal/http-server/handlers/event/getAllEvents/mocks"
	getmocks "devEvents/internal/http-server/handlers/event/getEvent/mocks"
	similarmocks "devEvents/internal/http-server/handlers/event/getSimilarEvents/mocks"
	"devEvents/internal/lib/logger/handlers/slogdiscard"
	"devEvents/internal/models"
)

type eventStoreMock struct {
	*getmocks.EventGetter
	*listmocks.EventsGetter
	*createmocks.EventCreator
}

type testAPI struct {
	getter  *getmocks.EventGetter
	lister  *listmocks.EventsGetter
	similar *similarmocks.SimilarFinder
}

func newTestRouter(t *testing.T, origins ...string) (http.Handler, testAPI) {
	t.Helper()

	mocks := testAPI{
		getter:  getmocks.NewEventGetter(t),
		lister:  listmocks.NewEventsGetter(t),
		similar: similarmocks.NewSimilarFinder(t),
	}

	deps := api{
		events: eventStoreMock{
			EventGetter:  mocks.getter,
			EventsGetter: mocks.lister,
			EventCreator: createmocks.NewEventCreator(t),
		},
		images:   createmocks.NewImageUploader(t),
		similar:  mocks.similar,
		bookings: bookingmocks.NewBookingCreator(t),
	}

	cfg := config.HTTPServer{MaxUploadSize: 1 << 20, AllowedOrigins: origins}

	return newRouter(slogdiscard.NewDiscardLogger(), cfg, false, deps), mocks
}

func TestRouter_SlugRoutes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		method         string
		path           string
		mockSetup      func(m testAPI)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Empty slug",
			method:         http.MethodGet,
			path:           "/api/events/",
			mockSetup:      func(m testAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"MISSING_SLUG","message":"Slug parameter is required"}`,
		},
		{
			name:           "Malformed slug",
			method:         http.MethodGet,
			path:           "/api/events/Bad_Slug!",
			mockSetup:      func(m testAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{"status":"Error","error":"INVALID_SLUG_FORMAT",
				"message":"Invalid slug format. Slug must contain only lowercase letters, numbers, and hyphens"}`,
		},
		{
			name:   "Event by slug",
			method: http.MethodGet,
			path:   "/api/events/go-meetup",
			mockSetup: func(m testAPI) {
				m.getter.On("GetEventBySlug", mock.Anything, "go-meetup").
					Return(&models.Event{Slug: "go-meetup"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Similar events",
			method: http.MethodGet,
			path:   "/api/events/go-meetup/similar",
			mockSetup: func(m testAPI) {
				m.similar.On("GetSimilarEventsBySlug", mock.Anything, "go-meetup").Return([]models.Event{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","message":"Similar events fetched successfully","events":[]}`,
		},
		{
			name:   "Event list",
			method: http.MethodGet,
			path:   "/api/events",
			mockSetup: func(m testAPI) {
				m.lister.On("GetAllEvents", mock.Anything).Return([]models.Event{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","message":"Events fetched successfully","events":[]}`,
		},
		{
			name:           "Unknown route",
			method:         http.MethodGet,
			path:           "/api/speakers",
			mockSetup:      func(m testAPI) {},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"NOT_FOUND","message":"Route not found"}`,
		},
		{
			name:           "Wrong method",
			method:         http.MethodDelete,
			path:           "/api/events",
			mockSetup:      func(m testAPI) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedBody:   `{"status":"Error","error":"METHOD_NOT_ALLOWED","message":"Method not allowed"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, m := newTestRouter(t)
			tc.mockSetup(m)

			req, err := http.NewRequest(tc.method, tc.path, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		origins        []string
		method         string
		origin         string
		preflight      bool
		expectedOrigin string
		expectMethods  bool
	}{
		{
			name:           "Allowed origin",
			origins:        []string{"http://localhost:3000/"},
			method:         http.MethodGet,
			origin:         "http://localhost:3000",
			expectedOrigin: "http://localhost:3000",
		},
		{
			name:    "Disallowed origin",
			origins: []string{"http://localhost:3000"},
			method:  http.MethodGet,
			origin:  "https://evil.example",
		},
		{
			name:           "Wildcard",
			origins:        []string{"*"},
			method:         http.MethodGet,
			origin:         "https://devevents.example",
			expectedOrigin: "*",
		},
		{
			name:           "Preflight allowed",
			origins:        []string{"http://localhost:3000"},
			method:         http.MethodOptions,
			origin:         "http://localhost:3000",
			preflight:      true,
			expectedOrigin: "http://localhost:3000",
			expectMethods:  true,
		},
		{
			name:      "Preflight disallowed",
			origins:   []string{"http://localhost:3000"},
			method:    http.MethodOptions,
			origin:    "https://evil.example",
			preflight: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, m := newTestRouter(t, tc.origins...)
			if !tc.preflight {
				m.lister.On("GetAllEvents", mock.Anything).Return([]models.Event{}, nil)
			}

			req := httptest.NewRequest(tc.method, "/api/events", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Less(t, rr.Code, 300)
			assert.Equal(t, tc.expectedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.expectMethods, rr.Header().Get("Access-Control-Allow-Methods") != "")
		})
	}
}
