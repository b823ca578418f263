package joinEvent

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"playgrounds/internal/events"
	"playgrounds/internal/http-server/handlers/event/joinEvent/mocks"
	"playgrounds/internal/http-server/middleware/identity"
	"playgrounds/internal/lib/logger/handlers/slogdiscard"
	"playgrounds/internal/models"
)

func TestJoinEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	actor := models.User{ID: 2, Name: "bob", Email: "bob@example.com", Role: models.RoleSportsman}

	confirmed := &models.Event{
		ID:              5,
		Title:           "Evening volleyball",
		DateTime:        time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
		Status:          models.StatusConfirmed,
		MinParticipants: 2,
		MaxParticipants: 4,
		Creator:         models.User{ID: 1, Name: "alice"},
		Participants:    []models.User{{ID: 1, Name: "alice"}, actor},
	}

	testCases := []struct {
		name           string
		url            string
		withIdentity   bool
		mockSetup      func(m *mocks.EventJoiner)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:         "Success",
			url:          "/events/5/join",
			withIdentity: true,
			mockSetup: func(m *mocks.EventJoiner) {
				m.On("Join", mock.Anything, int64(5), actor).Return(confirmed, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp JoinResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.Equal(t, "OK", resp.Status)
				require.NotNil(t, resp.Event)
				assert.Equal(t, models.StatusConfirmed, resp.Event.Status)
				assert.Len(t, resp.Event.Participants, 2)
			},
		},
		{
			name:           "Missing identity",
			url:            "/events/5/join",
			withIdentity:   false,
			mockSetup:      func(m *mocks.EventJoiner) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"missing user identity"}`,
		},
		{
			name:           "Invalid event id",
			url:            "/events/abc/join",
			withIdentity:   true,
			mockSetup:      func(m *mocks.EventJoiner) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid event id format"}`,
		},
		{
			name:         "Event not found",
			url:          "/events/5/join",
			withIdentity: true,
			mockSetup: func(m *mocks.EventJoiner) {
				m.On("Join", mock.Anything, int64(5), actor).Return(nil, events.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:         "Event full",
			url:          "/events/5/join",
			withIdentity: true,
			mockSetup: func(m *mocks.EventJoiner) {
				m.On("Join", mock.Anything, int64(5), actor).Return(nil, events.ErrEventFull)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"event is full"}`,
		},
		{
			name:         "Already joined",
			url:          "/events/5/join",
			withIdentity: true,
			mockSetup: func(m *mocks.EventJoiner) {
				m.On("Join", mock.Anything, int64(5), actor).Return(nil, events.ErrAlreadyJoined)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"user is already a participant"}`,
		},
		{
			name:         "Event not open",
			url:          "/events/5/join",
			withIdentity: true,
			mockSetup: func(m *mocks.EventJoiner) {
				m.On("Join", mock.Anything, int64(5), actor).Return(nil, events.ErrEventNotOpen)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"event is not open for joining"}`,
		},
		{
			name:         "Internal error",
			url:          "/events/5/join",
			withIdentity: true,
			mockSetup: func(m *mocks.EventJoiner) {
				m.On("Join", mock.Anything, int64(5), actor).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to join event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockJoiner := mocks.NewEventJoiner(t)
			tc.mockSetup(mockJoiner)

			router := chi.NewRouter()
			router.Use(identity.New())
			router.Put("/events/{id}/join", New(logger, mockJoiner))

			req, err := http.NewRequest(http.MethodPut, tc.url, nil)
			require.NoError(t, err)

			if tc.withIdentity {
				req.Header.Set("X-User-Id", "2")
				req.Header.Set("X-User-Name", "bob")
				req.Header.Set("X-User-Email", "bob@example.com")
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}
