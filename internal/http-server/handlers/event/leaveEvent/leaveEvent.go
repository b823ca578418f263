package leaveEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"playgrounds/internal/events"
	"playgrounds/internal/http-server/middleware/identity"
	"playgrounds/internal/lib/api/response"
	"playgrounds/internal/lib/logger/sl"
	"playgrounds/internal/models"
)

type LeaveResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventLeaver
type EventLeaver interface {
	Leave(ctx context.Context, eventID int64, user models.User) (*models.Event, error)
}

func New(log *slog.Logger, leaver EventLeaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.leaveEvent.New"

		log = log.With(slog.String("op", op))

		user, ok := identity.UserFromContext(r.Context())
		if !ok {
			log.Error("no user identity in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("missing user identity"))
			return
		}

		eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid event id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id format"))
			return
		}

		log = log.With(slog.Int64("event_id", eventID), slog.Int64("user_id", user.ID))

		event, err := leaver.Leave(r.Context(), eventID, user)
		if err != nil {
			log.Error("failed to leave event", sl.Err(err))

			switch {
			case errors.Is(err, events.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, events.ErrCreatorCannotLeave):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, events.ErrEventNotAvailable),
				errors.Is(err, events.ErrEventStarted),
				errors.Is(err, events.ErrMinimumReached),
				errors.Is(err, events.ErrNotAMember):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to leave event"))
			}
			return
		}

		log.Info("user left event", slog.Int("participants", len(event.Participants)))

		render.JSON(w, r, LeaveResponse{
			Response: response.OK(),
			Event:    event,
		})
	}
}
