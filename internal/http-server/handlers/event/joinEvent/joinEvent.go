package joinEvent

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

type JoinResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventJoiner
type EventJoiner interface {
	Join(ctx context.Context, eventID int64, user models.User) (*models.Event, error)
}

func New(log *slog.Logger, joiner EventJoiner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.joinEvent.New"

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

		event, err := joiner.Join(r.Context(), eventID, user)
		if err != nil {
			log.Error("failed to join event", sl.Err(err))

			switch {
			case errors.Is(err, events.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, events.ErrEventNotOpen),
				errors.Is(err, events.ErrEventFull),
				errors.Is(err, events.ErrAlreadyJoined):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to join event"))
			}
			return
		}

		log.Info("user joined event", slog.String("status", string(event.Status)))

		render.JSON(w, r, JoinResponse{
			Response: response.OK(),
			Event:    event,
		})
	}
}
