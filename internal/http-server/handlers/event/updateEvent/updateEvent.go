package updateEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"playgrounds/internal/events"
	"playgrounds/internal/http-server/middleware/identity"
	"playgrounds/internal/lib/api/response"
	"playgrounds/internal/lib/logger/sl"
	"playgrounds/internal/models"
)

type UpdateRequest struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	DateTime        *time.Time `json:"date_time,omitempty"`
	MinParticipants *int       `json:"min_participants,omitempty" validate:"omitempty,min=2"`
	MaxParticipants *int       `json:"max_participants,omitempty" validate:"omitempty,min=2"`
}

type UpdateResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventUpdater
type EventUpdater interface {
	Update(ctx context.Context, eventID int64, patch models.EventPatch, user models.User) (*models.Event, error)
}

func New(log *slog.Logger, updater EventUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.updateEvent.New"

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

		log = log.With(slog.Int64("event_id", eventID))

		var req UpdateRequest

		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		event, err := updater.Update(r.Context(), eventID, models.EventPatch{
			Title:           req.Title,
			Description:     req.Description,
			DateTime:        req.DateTime,
			MinParticipants: req.MinParticipants,
			MaxParticipants: req.MaxParticipants,
		}, user)
		if err != nil {
			log.Error("failed to update event", sl.Err(err))

			switch {
			case errors.Is(err, events.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, events.ErrNotCreator):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, events.ErrEventNotAvailable):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, events.ErrMaxBelowParticipants),
				errors.Is(err, events.ErrMinAboveMax):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to update event"))
			}
			return
		}

		log.Info("event updated")

		render.JSON(w, r, UpdateResponse{
			Response: response.OK(),
			Event:    event,
		})
	}
}
