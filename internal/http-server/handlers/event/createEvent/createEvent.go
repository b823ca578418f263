package createEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"playgrounds/internal/events"
	"playgrounds/internal/http-server/middleware/identity"
	"playgrounds/internal/lib/api/response"
	"playgrounds/internal/lib/logger/sl"
	"playgrounds/internal/models"
)

type EventRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	DateTime        time.Time `json:"date_time" validate:"required"`
	MinParticipants int       `json:"min_participants" validate:"required,min=2"`
	MaxParticipants int       `json:"max_participants" validate:"required,min=2"`
	SpaceID         int64     `json:"space_id" validate:"required"`
	SportID         int64     `json:"sport_id" validate:"required"`
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	Create(ctx context.Context, req events.NewEvent, creator models.User) (*models.Event, error)
}

func New(log *slog.Logger, creator EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log = log.With(slog.String("op", op))

		user, ok := identity.UserFromContext(r.Context())
		if !ok {
			log.Error("no user identity in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("missing user identity"))
			return
		}

		var req EventRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		event, err := creator.Create(r.Context(), events.NewEvent{
			Title:           req.Title,
			Description:     req.Description,
			DateTime:        req.DateTime,
			MinParticipants: req.MinParticipants,
			MaxParticipants: req.MaxParticipants,
			SpaceID:         req.SpaceID,
			SportID:         req.SportID,
		}, user)
		if err != nil {
			log.Error("failed to create event", sl.Err(err))

			switch {
			case errors.Is(err, events.ErrSpaceNotFound), errors.Is(err, events.ErrSportNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, events.ErrSportNotOffered),
				errors.Is(err, events.ErrMinAboveMax),
				errors.Is(err, events.ErrDateInPast):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to create event"))
			}
			return
		}

		log.Info("event created", slog.Int64("id", event.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, EventResponse{
			Response: response.OK(),
			Event:    event,
		})
	}
}
