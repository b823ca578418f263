package rateSpace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"playgrounds/internal/events"
	"playgrounds/internal/http-server/middleware/identity"
	"playgrounds/internal/lib/api/response"
	"playgrounds/internal/lib/logger/sl"
	"playgrounds/internal/models"
	"playgrounds/internal/storage/postgres"
)

type RatingRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type RatingResponse struct {
	response.Response
	Rating *models.SpaceRating `json:"rating"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SpaceRater
type SpaceRater interface {
	CreateSpaceRating(ctx context.Context, spaceID int64, user models.User, rating int, comment string) (*models.SpaceRating, error)
}

func New(log *slog.Logger, rater SpaceRater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.space.rateSpace.New"

		log = log.With(slog.String("op", op))

		user, ok := identity.UserFromContext(r.Context())
		if !ok {
			log.Error("no user identity in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("missing user identity"))
			return
		}

		spaceID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid space id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid space id format"))
			return
		}

		log = log.With(slog.Int64("space_id", spaceID), slog.Int64("user_id", user.ID))

		var req RatingRequest

		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		rating, err := rater.CreateSpaceRating(r.Context(), spaceID, user, req.Rating, req.Comment)
		if err != nil {
			log.Error("failed to rate space", sl.Err(err))

			switch {
			case errors.Is(err, events.ErrSpaceNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, postgres.ErrAlreadyRated),
				errors.Is(err, postgres.ErrRatingNotAllowed):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to rate space"))
			}
			return
		}

		log.Info("space rated", slog.Int("rating", req.Rating))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, RatingResponse{
			Response: response.OK(),
			Rating:   rating,
		})
	}
}
