package getRatings

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"playgrounds/internal/lib/api/response"
	"playgrounds/internal/lib/logger/sl"
	"playgrounds/internal/models"
)

type RatingsResponse struct {
	response.Response
	Ratings []models.SpaceRating `json:"ratings"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RatingsGetter
type RatingsGetter interface {
	ListSpaceRatings(ctx context.Context, spaceID int64) ([]models.SpaceRating, error)
}

func New(log *slog.Logger, getter RatingsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.space.getRatings.New"

		log = log.With(slog.String("op", op))

		spaceID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid space id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid space id format"))
			return
		}

		ratings, err := getter.ListSpaceRatings(r.Context(), spaceID)
		if err != nil {
			log.Error("failed to get ratings", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get ratings"))
			return
		}

		log.Info("ratings retrieved", slog.Int("count", len(ratings)))

		render.JSON(w, r, RatingsResponse{
			Response: response.OK(),
			Ratings:  ratings,
		})
	}
}
