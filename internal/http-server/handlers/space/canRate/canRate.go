package canRate

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"playgrounds/internal/http-server/middleware/identity"
	"playgrounds/internal/lib/api/response"
	"playgrounds/internal/lib/logger/sl"
)

type CanRateResponse struct {
	response.Response
	CanRate bool   `json:"can_rate"`
	Reason  string `json:"reason,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RatingChecker
type RatingChecker interface {
	CanRateSpace(ctx context.Context, spaceID, userID int64) (bool, string, error)
}

func New(log *slog.Logger, checker RatingChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.space.canRate.New"

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

		canRate, reason, err := checker.CanRateSpace(r.Context(), spaceID, user.ID)
		if err != nil {
			log.Error("failed to check rating eligibility", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to check rating eligibility"))
			return
		}

		render.JSON(w, r, CanRateResponse{
			Response: response.OK(),
			CanRate:  canRate,
			Reason:   reason,
		})
	}
}
