package listEvents

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"playgrounds/internal/lib/api/response"
	"playgrounds/internal/lib/logger/sl"
	"playgrounds/internal/models"
)

type ListResponse struct {
	response.Response
	*models.EventPage
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventLister
type EventLister interface {
	List(ctx context.Context, filter models.EventFilter) (*models.EventPage, error)
}

func New(log *slog.Logger, lister EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.listEvents.New"

		log = log.With(slog.String("op", op))

		filter, err := parseFilter(r)
		if err != nil {
			log.Error("invalid filter", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		page, err := lister.List(r.Context(), filter)
		if err != nil {
			log.Error("failed to list events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list events"))
			return
		}

		log.Info("events listed", slog.Int("count", len(page.Events)), slog.Int("total", page.Total))

		render.JSON(w, r, ListResponse{
			Response:  response.OK(),
			EventPage: page,
		})
	}
}

func parseFilter(r *http.Request) (models.EventFilter, error) {
	q := r.URL.Query()
	var f models.EventFilter

	if v := q.Get("status"); v != "" {
		for _, s := range strings.Split(v, ",") {
			f.Statuses = append(f.Statuses, models.EventStatus(s))
		}
	}
	f.FutureOnly = q.Get("future_only") == "true"

	if v := q.Get("sport_ids"); v != "" {
		for _, s := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return f, errInvalid("sport_ids")
			}
			f.SportIDs = append(f.SportIDs, id)
		}
	}

	var err error
	if f.SpaceID, err = parseIntParam(q.Get("space_id")); err != nil {
		return f, errInvalid("space_id")
	}
	if f.ParticipantID, err = parseIntParam(q.Get("participant_id")); err != nil {
		return f, errInvalid("participant_id")
	}

	if f.MinLat, err = parseFloatParam(q.Get("min_lat")); err != nil {
		return f, errInvalid("min_lat")
	}
	if f.MaxLat, err = parseFloatParam(q.Get("max_lat")); err != nil {
		return f, errInvalid("max_lat")
	}
	if f.MinLng, err = parseFloatParam(q.Get("min_lng")); err != nil {
		return f, errInvalid("min_lng")
	}
	if f.MaxLng, err = parseFloatParam(q.Get("max_lng")); err != nil {
		return f, errInvalid("max_lng")
	}

	if page, err := parseIntParam(q.Get("page")); err != nil {
		return f, errInvalid("page")
	} else {
		f.Page = int(page)
	}
	if size, err := parseIntParam(q.Get("page_size")); err != nil {
		return f, errInvalid("page_size")
	} else {
		f.PageSize = int(size)
	}

	return f, nil
}

func parseIntParam(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func parseFloatParam(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	fv, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &fv, nil
}

type errInvalid string

func (e errInvalid) Error() string {
	return "invalid query parameter: " + string(e)
}
