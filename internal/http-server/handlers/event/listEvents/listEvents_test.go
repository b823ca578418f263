package listEvents

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playgrounds/internal/models"
)

func TestParseFilter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		url     string
		want    models.EventFilter
		wantErr string
	}{
		{
			name: "empty query",
			url:  "/events",
			want: models.EventFilter{},
		},
		{
			name: "statuses and future flag",
			url:  "/events?status=available,confirmed&future_only=true",
			want: models.EventFilter{
				Statuses:   []models.EventStatus{models.StatusAvailable, models.StatusConfirmed},
				FutureOnly: true,
			},
		},
		{
			name: "sport and space filters",
			url:  "/events?sport_ids=3,7&space_id=10",
			want: models.EventFilter{
				SportIDs: []int64{3, 7},
				SpaceID:  10,
			},
		},
		{
			name: "participant and paging",
			url:  "/events?participant_id=2&page=3&page_size=20",
			want: models.EventFilter{
				ParticipantID: 2,
				Page:          3,
				PageSize:      20,
			},
		},
		{
			name:    "bad sport id",
			url:     "/events?sport_ids=3,abc",
			wantErr: "invalid query parameter: sport_ids",
		},
		{
			name:    "bad latitude",
			url:     "/events?min_lat=north",
			wantErr: "invalid query parameter: min_lat",
		},
		{
			name:    "bad page",
			url:     "/events?page=first",
			wantErr: "invalid query parameter: page",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)

			got, err := parseFilter(req)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, err.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFilterBoundingBox(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/events?min_lat=55.5&max_lat=56.0&min_lng=37.3&max_lng=37.9", nil)

	got, err := parseFilter(req)
	require.NoError(t, err)

	require.NotNil(t, got.MinLat)
	require.NotNil(t, got.MaxLat)
	require.NotNil(t, got.MinLng)
	require.NotNil(t, got.MaxLng)
	assert.Equal(t, 55.5, *got.MinLat)
	assert.Equal(t, 56.0, *got.MaxLat)
	assert.Equal(t, 37.3, *got.MinLng)
	assert.Equal(t, 37.9, *got.MaxLng)
}
