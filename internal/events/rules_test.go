package events_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playgrounds/internal/events"
	"playgrounds/internal/models"
)

func testEvent(status models.EventStatus, min, max int, participantIDs ...int64) *models.Event {
	e := &models.Event{
		ID:              1,
		Title:           "Friendly match",
		DateTime:        time.Now().Add(24 * time.Hour),
		Status:          status,
		MinParticipants: min,
		MaxParticipants: max,
		Creator:         models.User{ID: 1, Name: "creator"},
	}
	for _, id := range participantIDs {
		e.Participants = append(e.Participants, models.User{ID: id})
	}
	return e
}

func TestCanJoin(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		event   *models.Event
		userID  int64
		wantErr error
	}{
		{
			name:   "available event with room",
			event:  testEvent(models.StatusAvailable, 2, 4, 1),
			userID: 2,
		},
		{
			name:   "confirmed event still joinable",
			event:  testEvent(models.StatusConfirmed, 2, 4, 1, 2),
			userID: 3,
		},
		{
			name:    "suspended event is not open",
			event:   testEvent(models.StatusSuspended, 2, 4, 1),
			userID:  2,
			wantErr: events.ErrEventNotOpen,
		},
		{
			name:    "cancelled event is not open",
			event:   testEvent(models.StatusCancelled, 2, 4, 1),
			userID:  2,
			wantErr: events.ErrEventNotOpen,
		},
		{
			name:    "finished event is not open",
			event:   testEvent(models.StatusFinished, 2, 4, 1),
			userID:  2,
			wantErr: events.ErrEventNotOpen,
		},
		{
			name:    "full event",
			event:   testEvent(models.StatusConfirmed, 2, 3, 1, 2, 3),
			userID:  4,
			wantErr: events.ErrEventFull,
		},
		{
			name:    "duplicate join",
			event:   testEvent(models.StatusAvailable, 2, 4, 1, 2),
			userID:  2,
			wantErr: events.ErrAlreadyJoined,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := events.CanJoin(tc.event, tc.userID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanLeave(t *testing.T) {
	t.Parallel()

	now := time.Now()

	testCases := []struct {
		name    string
		event   *models.Event
		userID  int64
		wantErr error
	}{
		{
			name:   "member leaves before minimum is reached",
			event:  testEvent(models.StatusAvailable, 3, 5, 1, 2),
			userID: 2,
		},
		{
			name:    "creator cannot leave",
			event:   testEvent(models.StatusAvailable, 3, 5, 1, 2),
			userID:  1,
			wantErr: events.ErrCreatorCannotLeave,
		},
		{
			name:    "leaving is locked at the minimum",
			event:   testEvent(models.StatusAvailable, 2, 5, 1, 2),
			userID:  2,
			wantErr: events.ErrMinimumReached,
		},
		{
			name:    "confirmed event cannot be left",
			event:   testEvent(models.StatusConfirmed, 2, 5, 1, 2),
			userID:  2,
			wantErr: events.ErrEventNotAvailable,
		},
		{
			name:    "not a participant",
			event:   testEvent(models.StatusAvailable, 3, 5, 1, 2),
			userID:  7,
			wantErr: events.ErrNotAMember,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := events.CanLeave(tc.event, tc.userID, now)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanLeavePastEvent(t *testing.T) {
	t.Parallel()

	e := testEvent(models.StatusAvailable, 3, 5, 1, 2)
	e.DateTime = time.Now().Add(-time.Hour)

	err := events.CanLeave(e, 2, time.Now())
	assert.ErrorIs(t, err, events.ErrEventStarted)
}

func TestCanUpdate(t *testing.T) {
	t.Parallel()

	intPtr := func(v int) *int { return &v }

	testCases := []struct {
		name    string
		event   *models.Event
		userID  int64
		patch   models.EventPatch
		wantErr error
	}{
		{
			name:   "creator updates available event",
			event:  testEvent(models.StatusAvailable, 2, 4, 1),
			userID: 1,
			patch:  models.EventPatch{MaxParticipants: intPtr(6)},
		},
		{
			name:    "non-creator is forbidden",
			event:   testEvent(models.StatusAvailable, 2, 4, 1, 2),
			userID:  2,
			patch:   models.EventPatch{MaxParticipants: intPtr(6)},
			wantErr: events.ErrNotCreator,
		},
		{
			name:    "confirmed event cannot be updated",
			event:   testEvent(models.StatusConfirmed, 2, 4, 1, 2),
			userID:  1,
			patch:   models.EventPatch{MaxParticipants: intPtr(6)},
			wantErr: events.ErrEventNotAvailable,
		},
		{
			name:    "max below current participant count",
			event:   testEvent(models.StatusAvailable, 2, 5, 1, 2, 3),
			userID:  1,
			patch:   models.EventPatch{MaxParticipants: intPtr(2)},
			wantErr: events.ErrMaxBelowParticipants,
		},
		{
			name:    "min above max",
			event:   testEvent(models.StatusAvailable, 2, 4, 1),
			userID:  1,
			patch:   models.EventPatch{MinParticipants: intPtr(5)},
			wantErr: events.ErrMinAboveMax,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := events.CanUpdate(tc.event, tc.userID, tc.patch)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanCancel(t *testing.T) {
	t.Parallel()

	assert.NoError(t, events.CanCancel(testEvent(models.StatusAvailable, 2, 4, 1), 1))
	assert.ErrorIs(t, events.CanCancel(testEvent(models.StatusAvailable, 2, 4, 1), 2), events.ErrNotCreator)
	assert.ErrorIs(t, events.CanCancel(testEvent(models.StatusConfirmed, 2, 4, 1, 2), 1), events.ErrEventNotAvailable)
	assert.ErrorIs(t, events.CanCancel(testEvent(models.StatusCancelled, 2, 4, 1), 1), events.ErrEventNotAvailable)
}

func TestShouldConfirm(t *testing.T) {
	t.Parallel()

	// min=2, max=4: the creator plus one join reach the minimum.
	e := testEvent(models.StatusAvailable, 2, 4, 1, 2)
	assert.True(t, events.ShouldConfirm(e))

	assert.False(t, events.ShouldConfirm(testEvent(models.StatusAvailable, 3, 4, 1, 2)))
	assert.False(t, events.ShouldConfirm(testEvent(models.StatusConfirmed, 2, 4, 1, 2)))
}

func TestShouldSuspend(t *testing.T) {
	t.Parallel()

	now := time.Now()

	inWindow := testEvent(models.StatusAvailable, 2, 4, 1)
	inWindow.DateTime = now.Add(30 * time.Minute)
	assert.True(t, events.ShouldSuspend(inWindow, now))

	enough := testEvent(models.StatusAvailable, 2, 4, 1, 2)
	enough.DateTime = now.Add(30 * time.Minute)
	assert.False(t, events.ShouldSuspend(enough, now))

	farOut := testEvent(models.StatusAvailable, 2, 4, 1)
	farOut.DateTime = now.Add(2 * time.Hour)
	assert.False(t, events.ShouldSuspend(farOut, now))

	alreadySuspended := testEvent(models.StatusSuspended, 2, 4, 1)
	alreadySuspended.DateTime = now.Add(30 * time.Minute)
	assert.False(t, events.ShouldSuspend(alreadySuspended, now))

	past := testEvent(models.StatusAvailable, 2, 4, 1)
	past.DateTime = now.Add(-time.Minute)
	assert.False(t, events.ShouldSuspend(past, now))
}

func TestShouldFinish(t *testing.T) {
	t.Parallel()

	now := time.Now()

	pastConfirmed := testEvent(models.StatusConfirmed, 2, 4, 1, 2)
	pastConfirmed.DateTime = now.Add(-time.Hour)
	assert.True(t, events.ShouldFinish(pastConfirmed, now))

	pastAvailable := testEvent(models.StatusAvailable, 2, 4, 1)
	pastAvailable.DateTime = now.Add(-time.Hour)
	assert.True(t, events.ShouldFinish(pastAvailable, now))

	pastCancelled := testEvent(models.StatusCancelled, 2, 4, 1)
	pastCancelled.DateTime = now.Add(-time.Hour)
	assert.False(t, events.ShouldFinish(pastCancelled, now))

	future := testEvent(models.StatusConfirmed, 2, 4, 1, 2)
	assert.False(t, events.ShouldFinish(future, now))
}

func TestValidateNew(t *testing.T) {
	t.Parallel()

	now := time.Now()

	ok := testEvent(models.StatusAvailable, 2, 4, 1)
	assert.NoError(t, events.ValidateNew(ok, now))

	minTooSmall := testEvent(models.StatusAvailable, 1, 4, 1)
	assert.ErrorIs(t, events.ValidateNew(minTooSmall, now), events.ErrMinAboveMax)

	minOverMax := testEvent(models.StatusAvailable, 5, 4, 1)
	assert.ErrorIs(t, events.ValidateNew(minOverMax, now), events.ErrMinAboveMax)

	past := testEvent(models.StatusAvailable, 2, 4, 1)
	past.DateTime = now.Add(-time.Minute)
	assert.ErrorIs(t, events.ValidateNew(past, now), events.ErrDateInPast)
}

// TestCapacityNeverExceeded drives random join/leave sequences through the
// rules and checks the participant cap is never broken.
func TestCapacityNeverExceeded(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	for i := 0; i < 200; i++ {
		min := 2 + rng.Intn(3)
		max := min + rng.Intn(4)
		e := testEvent(models.StatusAvailable, min, max, 1)

		for step := 0; step < 50; step++ {
			userID := int64(1 + rng.Intn(max+3))

			if rng.Intn(2) == 0 {
				if err := events.CanJoin(e, userID); err == nil {
					e.Participants = append(e.Participants, models.User{ID: userID})
					if events.ShouldConfirm(e) {
						e.Status = models.StatusConfirmed
					}
				}
			} else {
				if err := events.CanLeave(e, userID, now); err == nil {
					kept := e.Participants[:0]
					for _, p := range e.Participants {
						if p.ID != userID {
							kept = append(kept, p)
						}
					}
					e.Participants = kept
				}
			}

			require.LessOrEqual(t, len(e.Participants), e.MaxParticipants)
			require.True(t, e.HasParticipant(e.Creator.ID), "creator must never be removed")
		}
	}
}
