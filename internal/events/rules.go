// Package events implements the event lifecycle core: the membership and
// capacity rules, the status state machine, the orchestrating service and the
// scheduled reconciler. Every status mutation in the system, whether triggered
// by a client action or by the reconciler, goes through the guards in this
// package.
package events

import (
	"time"

	"playgrounds/internal/models"
)

// MinGroupSize is the smallest legal value for both min and max participants.
const MinGroupSize = 2

// SuspendLookahead is how far ahead of an event's start time the reconciler
// looks when suspending under-subscribed events.
const SuspendLookahead = time.Hour

// ValidateNew checks the creation constraints on participant bounds and date.
func ValidateNew(e *models.Event, now time.Time) error {
	if e.MinParticipants < MinGroupSize || e.MaxParticipants < MinGroupSize {
		return ErrMinAboveMax
	}
	if e.MinParticipants > e.MaxParticipants {
		return ErrMinAboveMax
	}
	if !e.DateTime.After(now) {
		return ErrDateInPast
	}
	return nil
}

// CanJoin decides whether userID may join the event in its current state.
func CanJoin(e *models.Event, userID int64) error {
	if e.Status != models.StatusAvailable && e.Status != models.StatusConfirmed {
		return ErrEventNotOpen
	}
	if e.IsFull() {
		return ErrEventFull
	}
	if e.HasParticipant(userID) {
		return ErrAlreadyJoined
	}
	return nil
}

// CanLeave decides whether userID may leave the event. Once the participant
// count has reached the minimum the group is considered committed and leaving
// is locked, even while the event is still AVAILABLE.
func CanLeave(e *models.Event, userID int64, now time.Time) error {
	if e.Creator.ID == userID {
		return ErrCreatorCannotLeave
	}
	if e.Status != models.StatusAvailable {
		return ErrEventNotAvailable
	}
	if !e.DateTime.After(now) {
		return ErrEventStarted
	}
	if len(e.Participants) >= e.MinParticipants {
		return ErrMinimumReached
	}
	if !e.HasParticipant(userID) {
		return ErrNotAMember
	}
	return nil
}

// CanUpdate decides whether userID may apply the patch to the event.
func CanUpdate(e *models.Event, userID int64, patch models.EventPatch) error {
	if e.Creator.ID != userID {
		return ErrNotCreator
	}
	if e.Status != models.StatusAvailable {
		return ErrEventNotAvailable
	}

	min := e.MinParticipants
	max := e.MaxParticipants
	if patch.MinParticipants != nil {
		min = *patch.MinParticipants
	}
	if patch.MaxParticipants != nil {
		max = *patch.MaxParticipants
	}
	if min < MinGroupSize || max < MinGroupSize || min > max {
		return ErrMinAboveMax
	}
	if max < len(e.Participants) {
		return ErrMaxBelowParticipants
	}
	return nil
}

// CanCancel decides whether userID may cancel the event.
func CanCancel(e *models.Event, userID int64) error {
	if e.Creator.ID != userID {
		return ErrNotCreator
	}
	if e.Status != models.StatusAvailable {
		return ErrEventNotAvailable
	}
	return nil
}

// ShouldConfirm reports whether an AVAILABLE event has gathered enough
// participants to flip to CONFIRMED. Evaluated after every admission, inside
// the same transaction that inserted the participant.
func ShouldConfirm(e *models.Event) bool {
	return e.Status == models.StatusAvailable && len(e.Participants) >= e.MinParticipants
}

// ShouldSuspend reports whether an AVAILABLE event starting within the
// lookahead window is still under-subscribed and must be suspended.
func ShouldSuspend(e *models.Event, now time.Time) bool {
	if e.Status != models.StatusAvailable {
		return false
	}
	if !e.DateTime.After(now) || e.DateTime.After(now.Add(SuspendLookahead)) {
		return false
	}
	return len(e.Participants) < e.MinParticipants
}

// ShouldFinish reports whether an event's start time has passed while it was
// still AVAILABLE or CONFIRMED.
func ShouldFinish(e *models.Event, now time.Time) bool {
	if e.Status != models.StatusAvailable && e.Status != models.StatusConfirmed {
		return false
	}
	return e.DateTime.Before(now)
}
