package events

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrSpaceNotFound = errors.New("space not found")
	ErrSportNotFound = errors.New("sport not found")

	// ErrNotCreator is returned when a non-creator attempts a creator-only action.
	ErrNotCreator = errors.New("only the event creator may perform this action")

	// ErrEventNotOpen rejects joining an event that is not AVAILABLE or CONFIRMED.
	ErrEventNotOpen = errors.New("event is not open for joining")

	ErrEventFull     = errors.New("event is full")
	ErrAlreadyJoined = errors.New("user is already a participant")
	ErrNotAMember    = errors.New("user is not a participant")

	// ErrEventNotAvailable rejects leave/update/cancel once the event has left AVAILABLE.
	ErrEventNotAvailable = errors.New("event is no longer available")

	// ErrEventStarted rejects leaving an event whose start time has passed.
	ErrEventStarted = errors.New("event has already started")

	// ErrMinimumReached rejects leaving once enough participants have committed.
	ErrMinimumReached = errors.New("minimum participant count reached, leaving is locked")

	ErrCreatorCannotLeave = errors.New("the creator cannot leave their own event")

	// Constraint violations on create/update.
	ErrMaxBelowParticipants = errors.New("max participants cannot be below current participant count")
	ErrMinAboveMax          = errors.New("min participants cannot exceed max participants")
	ErrSportNotOffered      = errors.New("sport is not offered at this space")
	ErrDateInPast           = errors.New("event date must be in the future")
)
