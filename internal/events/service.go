package events

import (
	"context"
	"log/slog"
	"time"

	"playgrounds/internal/lib/logger/sl"
	"playgrounds/internal/models"
)

// EventStore is the persistence port for events and participant membership.
// Membership mutations must re-check the rules in this package under the same
// transaction that performs the write; SetStatus is a compare-and-set so a
// transition observed by one actor can never be repeated by another.
//
//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventStore
type EventStore interface {
	CreateEvent(ctx context.Context, e *models.Event) (int64, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context, filter models.EventFilter) (*models.EventPage, error)
	// AddParticipant admits userID under a row lock and reports whether the
	// admission flipped the event to CONFIRMED in the same transaction.
	AddParticipant(ctx context.Context, eventID, userID int64) (*models.Event, bool, error)
	RemoveParticipant(ctx context.Context, eventID, userID int64) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID, userID int64, patch models.EventPatch) (*models.Event, error)
	// SetStatus transitions eventID from -> to and reports whether this call
	// performed the transition.
	SetStatus(ctx context.Context, eventID int64, from, to models.EventStatus) (bool, error)
	// EventsNearingStart returns AVAILABLE events starting in (from, to], with
	// participants loaded.
	EventsNearingStart(ctx context.Context, from, to time.Time) ([]models.Event, error)
	// EventsPastStart returns AVAILABLE and CONFIRMED events starting before now.
	EventsPastStart(ctx context.Context, now time.Time) ([]models.Event, error)
	// SpaceRegulars returns distinct users with prior events at the space.
	SpaceRegulars(ctx context.Context, spaceID, excludeUserID int64) ([]models.User, error)
}

// SpaceCatalog resolves space and sport references at event creation.
//
//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SpaceCatalog
type SpaceCatalog interface {
	GetSpace(ctx context.Context, id int64) (*models.Space, error)
	GetSport(ctx context.Context, id int64) (*models.Sport, error)
}

// Notifier delivers best-effort notifications to participants. Errors are
// logged by the caller and never abort the action that triggered them.
//
//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Notifier
type Notifier interface {
	EventConfirmed(ctx context.Context, e *models.Event) error
	EventSuspended(ctx context.Context, e *models.Event) error
	EventCancelled(ctx context.Context, e *models.Event) error
	EventUpdated(ctx context.Context, e *models.Event) error
	NewEventNearby(ctx context.Context, e *models.Event, candidates []models.User) error
}

// Service orchestrates event actions between the store, the catalog and the
// notifier. All notifications are emitted after the corresponding state
// change has been committed.
type Service struct {
	log      *slog.Logger
	store    EventStore
	catalog  SpaceCatalog
	notifier Notifier
	now      func() time.Time
}

func NewService(log *slog.Logger, store EventStore, catalog SpaceCatalog, notifier Notifier) *Service {
	return &Service{
		log:      log,
		store:    store,
		catalog:  catalog,
		notifier: notifier,
		now:      time.Now,
	}
}

// NewEvent is the creation payload for Create.
type NewEvent struct {
	Title           string
	Description     string
	DateTime        time.Time
	MinParticipants int
	MaxParticipants int
	SpaceID         int64
	SportID         int64
}

// Create validates the space/sport pairing, persists the event in AVAILABLE
// with the creator as its first participant and notifies space regulars.
func (s *Service) Create(ctx context.Context, req NewEvent, creator models.User) (*models.Event, error) {
	space, err := s.catalog.GetSpace(ctx, req.SpaceID)
	if err != nil {
		return nil, err
	}
	sport, err := s.catalog.GetSport(ctx, req.SportID)
	if err != nil {
		return nil, err
	}
	if !space.OffersSport(sport.ID) {
		return nil, ErrSportNotOffered
	}

	e := &models.Event{
		Title:           req.Title,
		Description:     req.Description,
		DateTime:        req.DateTime,
		Status:          models.StatusAvailable,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
		Creator:         creator,
		Space:           *space,
		Sport:           *sport,
		Participants:    []models.User{creator},
	}
	if err := ValidateNew(e, s.now()); err != nil {
		return nil, err
	}

	id, err := s.store.CreateEvent(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id

	candidates, err := s.store.SpaceRegulars(ctx, space.ID, creator.ID)
	if err != nil {
		s.log.Warn("failed to load space regulars", slog.Int64("space_id", space.ID), sl.Err(err))
	} else if len(candidates) > 0 {
		if err := s.notifier.NewEventNearby(ctx, e, candidates); err != nil {
			s.log.Warn("failed to notify space regulars", slog.Int64("event_id", e.ID), sl.Err(err))
		}
	}

	return e, nil
}

// Get returns a single event with its relations loaded.
func (s *Service) Get(ctx context.Context, id int64) (*models.Event, error) {
	return s.store.GetEvent(ctx, id)
}

// List returns a filtered page of events.
func (s *Service) List(ctx context.Context, filter models.EventFilter) (*models.EventPage, error) {
	return s.store.ListEvents(ctx, filter)
}

// Join admits the user. If the admission reached the minimum participant
// count the event was flipped to CONFIRMED inside the same transaction and
// participants are notified here, after commit.
func (s *Service) Join(ctx context.Context, eventID int64, user models.User) (*models.Event, error) {
	e, confirmed, err := s.store.AddParticipant(ctx, eventID, user.ID)
	if err != nil {
		return nil, err
	}

	if confirmed {
		s.log.Info("event confirmed",
			slog.Int64("event_id", e.ID),
			slog.Int("participants", len(e.Participants)),
		)
		if err := s.notifier.EventConfirmed(ctx, e); err != nil {
			s.log.Warn("failed to send confirmation notification", slog.Int64("event_id", e.ID), sl.Err(err))
		}
	}

	return e, nil
}

// Leave removes the user, subject to the lock-in policy in CanLeave.
func (s *Service) Leave(ctx context.Context, eventID int64, user models.User) (*models.Event, error) {
	return s.store.RemoveParticipant(ctx, eventID, user.ID)
}

// Update applies a creator-only patch to an AVAILABLE event and notifies
// current participants of the change.
func (s *Service) Update(ctx context.Context, eventID int64, patch models.EventPatch, user models.User) (*models.Event, error) {
	e, err := s.store.UpdateEvent(ctx, eventID, user.ID, patch)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.EventUpdated(ctx, e); err != nil {
		s.log.Warn("failed to send update notification", slog.Int64("event_id", e.ID), sl.Err(err))
	}

	return e, nil
}

// Cancel transitions an AVAILABLE event to CANCELLED. A second cancel finds
// the compare-and-set already spent and reports the event as not available.
func (s *Service) Cancel(ctx context.Context, eventID int64, user models.User) (*models.Event, error) {
	e, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := CanCancel(e, user.ID); err != nil {
		return nil, err
	}

	swapped, err := s.store.SetStatus(ctx, eventID, models.StatusAvailable, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, ErrEventNotAvailable
	}
	e.Status = models.StatusCancelled

	s.log.Info("event cancelled", slog.Int64("event_id", e.ID))
	if err := s.notifier.EventCancelled(ctx, e); err != nil {
		s.log.Warn("failed to send cancellation notification", slog.Int64("event_id", e.ID), sl.Err(err))
	}

	return e, nil
}
