package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"playgrounds/internal/events"
	"playgrounds/internal/events/mocks"
	"playgrounds/internal/lib/logger/handlers/slogdiscard"
	"playgrounds/internal/models"
)

func TestReconcilerSuspendsUnderSubscribed(t *testing.T) {
	t.Parallel()

	soon := testEvent(models.StatusAvailable, 3, 6, 1)
	soon.DateTime = time.Now().Add(30 * time.Minute)

	storeMock := mocks.NewEventStore(t)
	notifierMock := mocks.NewNotifier(t)

	storeMock.On("EventsNearingStart", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]models.Event{*soon}, nil).Once()
	storeMock.On("SetStatus", mock.Anything, soon.ID, models.StatusAvailable, models.StatusSuspended).
		Return(true, nil).Once()
	notifierMock.On("EventSuspended", mock.Anything, mock.AnythingOfType("*models.Event")).Return(nil).Once()
	storeMock.On("EventsPastStart", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, nil).Once()

	r := events.NewReconciler(slogdiscard.NewDiscardLogger(), storeMock, notifierMock, time.Minute)
	r.Sweep(context.Background())
}

func TestReconcilerSkipsWellSubscribed(t *testing.T) {
	t.Parallel()

	soon := testEvent(models.StatusAvailable, 2, 6, 1, 2)
	soon.DateTime = time.Now().Add(30 * time.Minute)

	storeMock := mocks.NewEventStore(t)
	notifierMock := mocks.NewNotifier(t)

	// Enough participants: no status change and no notification expected.
	storeMock.On("EventsNearingStart", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]models.Event{*soon}, nil).Once()
	storeMock.On("EventsPastStart", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, nil).Once()

	r := events.NewReconciler(slogdiscard.NewDiscardLogger(), storeMock, notifierMock, time.Minute)
	r.Sweep(context.Background())
}

func TestReconcilerLostRaceSendsNothing(t *testing.T) {
	t.Parallel()

	soon := testEvent(models.StatusAvailable, 3, 6, 1)
	soon.DateTime = time.Now().Add(30 * time.Minute)

	storeMock := mocks.NewEventStore(t)
	notifierMock := mocks.NewNotifier(t)

	// Another sweep or a client action moved the event first: the
	// compare-and-set fails and no suspension notification goes out.
	storeMock.On("EventsNearingStart", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]models.Event{*soon}, nil).Once()
	storeMock.On("SetStatus", mock.Anything, soon.ID, models.StatusAvailable, models.StatusSuspended).
		Return(false, nil).Once()
	storeMock.On("EventsPastStart", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, nil).Once()

	r := events.NewReconciler(slogdiscard.NewDiscardLogger(), storeMock, notifierMock, time.Minute)
	r.Sweep(context.Background())
}

func TestReconcilerFinishesPastEvents(t *testing.T) {
	t.Parallel()

	pastConfirmed := testEvent(models.StatusConfirmed, 2, 4, 1, 2)
	pastConfirmed.DateTime = time.Now().Add(-time.Hour)

	pastAvailable := testEvent(models.StatusAvailable, 3, 4, 1)
	pastAvailable.ID = 2
	pastAvailable.DateTime = time.Now().Add(-2 * time.Hour)

	storeMock := mocks.NewEventStore(t)
	notifierMock := mocks.NewNotifier(t)

	storeMock.On("EventsNearingStart", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(nil, nil).Once()
	storeMock.On("EventsPastStart", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]models.Event{*pastConfirmed, *pastAvailable}, nil).Once()
	storeMock.On("SetStatus", mock.Anything, pastConfirmed.ID, models.StatusConfirmed, models.StatusFinished).
		Return(true, nil).Once()
	storeMock.On("SetStatus", mock.Anything, pastAvailable.ID, models.StatusAvailable, models.StatusFinished).
		Return(true, nil).Once()

	r := events.NewReconciler(slogdiscard.NewDiscardLogger(), storeMock, notifierMock, time.Minute)
	r.Sweep(context.Background())
}

func TestReconcilerIsolatesSweepFailures(t *testing.T) {
	t.Parallel()

	storeMock := mocks.NewEventStore(t)
	notifierMock := mocks.NewNotifier(t)

	// A failing suspend pass must not stop the finish pass.
	storeMock.On("EventsNearingStart", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("connection refused")).Once()
	storeMock.On("EventsPastStart", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, nil).Once()

	r := events.NewReconciler(slogdiscard.NewDiscardLogger(), storeMock, notifierMock, time.Minute)
	r.Sweep(context.Background())
}

func TestReconcilerIsolatesEventFailures(t *testing.T) {
	t.Parallel()

	first := testEvent(models.StatusAvailable, 3, 6, 1)
	first.DateTime = time.Now().Add(20 * time.Minute)

	second := testEvent(models.StatusAvailable, 3, 6, 1)
	second.ID = 2
	second.DateTime = time.Now().Add(40 * time.Minute)

	storeMock := mocks.NewEventStore(t)
	notifierMock := mocks.NewNotifier(t)

	// A failed transition on one event must not skip the rest.
	storeMock.On("EventsNearingStart", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]models.Event{*first, *second}, nil).Once()
	storeMock.On("SetStatus", mock.Anything, first.ID, models.StatusAvailable, models.StatusSuspended).
		Return(false, errors.New("deadlock detected")).Once()
	storeMock.On("SetStatus", mock.Anything, second.ID, models.StatusAvailable, models.StatusSuspended).
		Return(true, nil).Once()
	notifierMock.On("EventSuspended", mock.Anything, mock.AnythingOfType("*models.Event")).Return(nil).Once()
	storeMock.On("EventsPastStart", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, nil).Once()

	r := events.NewReconciler(slogdiscard.NewDiscardLogger(), storeMock, notifierMock, time.Minute)
	r.Sweep(context.Background())
}
