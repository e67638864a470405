package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"partnerhub/internal/model"
)

func newTestEvent(partnerID int64, start time.Time) *model.Event {
	return &model.Event{
		PartnerID: partnerID,
		Name:      "wine tasting",
		StartDate: start,
		EndDate:   start.Add(2 * time.Hour),
		Capacity:  10,
		Price:     25,
		Currency:  "EUR",
	}
}

func TestMemoryRepository_CancelEventIsConditional(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryRepository()
	id, err := m.CreateEvent(ctx, newTestEvent(1, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	now := time.Now()
	ok, err := m.CancelEvent(ctx, id, "venue flooded", now)
	require.NoError(t, err)
	require.True(t, ok)

	// Second cancel hits the status guard and reports no change.
	ok, err = m.CancelEvent(ctx, id, "again", now)
	require.NoError(t, err)
	require.False(t, ok)

	e, err := m.GetEventByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.EventStatusCancelled, e.Status)
	require.Equal(t, "venue flooded", e.CancellationReason)
	require.NotNil(t, e.CancelledAt)
}

func TestMemoryRepository_LinkOfferToPartnerEventsIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryRepository()
	start := time.Now().Add(24 * time.Hour)

	var eventIDs []int64
	for i := 0; i < 3; i++ {
		id, err := m.CreateEvent(ctx, newTestEvent(7, start.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
		eventIDs = append(eventIDs, id)
	}
	otherID, err := m.CreateEvent(ctx, newTestEvent(8, start))
	require.NoError(t, err)

	offerID, err := m.CreateOffer(ctx, &model.Offer{PartnerID: 7, Percentage: 15, StartDate: time.Now()})
	require.NoError(t, err)

	require.NoError(t, m.LinkOfferToPartnerEvents(ctx, offerID, 7))
	require.NoError(t, m.LinkOfferToPartnerEvents(ctx, offerID, 7))

	linked, err := m.GetEventsByOffer(ctx, offerID)
	require.NoError(t, err)
	require.Len(t, linked, len(eventIDs))

	other, err := m.GetEventByID(ctx, otherID)
	require.NoError(t, err)
	require.Nil(t, other.OfferID, "another partner's event must not be linked")
}

func TestMemoryRepository_DeleteOfferUnlinksEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryRepository()
	start := time.Now().Add(24 * time.Hour)

	eventID, err := m.CreateEvent(ctx, newTestEvent(3, start))
	require.NoError(t, err)
	offerID, err := m.CreateOffer(ctx, &model.Offer{PartnerID: 3, Percentage: 10, StartDate: time.Now()})
	require.NoError(t, err)
	require.NoError(t, m.SetEventOffer(ctx, eventID, &offerID))

	require.NoError(t, m.DeleteOffer(ctx, offerID))

	e, err := m.GetEventByID(ctx, eventID)
	require.NoError(t, err)
	require.Nil(t, e.OfferID)

	remaining, err := m.GetEventsByOffer(ctx, offerID)
	require.NoError(t, err)
	require.Empty(t, remaining)

	_, err = m.GetOfferByID(ctx, offerID)
	require.ErrorIs(t, err, ErrOfferNotFound)
}

func TestMemoryRepository_RegistrationGuards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryRepository()

	e := newTestEvent(1, time.Now().Add(24*time.Hour))
	e.Capacity = 2
	eventID, err := m.CreateEvent(ctx, e)
	require.NoError(t, err)

	_, err = m.CreateRegistration(ctx, eventID, 100)
	require.NoError(t, err)

	_, err = m.CreateRegistration(ctx, eventID, 100)
	require.ErrorIs(t, err, ErrDuplicateRegistration)

	_, err = m.CreateRegistration(ctx, eventID, 101)
	require.NoError(t, err)

	_, err = m.CreateRegistration(ctx, eventID, 102)
	require.ErrorIs(t, err, ErrEventFull)

	count, err := m.CountRegistrations(ctx, eventID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	_, err = m.CreateRegistration(ctx, 9999, 100)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestMemoryRepository_ParticipantEmailsPreferContactMail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryRepository()

	userID, err := m.CreateUser(ctx, &model.User{Email: "login@example.com", Username: "u1", PasswordHash: "x"})
	require.NoError(t, err)
	withContact, err := m.CreatePartner(ctx, &model.BusinessPartner{UserID: userID, Name: "A", ContactMail: "biz@example.com"})
	require.NoError(t, err)

	userID2, err := m.CreateUser(ctx, &model.User{Email: "fallback@example.com", Username: "u2", PasswordHash: "x"})
	require.NoError(t, err)
	withoutContact, err := m.CreatePartner(ctx, &model.BusinessPartner{UserID: userID2, Name: "B"})
	require.NoError(t, err)

	eventID, err := m.CreateEvent(ctx, newTestEvent(1, time.Now().Add(24*time.Hour)))
	require.NoError(t, err)
	_, err = m.CreateRegistration(ctx, eventID, withContact)
	require.NoError(t, err)
	_, err = m.CreateRegistration(ctx, eventID, withoutContact)
	require.NoError(t, err)

	emails, err := m.GetParticipantEmails(ctx, eventID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"biz@example.com", "fallback@example.com"}, emails)
}

func TestMemoryRepository_RegistrationTimesScopedToPartnerWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryRepository()
	now := time.Now()

	mine, err := m.CreateEvent(ctx, newTestEvent(5, now.Add(24*time.Hour)))
	require.NoError(t, err)
	theirs, err := m.CreateEvent(ctx, newTestEvent(6, now.Add(24*time.Hour)))
	require.NoError(t, err)

	m.SeedRegistrationAt(mine, 20, now.Add(-40*24*time.Hour))
	m.SeedRegistrationAt(mine, 21, now.Add(-10*24*time.Hour))
	m.SeedRegistrationAt(theirs, 22, now.Add(-5*24*time.Hour))

	times, err := m.GetRegistrationTimes(ctx, 5, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, times, 1, "only my event's registration inside the window")
}

func TestMemoryRepository_DuplicateEmailRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryRepository()

	_, err := m.CreateUser(ctx, &model.User{Email: "a@example.com", Username: "a", PasswordHash: "x"})
	require.NoError(t, err)
	_, err = m.CreateUser(ctx, &model.User{Email: "a@example.com", Username: "b", PasswordHash: "x"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}
