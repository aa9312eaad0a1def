package twin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
	"photoshoot-bot/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func photographerDraft() domain.ParticipantDraft {
	return domain.ParticipantDraft{
		Role:   domain.RolePhotographer,
		Name:   "Ivan",
		Price:  80,
		Photos: []domain.Photo{{Platform: domain.PlatformTelegram, FileID: "a"}, {Platform: domain.PlatformTelegram, FileID: "b"}},
	}
}

func TestCreateParticipant(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	reg := NewRegistry(gw, validation.New())

	user, err := reg.CreateUser(ctx, domain.UserDraft{
		PlatformIDs: []domain.PlatformID{{Platform: domain.PlatformTelegram, ID: 7}},
	})
	require.NoError(t, err)

	draft := photographerDraft()
	draft.UserID = &user.ID

	p, err := reg.CreateParticipant(ctx, draft)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, draft.Photos, p.Photos)
	assert.Equal(t, &user.ID, p.UserID)
	assert.Equal(t, draft.Photos, gw.photos[p.ID])
	assert.Equal(t, user.ID, gw.links[p.ID])
}

func TestCreateParticipantWithoutUserSkipsLink(t *testing.T) {
	gw := newFakeGateway()
	called := false
	gw.onAttachUsr = func() { called = true }

	p, err := NewRegistry(gw, validation.New()).CreateParticipant(context.Background(), photographerDraft())
	require.NoError(t, err)

	assert.False(t, called)
	assert.Nil(t, p.UserID)
	assert.Len(t, gw.photos[p.ID], 2)
}

func TestCreateRejectedByGateWritesNothing(t *testing.T) {
	gw := newFakeGateway()
	reg := NewRegistry(gw, validation.New())

	draft := photographerDraft()
	draft.Photos = nil

	_, err := reg.CreateParticipant(context.Background(), draft)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "participant", verr.Kind)
	var fields validator.ValidationErrors
	assert.ErrorAs(t, err, &fields)

	assert.Zero(t, gw.saves)
}

func TestCreateWithoutGate(t *testing.T) {
	gw := newFakeGateway()
	draft := photographerDraft()
	draft.Name = "1"

	_, err := NewRegistry(gw, nil).CreateParticipant(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, 1, gw.saves)
}

func TestAttachFailureKeepsBaseTwin(t *testing.T) {
	gw := newFakeGateway()
	gw.photosErr = errors.New("photo store is down")

	_, err := NewRegistry(gw, validation.New()).CreateParticipant(context.Background(), photographerDraft())
	require.Error(t, err)
	assert.Same(t, gw.photosErr, err)

	// The base record is not rolled back.
	require.Len(t, gw.participants, 1)
	for _, p := range gw.participants {
		assert.Equal(t, "Ivan", p.Name)
	}
}

func TestAttachFailureWaitsForSiblings(t *testing.T) {
	gw := newFakeGateway()
	gw.photosErr = errors.New("photo store is down")
	var linked bool
	gw.onAttachUsr = func() {
		time.Sleep(20 * time.Millisecond)
		linked = true
	}

	draft := photographerDraft()
	draft.UserID = ptr(uuid.New())

	_, err := NewRegistry(gw, nil).CreateParticipant(context.Background(), draft)
	require.Error(t, err)
	assert.True(t, linked)
}

func TestAttachRunsConcurrently(t *testing.T) {
	gw := newFakeGateway()

	var ready sync.WaitGroup
	ready.Add(2)
	both := make(chan struct{})
	go func() {
		ready.Wait()
		close(both)
	}()
	meet := func() {
		ready.Done()
		select {
		case <-both:
		case <-time.After(time.Second):
		}
	}
	var timedOut bool
	gw.onAttachPh = func() {
		meet()
		select {
		case <-both:
		default:
			timedOut = true
		}
	}
	gw.onAttachUsr = meet

	draft := photographerDraft()
	draft.UserID = ptr(uuid.New())

	_, err := NewRegistry(gw, nil).CreateParticipant(context.Background(), draft)
	require.NoError(t, err)
	assert.False(t, timedOut, "attach operations did not overlap")
}

func TestCloneParticipant(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	reg := NewRegistry(gw, validation.New())

	draft := photographerDraft()
	draft.UserID = ptr(uuid.New())
	src, err := reg.CreateParticipant(ctx, draft)
	require.NoError(t, err)

	clone, err := reg.CloneParticipant(ctx, src)
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, clone.ID)
	want := src
	want.ID = clone.ID
	if diff := cmp.Diff(want, clone); diff != "" {
		t.Errorf("clone mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, gw.photos[src.ID], gw.photos[clone.ID])
	assert.Equal(t, gw.links[src.ID], gw.links[clone.ID])
}

func TestCloneKeepsFieldsWithNewIdentity(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newFakeGateway(), validation.New())

	entry := domain.EntryOrderBuilder
	user, err := reg.CreateUser(ctx, domain.UserDraft{
		Name:        ptr("Olga"),
		PlatformIDs: []domain.PlatformID{{Platform: domain.PlatformVK, ID: 11}},
		Entry:       &entry,
	})
	require.NoError(t, err)
	userClone, err := reg.CloneUser(ctx, user)
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, userClone.ID)
	assert.Empty(t, cmp.Diff(user.Draft(), userClone.Draft()))

	node, err := reg.CreateNode(ctx, domain.NodeDraft{Systemic: true, Name: "welcome", Messages: []string{"hi"}, EntryPoint: &entry})
	require.NoError(t, err)
	nodeClone, err := reg.CloneNode(ctx, node)
	require.NoError(t, err)
	assert.NotEqual(t, node.ID, nodeClone.ID)
	assert.Empty(t, cmp.Diff(node.Draft(), nodeClone.Draft()))

	o, err := reg.CreateOrder(ctx, domain.OrderDraft{
		UserID:   user.ID,
		Type:     domain.OrderTypeContent,
		Interval: domain.Interval{Start: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), Duration: time.Hour},
	})
	require.NoError(t, err)
	orderClone, err := reg.CloneOrder(ctx, o)
	require.NoError(t, err)
	assert.NotEqual(t, o.ID, orderClone.ID)
	assert.Empty(t, cmp.Diff(o.Draft(), orderClone.Draft()))
}

func TestSaveErrorPropagates(t *testing.T) {
	gw := newFakeGateway()
	gw.saveErr = errors.New("db closed")

	_, err := NewRegistry(gw, nil).CreateNode(context.Background(), domain.NodeDraft{Name: "x", Messages: []string{"x"}})
	assert.Same(t, gw.saveErr, err)
}

func checkout() order.Checkout {
	date := time.Date(2026, 7, 3, 15, 0, 0, 0, time.UTC)
	studio := uuid.New()
	photographer := uuid.New()
	return order.Checkout{
		Order: order.State{
			Type:           ptr(domain.OrderTypeLoveStory),
			PhotographerID: &photographer,
			StudioID:       &studio,
			Date:           &date,
			Duration:       ptr(2 * time.Hour),
			HourPrice:      120,
		},
		Promotions: []domain.Promotion{{ID: uuid.New(), DiscountPercent: 10}},
	}
}

func TestCreateOrderFromCheckout(t *testing.T) {
	gw := newFakeGateway()
	userID := uuid.New()
	c := checkout()

	o, err := NewRegistry(gw, validation.New()).CreateOrderFromCheckout(context.Background(), userID, c)
	require.NoError(t, err)

	assert.Equal(t, userID, o.UserID)
	assert.Equal(t, domain.OrderTypeLoveStory, o.Type)
	assert.Equal(t, *c.Order.Date, o.Interval.Start)
	assert.Equal(t, 2*time.Hour, o.Interval.Duration)
	assert.Equal(t, 240.0, o.Price)
	assert.Equal(t, c.PromotionIDs(), o.Promotions)
	assert.Contains(t, gw.orders, o.ID)
}

func TestCreateOrderFromCheckoutMissingFields(t *testing.T) {
	tests := []struct {
		field string
		clear func(*order.State)
	}{
		{"date", func(s *order.State) { s.Date = nil }},
		{"duration", func(s *order.State) { s.Duration = nil }},
		{"type", func(s *order.State) { s.Type = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			gw := newFakeGateway()
			c := checkout()
			tt.clear(&c.Order)

			_, err := NewRegistry(gw, validation.New()).CreateOrderFromCheckout(context.Background(), uuid.New(), c)

			assert.ErrorIs(t, err, ErrMissingField)
			var merr *MissingFieldError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tt.field, merr.Field)
			assert.Zero(t, gw.saves)
		})
	}
}
