package order

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshoot-bot/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  float64
	}{
		{"two hours", State{HourPrice: 100, Duration: ptr(7200 * time.Second)}, 200},
		{"no duration bills one hour", State{HourPrice: 50}, 50},
		{"half an hour bills one hour", State{HourPrice: 80, Duration: ptr(30 * time.Minute)}, 80},
		{"ninety minutes", State{HourPrice: 100, Duration: ptr(90 * time.Minute)}, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.state.Price(), 1e-9)
		})
	}
}

func TestIsValid(t *testing.T) {
	full := State{
		Date:           ptr(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)),
		StudioID:       ptr(uuid.New()),
		Duration:       ptr(time.Hour),
		PhotographerID: ptr(uuid.New()),
	}
	assert.True(t, full.IsValid())

	noStudio := full
	noStudio.StudioID = nil
	noStudio.StylistID = ptr(uuid.New())
	noStudio.MakeuperID = ptr(uuid.New())
	noStudio.Type = ptr(domain.OrderTypeContent)
	assert.False(t, noStudio.IsValid())

	noDate := full
	noDate.Date = nil
	assert.False(t, noDate.IsValid())

	noPhotographer := full
	noPhotographer.PhotographerID = nil
	assert.False(t, noPhotographer.IsValid())
}

func TestWatchers(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	assert.Empty(t, State{}.Watchers())
	assert.Equal(t, []uuid.UUID{a, b}, State{MakeuperID: &a, StylistID: &b}.Watchers())
	assert.Equal(t, []uuid.UUID{a}, State{MakeuperID: &a, StylistID: ptr(a)}.Watchers())
	assert.Equal(t, []uuid.UUID{b}, State{StylistID: &b}.Watchers())
}

func TestFromOrder(t *testing.T) {
	o := domain.Order{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Type:           domain.OrderTypeFamily,
		StylistID:      ptr(uuid.New()),
		PhotographerID: ptr(uuid.New()),
		StudioID:       ptr(uuid.New()),
		Interval:       domain.Interval{Start: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), Duration: 2 * time.Hour},
		HourPrice:      120,
		Price:          240,
		IsCancelled:    true,
	}

	s := FromOrder(o)

	want := State{
		Type:           &o.Type,
		StylistID:      o.StylistID,
		PhotographerID: o.PhotographerID,
		StudioID:       o.StudioID,
		Date:           &o.Interval.Start,
		Duration:       &o.Interval.Duration,
		HourPrice:      120,
		IsCancelled:    true,
		ID:             &o.ID,
		UserID:         &o.UserID,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("FromOrder mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 240.0, s.Price())
}

func TestStateJSON(t *testing.T) {
	s := State{
		Type:      ptr(domain.OrderTypeLoveStory),
		StudioID:  ptr(uuid.New()),
		Date:      ptr(time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC)),
		Duration:  ptr(90 * time.Minute),
		HourPrice: 42.5,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 5400.0, raw["duration"])
	assert.Equal(t, "loveStory", raw["type"])
	assert.NotContains(t, raw, "stylistId")

	var back State
	require.NoError(t, json.Unmarshal(data, &back))
	if diff := cmp.Diff(s, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStateJSONEmptyObject(t *testing.T) {
	var s State
	require.NoError(t, json.Unmarshal([]byte(`{}`), &s))
	assert.Equal(t, State{}, s)
}
