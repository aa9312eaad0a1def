package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
)

// State is an order under construction. It is rebuilt on every conversation
// step by Merge and never shared between conversations.
type State struct {
	Type           *domain.OrderType
	StylistID      *uuid.UUID
	MakeuperID     *uuid.UUID
	PhotographerID *uuid.UUID
	StudioID       *uuid.UUID
	Date           *time.Time
	Duration       *time.Duration
	// HourPrice accumulates the prices of every participant picked so far.
	HourPrice   float64
	IsCancelled bool
	ID          *uuid.UUID
	UserID      *uuid.UUID
}

// Price is the hour price times the booked hours. A missing or sub-hour
// duration is billed as one hour.
func (s State) Price() float64 {
	hours := 1.0
	if s.Duration != nil {
		if h := s.Duration.Hours(); h > hours {
			hours = h
		}
	}
	return s.HourPrice * hours
}

// IsValid reports whether the order can go to checkout. The same fields are
// required for every order type.
func (s State) IsValid() bool {
	return s.Date != nil &&
		s.StudioID != nil &&
		s.Duration != nil &&
		s.PhotographerID != nil
}

// Watchers are the participants notified about the order's lifecycle.
func (s State) Watchers() []uuid.UUID {
	var watchers []uuid.UUID
	for _, id := range []*uuid.UUID{s.MakeuperID, s.StylistID} {
		if id == nil {
			continue
		}
		dup := false
		for _, w := range watchers {
			if w == *id {
				dup = true
				break
			}
		}
		if !dup {
			watchers = append(watchers, *id)
		}
	}
	return watchers
}

// FromOrder projects a stored order back into the builder shape.
func FromOrder(o domain.Order) State {
	typ := o.Type
	start := o.Interval.Start
	duration := o.Interval.Duration
	id := o.ID
	userID := o.UserID
	return State{
		Type:           &typ,
		StylistID:      o.StylistID,
		MakeuperID:     o.MakeuperID,
		PhotographerID: o.PhotographerID,
		StudioID:       o.StudioID,
		Date:           &start,
		Duration:       &duration,
		HourPrice:      o.HourPrice,
		IsCancelled:    o.IsCancelled,
		ID:             &id,
		UserID:         &userID,
	}
}

type stateJSON struct {
	Type           *domain.OrderType `json:"type,omitempty"`
	StylistID      *uuid.UUID        `json:"stylistId,omitempty"`
	MakeuperID     *uuid.UUID        `json:"makeuperId,omitempty"`
	PhotographerID *uuid.UUID        `json:"photographerId,omitempty"`
	StudioID       *uuid.UUID        `json:"studioId,omitempty"`
	Date           *time.Time        `json:"date,omitempty"`
	Duration       *float64          `json:"duration,omitempty"` // seconds
	HourPrice      float64           `json:"hourPrice"`
	IsCancelled    bool              `json:"isCancelled"`
	ID             *uuid.UUID        `json:"id,omitempty"`
	UserID         *uuid.UUID        `json:"userId,omitempty"`
}

func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Type:           s.Type,
		StylistID:      s.StylistID,
		MakeuperID:     s.MakeuperID,
		PhotographerID: s.PhotographerID,
		StudioID:       s.StudioID,
		Date:           s.Date,
		HourPrice:      s.HourPrice,
		IsCancelled:    s.IsCancelled,
		ID:             s.ID,
		UserID:         s.UserID,
	}
	if s.Duration != nil {
		secs := s.Duration.Seconds()
		out.Duration = &secs
	}
	return json.Marshal(out)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = State{
		Type:           in.Type,
		StylistID:      in.StylistID,
		MakeuperID:     in.MakeuperID,
		PhotographerID: in.PhotographerID,
		StudioID:       in.StudioID,
		Date:           in.Date,
		HourPrice:      in.HourPrice,
		IsCancelled:    in.IsCancelled,
		ID:             in.ID,
		UserID:         in.UserID,
	}
	if in.Duration != nil {
		d := SecondsToDuration(*in.Duration)
		s.Duration = &d
	}
	return nil
}

func SecondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
