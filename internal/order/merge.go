package order

import (
	"time"

	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
)

// Overrides are the choices made in one conversation step. Nil fields keep
// whatever the previous state had.
type Overrides struct {
	Type         *domain.OrderType
	Stylist      *domain.Participant
	Makeuper     *domain.Participant
	Photographer *domain.Participant
	Studio       *domain.Participant
	Date         *time.Time
	Duration     *time.Duration
	Customer     *domain.User
}

// WithParticipant puts p into the slot of its role.
func (o Overrides) WithParticipant(p domain.Participant) Overrides {
	switch p.Role {
	case domain.RoleStylist:
		o.Stylist = &p
	case domain.RoleMakeuper:
		o.Makeuper = &p
	case domain.RolePhotographer:
		o.Photographer = &p
	case domain.RoleStudio:
		o.Studio = &p
	}
	return o
}

func (o Overrides) appendingPrice() float64 {
	var sum float64
	for _, p := range []*domain.Participant{o.Stylist, o.Makeuper, o.Photographer, o.Studio} {
		if p != nil {
			sum += p.Price
		}
	}
	return sum
}

// Merge folds o into prev. The prices of the overridden participants are
// added to the previous hour price, so applying the same participant twice
// counts it twice. A nil prev starts a fresh state.
func Merge(prev *State, o Overrides) State {
	next := State{
		Type:           o.Type,
		StylistID:      participantID(o.Stylist),
		MakeuperID:     participantID(o.Makeuper),
		PhotographerID: participantID(o.Photographer),
		StudioID:       participantID(o.Studio),
		Date:           o.Date,
		Duration:       o.Duration,
		HourPrice:      o.appendingPrice(),
	}
	if o.Customer != nil {
		id := o.Customer.ID
		next.UserID = &id
	}
	if prev == nil {
		return next
	}

	next.Type = fallback(next.Type, prev.Type)
	next.StylistID = fallback(next.StylistID, prev.StylistID)
	next.MakeuperID = fallback(next.MakeuperID, prev.MakeuperID)
	next.PhotographerID = fallback(next.PhotographerID, prev.PhotographerID)
	next.StudioID = fallback(next.StudioID, prev.StudioID)
	next.Date = fallback(next.Date, prev.Date)
	next.Duration = fallback(next.Duration, prev.Duration)
	next.UserID = fallback(next.UserID, prev.UserID)
	next.ID = prev.ID
	next.IsCancelled = prev.IsCancelled
	next.HourPrice += prev.HourPrice
	return next
}

func participantID(p *domain.Participant) *uuid.UUID {
	if p == nil {
		return nil
	}
	id := p.ID
	return &id
}

func fallback[T any](v, prev *T) *T {
	if v != nil {
		return v
	}
	return prev
}
