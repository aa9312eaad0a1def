package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderDraft struct {
	UserID         uuid.UUID
	Type           OrderType `validate:"required,oneof=loveStory family content"`
	StylistID      *uuid.UUID
	MakeuperID     *uuid.UUID
	PhotographerID *uuid.UUID
	StudioID       *uuid.UUID
	Interval       Interval
	HourPrice      float64 `validate:"gte=0"`
	Price          float64 `validate:"gte=0"`
	IsCancelled    bool
	Promotions     []uuid.UUID
}

type Order struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Type           OrderType
	StylistID      *uuid.UUID
	MakeuperID     *uuid.UUID
	PhotographerID *uuid.UUID
	StudioID       *uuid.UUID
	Interval       Interval
	HourPrice      float64
	Price          float64
	IsCancelled    bool
	Promotions     []uuid.UUID
	CreatedAt      time.Time
}

// Draft copies the order's fields into a draft without its identity.
func (o Order) Draft() OrderDraft {
	return OrderDraft{
		UserID:         o.UserID,
		Type:           o.Type,
		StylistID:      o.StylistID,
		MakeuperID:     o.MakeuperID,
		PhotographerID: o.PhotographerID,
		StudioID:       o.StudioID,
		Interval:       o.Interval,
		HourPrice:      o.HourPrice,
		Price:          o.Price,
		IsCancelled:    o.IsCancelled,
		Promotions:     append([]uuid.UUID(nil), o.Promotions...),
	}
}
