package domain

import "github.com/google/uuid"

// ParticipantDraft is a stylist, makeup artist, photographer or studio that
// has not been stored yet. Photos and User are relations attached after the
// participant itself is saved.
type ParticipantDraft struct {
	Role        Role         `validate:"required"`
	Name        string       `validate:"required"`
	PlatformIDs []PlatformID `validate:"dive"`
	Price       float64      `validate:"gte=0"`
	Photos      []Photo      `validate:"min=1,dive"`
	UserID      *uuid.UUID
}

type Participant struct {
	ID          uuid.UUID    `json:"id"`
	Role        Role         `json:"role"`
	Name        string       `json:"name"`
	PlatformIDs []PlatformID `json:"platformIds,omitempty"`
	Price       float64      `json:"price"`
	Photos      []Photo      `json:"photos,omitempty"`
	UserID      *uuid.UUID   `json:"userId,omitempty"`
}
