package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// HistoryEntry is a screen the user can go back to, with the payload it had.
type HistoryEntry struct {
	Entry   EntryPoint      `json:"entry"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type UserDraft struct {
	Name        *string
	IsAdmin     bool
	PlatformIDs []PlatformID `validate:"min=1,dive"`
	History     []HistoryEntry
	Entry       *EntryPoint
	// NodePayload is the conversation payload as written by the payload codec.
	NodePayload json.RawMessage
}

type User struct {
	ID          uuid.UUID
	Name        *string
	IsAdmin     bool
	PlatformIDs []PlatformID
	History     []HistoryEntry
	Entry       *EntryPoint
	NodePayload json.RawMessage
}

func (u User) Draft() UserDraft {
	return UserDraft{
		Name:        u.Name,
		IsAdmin:     u.IsAdmin,
		PlatformIDs: append([]PlatformID(nil), u.PlatformIDs...),
		History:     append([]HistoryEntry(nil), u.History...),
		Entry:       u.Entry,
		NodePayload: append(json.RawMessage(nil), u.NodePayload...),
	}
}

// ChatID returns the account of the user on the platform.
func (u User) ChatID(p Platform) (int64, bool) {
	for _, pid := range u.PlatformIDs {
		if pid.Platform == p {
			return pid.ID, true
		}
	}
	return 0, false
}
