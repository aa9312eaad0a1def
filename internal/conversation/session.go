package conversation

import (
	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/payload"
)

// Frame is a screen the user can go back to.
type Frame struct {
	Entry   domain.EntryPoint
	Payload payload.Payload
}

// Session is the conversation state of one user. It is a value: the
// machine returns a new session instead of changing the one it was given.
type Session struct {
	Entry   domain.EntryPoint
	Payload payload.Payload
	History []Frame
}

// NewSession is the state of a user who has not talked to the bot yet.
func NewSession(guest bool) Session {
	if guest {
		return Session{Entry: domain.EntryWelcomeGuest}
	}
	return Session{Entry: domain.EntryWelcome}
}

// OrderState returns the order being built, if the current step carries one.
func (s Session) OrderState() (payload.OrderBuilder, bool) {
	b, ok := s.Payload.(payload.OrderBuilder)
	return b, ok
}

func (s Session) push(entry domain.EntryPoint, p payload.Payload) Session {
	history := make([]Frame, len(s.History), len(s.History)+1)
	copy(history, s.History)
	history = append(history, Frame{Entry: s.Entry, Payload: s.Payload})
	return Session{Entry: entry, Payload: p, History: history}
}

// pop drops the last frame and returns it.
func (s Session) pop() (Frame, []Frame, bool) {
	if len(s.History) == 0 {
		return Frame{}, nil, false
	}
	n := len(s.History) - 1
	return s.History[n], append([]Frame(nil), s.History[:n]...), true
}

func (s Session) replace(entry domain.EntryPoint, p payload.Payload) Session {
	return Session{Entry: entry, Payload: p, History: s.History}
}
