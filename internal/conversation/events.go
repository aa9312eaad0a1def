package conversation

import (
	"time"

	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/payload"
)

// Event is a user action fed to the machine.
type Event interface {
	event()
}

type (
	// Start resets the conversation to the welcome screen.
	Start struct{ Guest bool }

	OpenOrderTypes struct{}
	ChooseType     struct{ Type domain.OrderType }

	// OpenRole lists the participants of one role.
	OpenRole          struct{ Role domain.Role }
	ChooseParticipant struct{ ID uuid.UUID }
	ChooseDuration    struct{ Duration time.Duration }

	OpenCalendar struct{}
	ShiftMonth   struct{ Delta int }
	ChooseDay    struct{ Day int }
	// ChooseTime picks the start time as an offset from midnight.
	ChooseTime  struct{ Time time.Duration }
	ConfirmDate struct{}

	Checkout    struct{}
	ReviewOrder struct{ OrderID uuid.UUID }
	Confirm     struct{}

	Back   struct{}
	Cancel struct{}

	// OpenAbout edits MessageID in place when the user pages through the text.
	OpenAbout     struct{ MessageID int }
	OpenPortfolio struct{}
	Page          struct{ Delta int }

	StartBuild struct{ Type domain.BuildableType }
	BuildField struct {
		Key   string
		Value payload.Value
	}
	BuildPhoto  struct{ Photo domain.Photo }
	SubmitBuild struct{}
)

func (Start) event()             {}
func (OpenOrderTypes) event()    {}
func (ChooseType) event()        {}
func (OpenRole) event()          {}
func (ChooseParticipant) event() {}
func (ChooseDuration) event()    {}
func (OpenCalendar) event()      {}
func (ShiftMonth) event()        {}
func (ChooseDay) event()         {}
func (ChooseTime) event()        {}
func (ConfirmDate) event()       {}
func (Checkout) event()          {}
func (ReviewOrder) event()       {}
func (Confirm) event()           {}
func (Back) event()              {}
func (Cancel) event()            {}
func (OpenAbout) event()         {}
func (OpenPortfolio) event()     {}
func (Page) event()              {}
func (StartBuild) event()        {}
func (BuildField) event()        {}
func (BuildPhoto) event()        {}
func (SubmitBuild) event()       {}
