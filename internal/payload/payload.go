package payload

import (
	"time"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
)

// Tag names a payload variant on the wire.
type Tag string

const (
	TagEditText     Tag = "editText"
	TagBuild        Tag = "build"
	TagPage         Tag = "page"
	TagOrderBuilder Tag = "orderBuilder"
	TagCheckout     Tag = "checkout"
	TagCalendar     Tag = "calendar"
)

// Payload is the state of one conversation step. The set of variants is
// closed: EditText, Build, Page, OrderBuilder, Checkout and Calendar.
// Payloads are values; a step replaces the payload rather than changing it.
type Payload interface {
	Tag() Tag
}

// EditText remembers a message to edit in place on the next step.
type EditText struct {
	MessageID int
}

// Build collects the fields of an entity an admin is creating.
type Build struct {
	Type   domain.BuildableType
	Object map[string]Value
}

type Page struct {
	At int
}

type OrderBuilder struct {
	State order.State
}

type Checkout struct {
	State order.Checkout
}

// Calendar is the date picker. Time is the offset from midnight of Day.
type Calendar struct {
	Year         int
	Month        int
	Day          *int
	Time         *time.Duration
	NeedsConfirm bool
}

func (EditText) Tag() Tag     { return TagEditText }
func (Build) Tag() Tag        { return TagBuild }
func (Page) Tag() Tag         { return TagPage }
func (OrderBuilder) Tag() Tag { return TagOrderBuilder }
func (Checkout) Tag() Tag     { return TagCheckout }
func (Calendar) Tag() Tag     { return TagCalendar }

// Date resolves the picked day and time in loc. ok is false until both are set.
func (c Calendar) Date(loc *time.Location) (date time.Time, ok bool) {
	if c.Day == nil || c.Time == nil {
		return time.Time{}, false
	}
	day := time.Date(c.Year, time.Month(c.Month), *c.Day, 0, 0, 0, 0, loc)
	return day.Add(*c.Time), true
}

// Shift moves the calendar by delta months and forgets the picked day.
func (c Calendar) Shift(delta int) Calendar {
	first := time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return Calendar{Year: first.Year(), Month: int(first.Month())}
}

// DaysInMonth is the number of days of the calendar's month.
func (c Calendar) DaysInMonth() int {
	return time.Date(c.Year, time.Month(c.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
