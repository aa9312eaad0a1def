package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
	"photoshoot-bot/internal/payload"
)

var (
	// ErrUnexpectedEvent means the event does not fit the current screen.
	ErrUnexpectedEvent = errors.New("conversation: unexpected event")
	// ErrIncompleteOrder means checkout was requested before the order had
	// everything it needs.
	ErrIncompleteOrder = errors.New("conversation: order is incomplete")
	ErrInvalidChoice   = errors.New("conversation: invalid choice")
	ErrForbidden       = errors.New("conversation: forbidden")
)

// Catalogue looks up bookable participants.
type Catalogue interface {
	Participant(ctx context.Context, id uuid.UUID) (domain.Participant, error)
}

// Orders looks up stored orders.
type Orders interface {
	Order(ctx context.Context, id uuid.UUID) (domain.Order, error)
}

// Promotions supplies promotions for new and stored orders.
type Promotions interface {
	order.PromotionFinder
	order.PromotionFetcher
}

// Creator stores the entities a conversation produces.
type Creator interface {
	CreateOrderFromCheckout(ctx context.Context, userID uuid.UUID, c order.Checkout) (domain.Order, error)
	CreateParticipant(ctx context.Context, draft domain.ParticipantDraft) (domain.Participant, error)
}

type Deps struct {
	Catalogue  Catalogue
	Orders     Orders
	Promotions Promotions
	Creator    Creator
	Location   *time.Location
	Logger     *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Machine moves sessions between screens. It keeps no per-user state, so one
// machine serves every conversation.
type Machine struct {
	catalogue  Catalogue
	orders     Orders
	promotions Promotions
	creator    Creator
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

func New(deps Deps) *Machine {
	m := &Machine{
		catalogue:  deps.Catalogue,
		orders:     deps.Orders,
		promotions: deps.Promotions,
		creator:    deps.Creator,
		loc:        deps.Location,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if m.loc == nil {
		m.loc = time.UTC
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Result is the session after an event, plus whatever the step stored.
type Result struct {
	Session     Session
	Order       *domain.Order
	Participant *domain.Participant
}

// Apply handles ev for user in session s. On error s is still the valid
// session of the user.
func (m *Machine) Apply(ctx context.Context, user domain.User, s Session, ev Event) (Result, error) {
	res, err := m.apply(ctx, user, s, ev)
	if err != nil {
		return Result{}, err
	}
	m.logger.Debug("Conversation step",
		zap.String("user_id", user.ID.String()),
		zap.String("event", fmt.Sprintf("%T", ev)),
		zap.String("from", string(s.Entry)),
		zap.String("to", string(res.Session.Entry)))
	return res, nil
}

func (m *Machine) apply(ctx context.Context, user domain.User, s Session, ev Event) (Result, error) {
	switch ev := ev.(type) {
	case Start:
		return Result{Session: NewSession(ev.Guest)}, nil
	case Cancel:
		return Result{Session: NewSession(false)}, nil
	case Back:
		frame, history, ok := s.pop()
		if !ok {
			return Result{Session: NewSession(false)}, nil
		}
		return Result{Session: Session{Entry: frame.Entry, Payload: frame.Payload, History: history}}, nil

	case OpenOrderTypes:
		return Result{Session: s.push(domain.EntryOrderTypes, nil)}, nil
	case ChooseType:
		return m.chooseType(user, s, ev)
	case OpenRole:
		if _, ok := s.OrderState(); !ok || s.Entry != domain.EntryOrderBuilder || !ev.Role.Valid() {
			return Result{}, unexpected(s, ev)
		}
		return Result{Session: s.push(ev.Role.Entry(), s.Payload)}, nil
	case ChooseParticipant:
		return m.chooseParticipant(ctx, user, s, ev)
	case ChooseDuration:
		b, ok := s.OrderState()
		if !ok || s.Entry != domain.EntryOrderBuilder {
			return Result{}, unexpected(s, ev)
		}
		if ev.Duration <= 0 {
			return Result{}, fmt.Errorf("%w: duration %s", ErrInvalidChoice, ev.Duration)
		}
		d := ev.Duration
		state := payload.MergeOrderState(b, order.Overrides{Duration: &d})
		return Result{Session: s.replace(domain.EntryOrderBuilder, payload.OrderBuilder{State: state})}, nil

	case OpenCalendar:
		if _, ok := s.OrderState(); !ok || s.Entry != domain.EntryOrderBuilder {
			return Result{}, unexpected(s, ev)
		}
		now := m.now().In(m.loc)
		cal := payload.Calendar{Year: now.Year(), Month: int(now.Month())}
		return Result{Session: s.push(domain.EntryOrderBuilderDate, cal)}, nil
	case ShiftMonth, ChooseDay, ChooseTime, ConfirmDate:
		return m.calendar(s, ev)

	case Checkout:
		return m.checkout(ctx, s, ev)
	case ReviewOrder:
		return m.review(ctx, user, s, ev)
	case Confirm:
		return m.confirm(ctx, user, s, ev)

	case OpenAbout:
		return Result{Session: s.push(domain.EntryAbout, payload.EditText{MessageID: ev.MessageID})}, nil
	case OpenPortfolio:
		return Result{Session: s.push(domain.EntryPortfolio, payload.Page{At: 0})}, nil
	case Page:
		p, ok := s.Payload.(payload.Page)
		if !ok {
			return Result{}, unexpected(s, ev)
		}
		return Result{Session: s.replace(s.Entry, payload.Page{At: max(0, p.At+ev.Delta)})}, nil

	case StartBuild, BuildField, BuildPhoto, SubmitBuild:
		return m.build(ctx, user, s, ev)
	}
	return Result{}, unexpected(s, ev)
}

func (m *Machine) chooseType(user domain.User, s Session, ev ChooseType) (Result, error) {
	if !ev.Type.Valid() {
		return Result{}, fmt.Errorf("%w: order type %q", ErrInvalidChoice, ev.Type)
	}
	typ := ev.Type
	o := order.Overrides{Type: &typ, Customer: &user}

	switch s.Entry {
	case domain.EntryOrderTypes:
		state := payload.MergeOrderState(s.Payload, o)
		return Result{Session: s.push(domain.EntryOrderBuilder, payload.OrderBuilder{State: state})}, nil
	case domain.EntryOrderBuilder:
		state := payload.MergeOrderState(s.Payload, o)
		return Result{Session: s.replace(domain.EntryOrderBuilder, payload.OrderBuilder{State: state})}, nil
	}
	return Result{}, unexpected(s, ev)
}

// chooseParticipant books a participant from a role screen and returns to
// the order builder.
func (m *Machine) chooseParticipant(ctx context.Context, user domain.User, s Session, ev ChooseParticipant) (Result, error) {
	b, ok := s.OrderState()
	if !ok {
		return Result{}, unexpected(s, ev)
	}
	frame, history, ok := s.pop()
	if !ok || frame.Entry != domain.EntryOrderBuilder {
		return Result{}, unexpected(s, ev)
	}

	p, err := m.catalogue.Participant(ctx, ev.ID)
	if err != nil {
		return Result{}, fmt.Errorf("lookup participant %s: %w", ev.ID, err)
	}
	if p.Role.Entry() != s.Entry {
		return Result{}, fmt.Errorf("%w: %s is not a %s", ErrInvalidChoice, p.ID, s.Entry)
	}

	state := payload.MergeOrderState(b, order.Overrides{Customer: &user}.WithParticipant(p))
	return Result{Session: Session{
		Entry:   domain.EntryOrderBuilder,
		Payload: payload.OrderBuilder{State: state},
		History: history,
	}}, nil
}

func (m *Machine) calendar(s Session, ev Event) (Result, error) {
	cal, ok := s.Payload.(payload.Calendar)
	if !ok || s.Entry != domain.EntryOrderBuilderDate {
		return Result{}, unexpected(s, ev)
	}

	switch ev := ev.(type) {
	case ShiftMonth:
		return Result{Session: s.replace(s.Entry, cal.Shift(ev.Delta))}, nil

	case ChooseDay:
		if ev.Day < 1 || ev.Day > cal.DaysInMonth() {
			return Result{}, fmt.Errorf("%w: day %d", ErrInvalidChoice, ev.Day)
		}
		day := ev.Day
		next := payload.Calendar{Year: cal.Year, Month: cal.Month, Day: &day}
		return Result{Session: s.replace(s.Entry, next)}, nil

	case ChooseTime:
		if cal.Day == nil {
			return Result{}, unexpected(s, ev)
		}
		if ev.Time < 0 || ev.Time >= 24*time.Hour {
			return Result{}, fmt.Errorf("%w: time %s", ErrInvalidChoice, ev.Time)
		}
		t := ev.Time
		next := cal
		next.Time = &t
		next.NeedsConfirm = true
		return Result{Session: s.replace(s.Entry, next)}, nil

	case ConfirmDate:
		date, ok := cal.Date(m.loc)
		if !ok || !cal.NeedsConfirm {
			return Result{}, unexpected(s, ev)
		}
		frame, history, ok := s.pop()
		b, isBuilder := frame.Payload.(payload.OrderBuilder)
		if !ok || !isBuilder {
			return Result{}, unexpected(s, ev)
		}
		state := payload.MergeOrderState(b, order.Overrides{Date: &date})
		return Result{Session: Session{
			Entry:   domain.EntryOrderBuilder,
			Payload: payload.OrderBuilder{State: state},
			History: history,
		}}, nil
	}
	return Result{}, unexpected(s, ev)
}

func (m *Machine) checkout(ctx context.Context, s Session, ev Checkout) (Result, error) {
	b, ok := s.OrderState()
	if !ok || s.Entry != domain.EntryOrderBuilder {
		return Result{}, unexpected(s, ev)
	}
	if !b.State.IsValid() {
		return Result{}, ErrIncompleteOrder
	}

	promotions, err := m.promotions.ApplicablePromotions(ctx, b.State)
	if err != nil {
		return Result{}, fmt.Errorf("find promotions: %w", err)
	}
	c := payload.Checkout{State: order.Checkout{Order: b.State, Promotions: promotions}}
	return Result{Session: s.push(domain.EntryOrderCheckout, c)}, nil
}

func (m *Machine) review(ctx context.Context, user domain.User, s Session, ev ReviewOrder) (Result, error) {
	o, err := m.orders.Order(ctx, ev.OrderID)
	if err != nil {
		return Result{}, fmt.Errorf("lookup order %s: %w", ev.OrderID, err)
	}
	if o.UserID != user.ID && !user.IsAdmin {
		return Result{}, fmt.Errorf("%w: order %s", ErrForbidden, o.ID)
	}

	c, err := order.NewCheckout(ctx, o, m.promotions)
	if err != nil {
		return Result{}, fmt.Errorf("checkout of order %s: %w", o.ID, err)
	}
	return Result{Session: s.push(domain.EntryOrderCheckout, payload.Checkout{State: c})}, nil
}

// confirm stores a new order. An order opened for review is already stored
// and only closes the checkout screen.
func (m *Machine) confirm(ctx context.Context, user domain.User, s Session, ev Confirm) (Result, error) {
	c, ok := s.Payload.(payload.Checkout)
	if !ok || s.Entry != domain.EntryOrderCheckout {
		return Result{}, unexpected(s, ev)
	}
	if c.State.Order.ID != nil {
		return Result{Session: NewSession(false)}, nil
	}

	o, err := m.creator.CreateOrderFromCheckout(ctx, user.ID, c.State)
	if err != nil {
		return Result{}, err
	}
	return Result{Session: NewSession(false), Order: &o}, nil
}

func unexpected(s Session, ev Event) error {
	return fmt.Errorf("%w: %T on %s", ErrUnexpectedEvent, ev, s.Entry)
}
