package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"photoshoot-bot/internal/conversation"
	"photoshoot-bot/internal/domain"
)

// Callback data without arguments.
const (
	CallbackOrderTypes = "types"
	CallbackCalendar   = "cal:open"
	CallbackPrevMonth  = "cal:prev"
	CallbackNextMonth  = "cal:next"
	CallbackDateOK     = "cal:ok"
	CallbackCheckout   = "checkout"
	CallbackConfirm    = "confirm"
	CallbackBack       = "back"
	CallbackCancel     = "cancel"
	CallbackAbout      = "about"
	CallbackPortfolio  = "portfolio"
	// CallbackOrders lists the user's orders. It is not a conversation step.
	CallbackOrders = "orders"
)

var ErrUnknownCallback = errors.New("unknown callback")

func CallbackType(t domain.OrderType) string  { return "type:" + string(t) }
func CallbackRole(r domain.Role) string       { return "role:" + string(r) }
func CallbackPick(id uuid.UUID) string        { return "pick:" + id.String() }
func CallbackDuration(d time.Duration) string { return fmt.Sprintf("dur:%d", int64(d.Seconds())) }
func CallbackDay(day int) string              { return fmt.Sprintf("cal:day:%d", day) }
func CallbackTime(offset time.Duration) string {
	return fmt.Sprintf("cal:time:%d", int64(offset.Seconds()))
}
func CallbackPage(delta int) string           { return fmt.Sprintf("page:%d", delta) }
func CallbackReview(orderID uuid.UUID) string { return "review:" + orderID.String() }

// ParseCallback turns inline button data into a conversation event.
func ParseCallback(data string) (conversation.Event, error) {
	name, arg, _ := strings.Cut(data, ":")

	switch name {
	case CallbackOrderTypes:
		return conversation.OpenOrderTypes{}, nil
	case "type":
		t, err := domain.ParseOrderType(arg)
		if err != nil {
			return nil, err
		}
		return conversation.ChooseType{Type: t}, nil
	case "role":
		r, err := domain.ParseRole(arg)
		if err != nil {
			return nil, err
		}
		return conversation.OpenRole{Role: r}, nil
	case "pick":
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("participant id: %w", err)
		}
		return conversation.ChooseParticipant{ID: id}, nil
	case "dur":
		secs, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
		return conversation.ChooseDuration{Duration: time.Duration(secs) * time.Second}, nil
	case "cal":
		return parseCalendar(arg)
	case CallbackCheckout:
		return conversation.Checkout{}, nil
	case CallbackConfirm:
		return conversation.Confirm{}, nil
	case CallbackBack:
		return conversation.Back{}, nil
	case CallbackCancel:
		return conversation.Cancel{}, nil
	case CallbackAbout:
		return conversation.OpenAbout{}, nil
	case CallbackPortfolio:
		return conversation.OpenPortfolio{}, nil
	case "page":
		delta, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("page: %w", err)
		}
		return conversation.Page{Delta: delta}, nil
	case "review":
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("order id: %w", err)
		}
		return conversation.ReviewOrder{OrderID: id}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
}

func parseCalendar(arg string) (conversation.Event, error) {
	action, value, _ := strings.Cut(arg, ":")
	switch action {
	case "open":
		return conversation.OpenCalendar{}, nil
	case "prev":
		return conversation.ShiftMonth{Delta: -1}, nil
	case "next":
		return conversation.ShiftMonth{Delta: 1}, nil
	case "ok":
		return conversation.ConfirmDate{}, nil
	case "day":
		day, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("day: %w", err)
		}
		return conversation.ChooseDay{Day: day}, nil
	case "time":
		secs, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("time: %w", err)
		}
		return conversation.ChooseTime{Time: time.Duration(secs) * time.Second}, nil
	}
	return nil, fmt.Errorf("%w: calendar %q", ErrUnknownCallback, arg)
}
