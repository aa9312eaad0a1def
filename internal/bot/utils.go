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
	"photoshoot-bot/internal/order"
	"photoshoot-bot/internal/payload"
)

var ErrBadField = errors.New("bad field")

var fieldAliases = map[string]string{
	"name":   conversation.FieldName,
	"имя":    conversation.FieldName,
	"price":  conversation.FieldPrice,
	"цена":   conversation.FieldPrice,
	"user":   conversation.FieldUserID,
	"userid": conversation.FieldUserID,
}

// ParseBuildField reads a "key: value" line an admin typed while building
// a participant.
func ParseBuildField(text string) (conversation.BuildField, error) {
	key, value, ok := strings.Cut(text, ":")
	if !ok {
		key, value, ok = strings.Cut(text, "=")
	}
	if !ok {
		return conversation.BuildField{}, fmt.Errorf("%w: expected key: value", ErrBadField)
	}
	field, known := fieldAliases[strings.ToLower(strings.TrimSpace(key))]
	if !known {
		return conversation.BuildField{}, fmt.Errorf("%w: unknown key %q", ErrBadField, strings.TrimSpace(key))
	}
	value = strings.TrimSpace(value)

	switch field {
	case conversation.FieldPrice:
		price, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
		if err != nil {
			return conversation.BuildField{}, fmt.Errorf("%w: price %q", ErrBadField, value)
		}
		return conversation.BuildField{Key: field, Value: payload.Number(price)}, nil
	case conversation.FieldUserID:
		if _, err := uuid.Parse(value); err != nil {
			return conversation.BuildField{}, fmt.Errorf("%w: user id %q", ErrBadField, value)
		}
	}
	return conversation.BuildField{Key: field, Value: payload.String(value)}, nil
}

func FormatPrice(p float64) string {
	return fmt.Sprintf("%.0f ₽", p)
}

func FormatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if m == 0 {
		return fmt.Sprintf("%d ч", h)
	}
	return fmt.Sprintf("%d ч %d мин", h, m)
}

// FormatState summarizes an order under construction. names resolves
// participant IDs to display names.
func FormatState(s order.State, loc *time.Location, names func(uuid.UUID) string) string {
	var sb strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&sb, "%s: %s\n", label, value)
	}
	participant := func(id *uuid.UUID) string {
		if id == nil {
			return "—"
		}
		return names(*id)
	}

	if s.Type != nil {
		line("Тип", s.Type.Name())
	}
	line("Фотограф", participant(s.PhotographerID))
	line("Студия", participant(s.StudioID))
	line("Стилист", participant(s.StylistID))
	line("Визажист", participant(s.MakeuperID))
	if s.Duration != nil {
		line("Длительность", FormatDuration(*s.Duration))
	} else {
		line("Длительность", "—")
	}
	if s.Date != nil {
		line("Дата", s.Date.In(loc).Format("02.01.2006 15:04"))
	} else {
		line("Дата", "—")
	}
	line("Цена за час", FormatPrice(s.HourPrice))
	line("Итого", FormatPrice(s.Price()))
	return sb.String()
}

func FormatCheckout(c order.Checkout, loc *time.Location, names func(uuid.UUID) string) string {
	var sb strings.Builder
	sb.WriteString(FormatState(c.Order, loc, names))
	if len(c.Promotions) > 0 {
		sb.WriteString("\nАкции:\n")
		for _, p := range c.Promotions {
			fmt.Fprintf(&sb, "• %s (−%.0f%%)\n", p.Name, p.DiscountPercent)
		}
		fmt.Fprintf(&sb, "\nК оплате: %s\n", FormatPrice(c.Price()))
	}
	if c.Order.IsCancelled {
		sb.WriteString("\n❌ Заказ отменён\n")
	}
	return sb.String()
}

func FormatOrderNotification(o domain.Order, customer string, loc *time.Location) string {
	return fmt.Sprintf(
		"📦 Новый заказ %s\n"+
			"Тип: %s\n"+
			"Дата: %s\n"+
			"Длительность: %s\n"+
			"Цена: %s\n"+
			"Клиент: %s",
		o.ID, o.Type.Name(),
		o.Interval.Start.In(loc).Format("02.01.2006 15:04"),
		FormatDuration(o.Interval.Duration),
		FormatPrice(o.Price),
		customer,
	)
}

// DisplayName is how a user is shown to admins.
func DisplayName(u domain.User) string {
	for _, pid := range u.PlatformIDs {
		if pid.Username != nil && *pid.Username != "" {
			return "@" + *pid.Username
		}
	}
	if u.Name != nil {
		return *u.Name
	}
	return u.ID.String()
}
