package bot

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
	"photoshoot-bot/internal/payload"
)

var (
	durationChoices = []time.Duration{time.Hour, 2 * time.Hour, 3 * time.Hour}
	// Start times offered for a picked day.
	timeChoices = []time.Duration{10 * time.Hour, 12 * time.Hour, 14 * time.Hour, 16 * time.Hour, 18 * time.Hour}
)

var roleTitles = map[domain.Role]string{
	domain.RolePhotographer: "📷 Фотограф",
	domain.RoleStudio:       "🏠 Студия",
	domain.RoleStylist:      "💇 Стилист",
	domain.RoleMakeuper:     "💄 Визажист",
}

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		button("⬅️ Назад", CallbackBack),
		button("✖️ Отмена", CallbackCancel),
	)
}

func welcomeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("🧩 Собрать заказ", CallbackOrderTypes)),
		tgbotapi.NewInlineKeyboardRow(
			button("🖼 Портфолио", CallbackPortfolio),
			button("ℹ️ О нас", CallbackAbout),
		),
		tgbotapi.NewInlineKeyboardRow(button("🧾 Мои заказы", CallbackOrders)),
	)
}

func orderTypesKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range domain.OrderTypes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(t.Name(), CallbackType(t))))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func orderBuilderKeyboard(s order.State) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, pair := range [][2]domain.Role{
		{domain.RolePhotographer, domain.RoleStudio},
		{domain.RoleStylist, domain.RoleMakeuper},
	} {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(roleTitles[pair[0]], CallbackRole(pair[0])),
			button(roleTitles[pair[1]], CallbackRole(pair[1])),
		))
	}

	var durations []tgbotapi.InlineKeyboardButton
	for _, d := range durationChoices {
		text := FormatDuration(d)
		if s.Duration != nil && *s.Duration == d {
			text = "✅ " + text
		}
		durations = append(durations, button(text, CallbackDuration(d)))
	}
	rows = append(rows, durations)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("📅 Дата и время", CallbackCalendar)))
	if s.IsValid() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("🧾 Оформить", CallbackCheckout)))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func participantsKeyboard(participants []domain.Participant, selected *uuid.UUID) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range participants {
		text := fmt.Sprintf("%s · %s/ч", p.Name, FormatPrice(p.Price))
		if selected != nil && *selected == p.ID {
			text = "✅ " + text
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(text, CallbackPick(p.ID))))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// calendarKeyboard lays the month out in weeks starting on Monday. Days
// before today are not offered.
func calendarKeyboard(c payload.Calendar, today time.Time) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	title := time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC).Format("01.2006")
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		button("◀️", CallbackPrevMonth),
		button(title, "noop"),
		button("▶️", CallbackNextMonth),
	))

	first := time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, today.Location())
	offset := (int(first.Weekday()) + 6) % 7
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	week := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, button(" ", "noop"))
	}
	for day := 1; day <= c.DaysInMonth(); day++ {
		date := first.AddDate(0, 0, day-1)
		switch {
		case date.Before(todayStart):
			week = append(week, button("·", "noop"))
		case c.Day != nil && *c.Day == day:
			week = append(week, button("["+strconv.Itoa(day)+"]", CallbackDay(day)))
		default:
			week = append(week, button(strconv.Itoa(day), CallbackDay(day)))
		}
		if len(week) == 7 {
			rows = append(rows, week)
			week = make([]tgbotapi.InlineKeyboardButton, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, button(" ", "noop"))
		}
		rows = append(rows, week)
	}

	if c.Day != nil {
		var times []tgbotapi.InlineKeyboardButton
		for _, t := range timeChoices {
			text := fmt.Sprintf("%02d:00", int(t.Hours()))
			if c.Time != nil && *c.Time == t {
				text = "✅ " + text
			}
			times = append(times, button(text, CallbackTime(t)))
		}
		rows = append(rows, times)
	}
	if c.NeedsConfirm {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("✅ Подтвердить дату", CallbackDateOK)))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func checkoutKeyboard(c order.Checkout) tgbotapi.InlineKeyboardMarkup {
	if c.Order.ID != nil {
		return tgbotapi.NewInlineKeyboardMarkup(backRow())
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("✅ Подтвердить заказ", CallbackConfirm)),
		backRow(),
	)
}

func portfolioKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("◀️", CallbackPage(-1)),
			button("▶️", CallbackPage(1)),
		),
		backRow(),
	)
}

func ordersKeyboard(orders []domain.Order, loc *time.Location) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, o := range orders {
		text := fmt.Sprintf("%s · %s", o.Interval.Start.In(loc).Format("02.01 15:04"), o.Type.Name())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(text, CallbackReview(o.ID))))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("✖️ Закрыть", CallbackCancel)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
