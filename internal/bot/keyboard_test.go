package bot

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
	"photoshoot-bot/internal/payload"
)

func callbacks(m tgbotapi.InlineKeyboardMarkup) []string {
	var data []string
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				data = append(data, *btn.CallbackData)
			}
		}
	}
	return data
}

func TestOrderBuilderKeyboardOffersCheckoutOnlyWhenValid(t *testing.T) {
	var s order.State
	assert.NotContains(t, callbacks(orderBuilderKeyboard(s)), CallbackCheckout)

	id := uuid.New()
	d := 2 * time.Hour
	date := time.Now()
	s = order.State{PhotographerID: &id, StudioID: &id, Duration: &d, Date: &date}
	assert.Contains(t, callbacks(orderBuilderKeyboard(s)), CallbackCheckout)
}

func TestCalendarKeyboard(t *testing.T) {
	// May 2024 starts on a Wednesday.
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	cal := payload.Calendar{Year: 2024, Month: 5}

	m := calendarKeyboard(cal, today)
	data := callbacks(m)

	assert.NotContains(t, data, CallbackDay(9))
	assert.Contains(t, data, CallbackDay(10))
	assert.Contains(t, data, CallbackDay(31))
	assert.NotContains(t, data, CallbackDateOK)
	assert.NotContains(t, data, CallbackTime(timeChoices[0]))

	firstWeek := m.InlineKeyboard[1]
	require.Len(t, firstWeek, 7)
	assert.Equal(t, " ", firstWeek[1].Text)
	assert.Equal(t, "·", firstWeek[2].Text)
	for _, week := range m.InlineKeyboard[1:6] {
		assert.Len(t, week, 7)
	}
}

func TestCalendarKeyboardWithPickedDay(t *testing.T) {
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	day := 12
	at := 14 * time.Hour
	cal := payload.Calendar{Year: 2024, Month: 5, Day: &day, Time: &at, NeedsConfirm: true}

	data := callbacks(calendarKeyboard(cal, today))
	for _, tc := range timeChoices {
		assert.Contains(t, data, CallbackTime(tc))
	}
	assert.Contains(t, data, CallbackDateOK)
}

func TestParticipantsKeyboardMarksSelected(t *testing.T) {
	a := domain.Participant{ID: uuid.New(), Name: "Анна", Price: 2000}
	b := domain.Participant{ID: uuid.New(), Name: "Олег", Price: 2500}

	m := participantsKeyboard([]domain.Participant{a, b}, &b.ID)

	require.Len(t, m.InlineKeyboard, 3)
	assert.Equal(t, "Анна · 2000 ₽/ч", m.InlineKeyboard[0][0].Text)
	assert.Equal(t, "✅ Олег · 2500 ₽/ч", m.InlineKeyboard[1][0].Text)
	assert.Equal(t, CallbackPick(b.ID), *m.InlineKeyboard[1][0].CallbackData)
}

func TestCheckoutKeyboardHidesConfirmForStoredOrder(t *testing.T) {
	assert.Contains(t, callbacks(checkoutKeyboard(order.Checkout{})), CallbackConfirm)

	id := uuid.New()
	stored := order.Checkout{Order: order.State{ID: &id}}
	assert.NotContains(t, callbacks(checkoutKeyboard(stored)), CallbackConfirm)
}

func TestRoleOf(t *testing.T) {
	for _, r := range domain.Roles {
		assert.Equal(t, r, roleOf(r.Entry()))
	}
	assert.Equal(t, domain.Role(""), roleOf(domain.EntryWelcome))
}
