package bot

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshoot-bot/internal/conversation"
	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
	"photoshoot-bot/internal/payload"
)

func TestParseBuildField(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		text string
		want conversation.BuildField
	}{
		{"имя: Анна", conversation.BuildField{Key: conversation.FieldName, Value: payload.String("Анна")}},
		{"Name = Studio 5", conversation.BuildField{Key: conversation.FieldName, Value: payload.String("Studio 5")}},
		{"цена: 2500,5", conversation.BuildField{Key: conversation.FieldPrice, Value: payload.Number(2500.5)}},
		{"price=3000", conversation.BuildField{Key: conversation.FieldPrice, Value: payload.Number(3000)}},
		{"user: " + userID.String(), conversation.BuildField{Key: conversation.FieldUserID, Value: payload.String(userID.String())}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseBuildField(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Key, got.Key)
			assert.True(t, tt.want.Value.Equal(got.Value))
		})
	}
}

func TestParseBuildFieldRejects(t *testing.T) {
	for _, text := range []string{
		"just text",
		"age: 30",
		"price: cheap",
		"user: nobody",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseBuildField(text)
			assert.ErrorIs(t, err, ErrBadField)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2 ч", FormatDuration(2*time.Hour))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90*time.Minute))
}

func TestFormatState(t *testing.T) {
	typ := domain.OrderTypeFamily
	photographer := uuid.New()
	d := 2 * time.Hour
	date := time.Date(2024, 5, 10, 11, 0, 0, 0, time.UTC)
	s := order.State{
		Type:           &typ,
		PhotographerID: &photographer,
		Duration:       &d,
		Date:           &date,
		HourPrice:      3000,
	}

	names := func(id uuid.UUID) string {
		if id == photographer {
			return "Иван"
		}
		return "?"
	}
	loc := time.FixedZone("MSK", 3*60*60)
	text := FormatState(s, loc, names)

	assert.Contains(t, text, "Тип: Семейная фотосессия")
	assert.Contains(t, text, "Фотограф: Иван")
	assert.Contains(t, text, "Студия: —")
	assert.Contains(t, text, "Длительность: 2 ч")
	assert.Contains(t, text, "Дата: 10.05.2024 14:00")
	assert.Contains(t, text, "Итого: 6000 ₽")
}

func TestFormatCheckoutShowsDiscount(t *testing.T) {
	d := time.Hour
	c := order.Checkout{
		Order:      order.State{Duration: &d, HourPrice: 1000},
		Promotions: []domain.Promotion{{Name: "Весна", DiscountPercent: 10}},
	}
	text := FormatCheckout(c, time.UTC, func(uuid.UUID) string { return "" })

	assert.Contains(t, text, "• Весна (−10%)")
	assert.Contains(t, text, "К оплате: 900 ₽")
}

func TestDisplayName(t *testing.T) {
	username := "anna"
	name := "Анна"

	assert.Equal(t, "@anna", DisplayName(domain.User{
		Name:        &name,
		PlatformIDs: []domain.PlatformID{{Platform: domain.PlatformTelegram, ID: 1, Username: &username}},
	}))
	assert.Equal(t, "Анна", DisplayName(domain.User{Name: &name}))

	id := uuid.New()
	assert.Equal(t, id.String(), DisplayName(domain.User{ID: id}))
}
