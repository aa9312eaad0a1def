package bot

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshoot-bot/internal/conversation"
	"photoshoot-bot/internal/domain"
)

func TestParseCallback(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		data string
		want conversation.Event
	}{
		{CallbackOrderTypes, conversation.OpenOrderTypes{}},
		{CallbackType(domain.OrderTypeFamily), conversation.ChooseType{Type: domain.OrderTypeFamily}},
		{CallbackRole(domain.RoleStudio), conversation.OpenRole{Role: domain.RoleStudio}},
		{CallbackPick(id), conversation.ChooseParticipant{ID: id}},
		{CallbackDuration(90 * time.Minute), conversation.ChooseDuration{Duration: 90 * time.Minute}},
		{CallbackCalendar, conversation.OpenCalendar{}},
		{CallbackPrevMonth, conversation.ShiftMonth{Delta: -1}},
		{CallbackNextMonth, conversation.ShiftMonth{Delta: 1}},
		{CallbackDay(14), conversation.ChooseDay{Day: 14}},
		{CallbackTime(16 * time.Hour), conversation.ChooseTime{Time: 16 * time.Hour}},
		{CallbackDateOK, conversation.ConfirmDate{}},
		{CallbackCheckout, conversation.Checkout{}},
		{CallbackConfirm, conversation.Confirm{}},
		{CallbackBack, conversation.Back{}},
		{CallbackCancel, conversation.Cancel{}},
		{CallbackAbout, conversation.OpenAbout{}},
		{CallbackPortfolio, conversation.OpenPortfolio{}},
		{CallbackPage(-1), conversation.Page{Delta: -1}},
		{CallbackReview(id), conversation.ReviewOrder{OrderID: id}},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := ParseCallback(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	for _, data := range []string{
		CallbackPick(uuid.New()),
		CallbackReview(uuid.New()),
		CallbackType(domain.OrderTypeLoveStory),
		CallbackRole(domain.RolePhotographer),
	} {
		assert.LessOrEqual(t, len(data), 64, data)
	}
}

func TestParseCallbackRejects(t *testing.T) {
	for _, data := range []string{
		"",
		"orders",
		"type:wedding",
		"role:driver",
		"pick:not-a-uuid",
		"dur:abc",
		"cal:day:x",
		"cal:zoom",
		"page:",
		"review:42",
	} {
		t.Run(data, func(t *testing.T) {
			_, err := ParseCallback(data)
			assert.Error(t, err)
		})
	}
}

func TestParseCallbackUnknown(t *testing.T) {
	_, err := ParseCallback("launch:rocket")
	assert.ErrorIs(t, err, ErrUnknownCallback)
}
