package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
)

// notifyOrder tells the admins and every booked participant with a linked
// account about a new order.
func (b *Bot) notifyOrder(ctx context.Context, customer domain.User, o domain.Order) {
	text := FormatOrderNotification(o, DisplayName(customer), b.loc)

	for _, chatID := range b.orderRecipients(ctx, o) {
		if _, err := b.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			b.logger.Error("Failed to send order notification",
				zap.Int64("chat_id", chatID),
				zap.String("order_id", o.ID.String()),
				zap.Error(err))
		}
	}
}

func (b *Bot) orderRecipients(ctx context.Context, o domain.Order) []int64 {
	seen := make(map[int64]bool)
	var chats []int64
	add := func(chatID int64) {
		if chatID != 0 && !seen[chatID] {
			seen[chatID] = true
			chats = append(chats, chatID)
		}
	}

	add(b.cfg.Admin.ChatID)
	for _, id := range b.cfg.Admin.IDs {
		add(id)
	}

	for _, pid := range order.FromOrder(o).Watchers() {
		p, err := b.storage.Participant(ctx, pid)
		if err != nil {
			b.logger.Warn("Failed to load booked participant",
				zap.String("participant_id", pid.String()),
				zap.Error(err))
			continue
		}
		if p.UserID == nil {
			continue
		}
		u, err := b.storage.User(ctx, *p.UserID)
		if err != nil {
			b.logger.Warn("Failed to load participant user",
				zap.String("user_id", p.UserID.String()),
				zap.Error(err))
			continue
		}
		if chatID, ok := u.ChatID(domain.PlatformTelegram); ok {
			add(chatID)
		}
	}
	return chats
}
