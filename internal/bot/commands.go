package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"photoshoot-bot/internal/conversation"
	"photoshoot-bot/internal/domain"
)

const ordersShown = 10

func (b *Bot) handleCommand(ctx context.Context, chatID int64, user domain.User, isNew bool, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.dispatch(ctx, chatID, user, conversation.Start{Guest: isNew}, 0)
	case "cancel":
		b.dispatch(ctx, chatID, user, conversation.Cancel{}, 0)
	case "about":
		b.dispatch(ctx, chatID, user, conversation.OpenAbout{}, 0)
	case "portfolio":
		b.dispatch(ctx, chatID, user, conversation.OpenPortfolio{}, 0)
	case "orders":
		b.showOrders(ctx, chatID, user)
	case "build":
		t, err := domain.ParseBuildableType(strings.TrimSpace(msg.CommandArguments()))
		if err != nil {
			b.sendError(chatID, "Укажите роль: /build photographer|studio|stylist|makeuper")
			return
		}
		b.dispatch(ctx, chatID, user, conversation.StartBuild{Type: t}, 0)
	case "submit":
		b.dispatch(ctx, chatID, user, conversation.SubmitBuild{}, 0)
	case "export":
		b.handleExport(ctx, chatID, user)
	default:
		b.sendError(chatID, "Неизвестная команда")
	}
}

// handleInput treats free text and photos as fields of the participant
// being built. Anywhere else the current screen is shown again.
func (b *Bot) handleInput(ctx context.Context, chatID int64, user domain.User, msg *tgbotapi.Message) {
	sess := b.sessions.Load(ctx, user)
	if sess.Entry != domain.EntryUploadPhoto {
		b.render(ctx, chatID, sess, 0)
		return
	}

	if len(msg.Photo) > 0 {
		// Telegram lists sizes from smallest to largest.
		largest := msg.Photo[len(msg.Photo)-1]
		photo := domain.Photo{Platform: domain.PlatformTelegram, FileID: largest.FileID}
		b.dispatch(ctx, chatID, user, conversation.BuildPhoto{Photo: photo}, 0)
		return
	}

	field, err := ParseBuildField(msg.Text)
	if err != nil {
		b.reportError(chatID, err)
		return
	}
	b.dispatch(ctx, chatID, user, field, 0)
}

func (b *Bot) showOrders(ctx context.Context, chatID int64, user domain.User) {
	orders, err := b.storage.OrdersByUser(ctx, user.ID, ordersShown)
	if err != nil {
		b.logger.Error("Failed to list orders",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		b.sendError(chatID, "Не удалось загрузить заказы")
		return
	}
	if len(orders) == 0 {
		b.sendMessage(tgbotapi.NewMessage(chatID, "У вас пока нет заказов"))
		return
	}

	msg := tgbotapi.NewMessage(chatID, "🧾 Ваши заказы")
	msg.ReplyMarkup = ordersKeyboard(orders, b.loc)
	b.sendMessage(msg)
}

func (b *Bot) handleExport(ctx context.Context, chatID int64, user domain.User) {
	if !user.IsAdmin {
		b.sendError(chatID, "Недостаточно прав")
		return
	}

	path, err := b.storage.ExportOrders(ctx, b.cfg.ReportsDir, b.loc)
	if err != nil {
		b.logger.Error("Failed to export orders", zap.Error(err))
		b.sendError(chatID, "Не удалось выгрузить заказы")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "📊 Все заказы"
	if _, err := b.bot.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Не удалось отправить файл")
	}
}
