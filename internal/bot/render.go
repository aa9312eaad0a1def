package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"photoshoot-bot/internal/conversation"
	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
	"photoshoot-bot/internal/payload"
)

// nodeText is the message of the node serving entry. Entry points without a
// stored node use the built-in text.
func (b *Bot) nodeText(ctx context.Context, entry domain.EntryPoint) string {
	node, err := b.storage.NodeByEntry(ctx, entry)
	if err != nil || len(node.Messages) == 0 {
		if err != nil {
			b.logger.Debug("Using built-in node text",
				zap.String("entry", string(entry)),
				zap.Error(err))
		}
		return strings.Join(b.fallback[entry], "\n\n")
	}
	return strings.Join(node.Messages, "\n\n")
}

// participantName resolves a booked participant for order summaries.
func (b *Bot) participantName(ctx context.Context) func(uuid.UUID) string {
	return func(id uuid.UUID) string {
		p, err := b.storage.Participant(ctx, id)
		if err != nil {
			b.logger.Warn("Failed to resolve participant",
				zap.String("participant_id", id.String()),
				zap.Error(err))
			return "?"
		}
		return p.Name
	}
}

// render shows the screen of sess. A screen carrying an EditText payload
// replaces the text of that message instead of sending a new one.
func (b *Bot) render(ctx context.Context, chatID int64, sess conversation.Session, messageID int) {
	text := b.nodeText(ctx, sess.Entry)
	var markup tgbotapi.InlineKeyboardMarkup

	switch sess.Entry {
	case domain.EntryWelcome, domain.EntryWelcomeGuest:
		markup = welcomeKeyboard()

	case domain.EntryOrderTypes:
		markup = orderTypesKeyboard()

	case domain.EntryOrderBuilder:
		builder, _ := sess.OrderState()
		text += "\n\n" + FormatState(builder.State, b.loc, b.participantName(ctx))
		markup = orderBuilderKeyboard(builder.State)

	case domain.EntryOrderBuilderStylist, domain.EntryOrderBuilderMakeuper,
		domain.EntryOrderBuilderPhotographer, domain.EntryOrderBuilderStudio:
		role := roleOf(sess.Entry)
		participants, err := b.storage.Participants(ctx, role)
		if err != nil {
			b.logger.Error("Failed to list participants",
				zap.String("role", string(role)),
				zap.Error(err))
			b.sendError(chatID, "Не удалось загрузить список")
			return
		}
		if len(participants) == 0 {
			text += "\n\nПока никого нет"
		}
		builder, _ := sess.OrderState()
		markup = participantsKeyboard(participants, selectedFor(builder.State, role))

	case domain.EntryOrderBuilderDate:
		cal, _ := sess.Payload.(payload.Calendar)
		if date, ok := cal.Date(b.loc); ok {
			text += "\n\nВыбрано: " + date.Format("02.01.2006 15:04")
		}
		markup = calendarKeyboard(cal, b.now())

	case domain.EntryOrderCheckout:
		c, _ := sess.Payload.(payload.Checkout)
		text += "\n\n" + FormatCheckout(c.State, b.loc, b.participantName(ctx))
		markup = checkoutKeyboard(c.State)

	case domain.EntryAbout:
		markup = tgbotapi.NewInlineKeyboardMarkup(backRow())
		if edit, ok := sess.Payload.(payload.EditText); ok && edit.MessageID != 0 {
			b.sendMessage(tgbotapi.NewEditMessageTextAndMarkup(chatID, edit.MessageID, text, markup))
			return
		}

	case domain.EntryPortfolio:
		page, _ := sess.Payload.(payload.Page)
		b.renderPortfolio(ctx, chatID, text, page)
		return

	case domain.EntryUploadPhoto:
		build, _ := sess.Payload.(payload.Build)
		text += "\n\n" + formatBuild(build)
		markup = tgbotapi.NewInlineKeyboardMarkup(backRow())
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	b.sendMessage(msg)
}

func (b *Bot) renderPortfolio(ctx context.Context, chatID int64, text string, page payload.Page) {
	photos, err := b.storage.PortfolioPhotos(ctx)
	if err != nil {
		b.logger.Error("Failed to load portfolio", zap.Error(err))
		b.sendError(chatID, "Не удалось загрузить портфолио")
		return
	}
	if len(photos) == 0 {
		msg := tgbotapi.NewMessage(chatID, text+"\n\nСкоро здесь появятся работы")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(backRow())
		b.sendMessage(msg)
		return
	}

	at := min(page.At, len(photos)-1)
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(photos[at].FileID))
	photo.Caption = fmt.Sprintf("%s\n%d / %d", text, at+1, len(photos))
	photo.ReplyMarkup = portfolioKeyboard()
	b.sendMessage(photo)
}

func (b *Bot) now() time.Time {
	return time.Now().In(b.loc)
}

func roleOf(entry domain.EntryPoint) domain.Role {
	for _, r := range domain.Roles {
		if r.Entry() == entry {
			return r
		}
	}
	return ""
}

func selectedFor(s order.State, role domain.Role) *uuid.UUID {
	switch role {
	case domain.RoleStylist:
		return s.StylistID
	case domain.RoleMakeuper:
		return s.MakeuperID
	case domain.RolePhotographer:
		return s.PhotographerID
	case domain.RoleStudio:
		return s.StudioID
	}
	return nil
}

// formatBuild lists what an admin has entered for the participant so far.
func formatBuild(build payload.Build) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Роль: %s\n", roleTitles[build.Type.Role()])
	if name, ok := build.Object[conversation.FieldName].AsString(); ok {
		fmt.Fprintf(&sb, "Имя: %s\n", name)
	}
	if price, ok := build.Object[conversation.FieldPrice].AsNumber(); ok {
		fmt.Fprintf(&sb, "Цена за час: %s\n", FormatPrice(price))
	}
	if userID, ok := build.Object[conversation.FieldUserID].AsString(); ok {
		fmt.Fprintf(&sb, "Пользователь: %s\n", userID)
	}
	photos, _ := build.Object[conversation.FieldPhotos].AsArray()
	fmt.Fprintf(&sb, "Фото: %d\n", len(photos))
	sb.WriteString("\nПоля: «имя: …», «цена: …», «user: <id>»")
	return sb.String()
}
