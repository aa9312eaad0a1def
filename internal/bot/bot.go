package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"photoshoot-bot/internal/config"
	"photoshoot-bot/internal/conversation"
	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/payload"
	"photoshoot-bot/internal/session"
	"photoshoot-bot/internal/storage"
	"photoshoot-bot/internal/twin"
)

const confirmAction = "confirm_order"

type Bot struct {
	bot      *tgbotapi.BotAPI
	logger   *zap.Logger
	cfg      *config.Config
	loc      *time.Location
	storage  Storage
	registry Registry
	machine  *conversation.Machine
	sessions *session.Store
	queue    *dispatcher
	// fallback messages for entry points without a stored node.
	fallback map[domain.EntryPoint][]string
}

func New(
	token string,
	cfg *config.Config,
	store Storage,
	registry Registry,
	machine *conversation.Machine,
	sessions *session.Store,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	botAPI.Debug = cfg.LogMode == "development"

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	fallback := make(map[domain.EntryPoint][]string)
	for _, n := range conversation.DefaultNodes() {
		fallback[*n.EntryPoint] = n.Messages
	}

	return &Bot{
		bot:      botAPI,
		logger:   logger,
		cfg:      cfg,
		loc:      cfg.Location(),
		storage:  store,
		registry: registry,
		machine:  machine,
		sessions: sessions,
		queue:    newDispatcher(),
		fallback: fallback,
	}, nil
}

// Start polls for updates until ctx is done, then waits for the updates
// already being handled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.bot.StopReceivingUpdates()
			b.queue.Wait()
			return nil

		case update, ok := <-updates:
			if !ok {
				b.queue.Wait()
				return nil
			}
			switch {
			case update.Message != nil:
				msg := update.Message
				b.queue.Submit(msg.Chat.ID, func() { b.processMessage(ctx, msg) })
			case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
				cb := update.CallbackQuery
				b.queue.Submit(cb.Message.Chat.ID, func() { b.processCallback(ctx, cb) })
			}
		}
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	user, isNew, err := b.resolveUser(ctx, chatID, msg.From)
	if err != nil {
		b.logger.Error("Failed to resolve user",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Ошибка при обработке запроса")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, user, isNew, msg)
		return
	}
	if isNew {
		b.dispatch(ctx, chatID, user, conversation.Start{Guest: true}, 0)
		return
	}
	b.handleInput(ctx, chatID, user, msg)
}

func (b *Bot) processCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	data := cb.Data

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", data))

	if _, err := b.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	if data == "noop" {
		return
	}

	user, _, err := b.resolveUser(ctx, chatID, cb.From)
	if err != nil {
		b.logger.Error("Failed to resolve user",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Ошибка при обработке запроса")
		return
	}

	if data == CallbackOrders {
		b.showOrders(ctx, chatID, user)
		return
	}

	ev, err := ParseCallback(data)
	if err != nil {
		b.logger.Warn("Unknown callback",
			zap.Int64("chat_id", chatID),
			zap.String("data", data),
			zap.Error(err))
		b.sendError(chatID, "Неизвестная команда")
		return
	}
	if about, ok := ev.(conversation.OpenAbout); ok {
		about.MessageID = cb.Message.MessageID
		ev = about
	}
	b.dispatch(ctx, chatID, user, ev, cb.Message.MessageID)
}

// resolveUser finds the user of a chat, registering it on first contact.
// Admin rights follow the configured admin list.
func (b *Bot) resolveUser(ctx context.Context, chatID int64, from *tgbotapi.User) (domain.User, bool, error) {
	admin := b.cfg.IsAdmin(chatID)

	user, err := b.storage.UserByPlatformID(ctx, domain.PlatformTelegram, chatID)
	switch {
	case err == nil:
		if admin && !user.IsAdmin {
			if err := b.storage.SetAdmin(ctx, user.ID, true); err != nil {
				return domain.User{}, false, err
			}
			user.IsAdmin = true
		}
		return user, false, nil
	case !storage.IsNotFound(err):
		return domain.User{}, false, err
	}

	pid := domain.PlatformID{Platform: domain.PlatformTelegram, ID: chatID}
	draft := domain.UserDraft{IsAdmin: admin}
	if from != nil {
		if from.UserName != "" {
			username := from.UserName
			pid.Username = &username
		}
		if name := strings.TrimSpace(from.FirstName + " " + from.LastName); name != "" {
			draft.Name = &name
		}
	}
	draft.PlatformIDs = []domain.PlatformID{pid}

	user, err = b.registry.CreateUser(ctx, draft)
	if err != nil {
		return domain.User{}, false, err
	}
	b.logger.Info("New user registered",
		zap.Int64("chat_id", chatID),
		zap.String("user_id", user.ID.String()),
		zap.Bool("admin", admin))
	return user, true, nil
}

// dispatch runs one conversation step and shows its outcome. messageID is
// the message the step was triggered from, or 0.
func (b *Bot) dispatch(ctx context.Context, chatID int64, user domain.User, ev conversation.Event, messageID int) {
	sess := b.sessions.Load(ctx, user)

	if _, ok := ev.(conversation.Confirm); ok && b.confirmLimited(ctx, chatID, user, sess) {
		return
	}

	res, err := b.machine.Apply(ctx, user, sess, ev)
	if err != nil {
		b.reportError(chatID, err)
		if errors.Is(err, conversation.ErrUnexpectedEvent) {
			b.render(ctx, chatID, sess, 0)
		}
		return
	}

	if err := b.sessions.Save(ctx, user.ID, res.Session); err != nil {
		b.logger.Error("Failed to save session",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	if res.Order != nil {
		b.sendMessage(tgbotapi.NewMessage(chatID, "✅ Заказ оформлен! Мы свяжемся с вами для подтверждения."))
		b.notifyOrder(ctx, user, *res.Order)
	}
	if res.Participant != nil {
		b.sendMessage(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("✅ %s «%s» добавлен", roleTitles[res.Participant.Role], res.Participant.Name)))
	}
	b.render(ctx, chatID, res.Session, messageID)
}

// confirmLimited reports whether placing another order is over the limit.
// Reopened orders are already placed and never limited.
func (b *Bot) confirmLimited(ctx context.Context, chatID int64, user domain.User, sess conversation.Session) bool {
	if b.cfg.Orders.RateLimit <= 0 || sess.Entry != domain.EntryOrderCheckout {
		return false
	}
	if c, ok := sess.Payload.(payload.Checkout); ok && c.State.Order.ID != nil {
		return false
	}

	limited, err := b.storage.CheckRateLimit(ctx, user.ID, confirmAction, b.cfg.Orders.RateLimit, b.cfg.Orders.RateWindow)
	if err != nil {
		b.logger.Warn("Failed to check rate limit",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return false
	}
	if limited {
		b.sendError(chatID, "Слишком много заказов. Попробуйте позже.")
	}
	return limited
}

func (b *Bot) reportError(chatID int64, err error) {
	var (
		missing     *twin.MissingFieldError
		validations validator.ValidationErrors
	)

	switch {
	case errors.As(err, &validations):
		fields := make([]string, 0, len(validations))
		for _, fe := range validations {
			fields = append(fields, fe.Field())
		}
		b.sendError(chatID, "Проверьте поля: "+strings.Join(fields, ", "))
	case errors.Is(err, twin.ErrValidation):
		b.sendError(chatID, "Данные не прошли проверку")
	case errors.As(err, &missing):
		b.sendError(chatID, "Не заполнено: "+missing.Field)
	case errors.Is(err, conversation.ErrIncompleteOrder):
		b.sendError(chatID, "Выберите фотографа, студию, длительность и дату")
	case errors.Is(err, conversation.ErrForbidden):
		b.sendError(chatID, "Недостаточно прав")
	case errors.Is(err, conversation.ErrUnexpectedEvent):
		b.sendError(chatID, "Это действие сейчас недоступно")
	case errors.Is(err, conversation.ErrInvalidChoice),
		errors.Is(err, conversation.ErrMalformedBuild),
		errors.Is(err, ErrBadField):
		b.sendError(chatID, "Некорректное значение: "+err.Error())
	case storage.IsNotFound(err):
		b.sendError(chatID, "Не найдено")
	default:
		b.logger.Error("Conversation step failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Ошибка при обработке запроса")
	}
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}
