package conversation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"photoshoot-bot/internal/domain"
)

var defaultMessages = map[domain.EntryPoint][]string{
	domain.EntryWelcome:                  {"👋 Привет! Здесь можно собрать фотосессию: выберите тип съёмки, фотографа, студию и дату."},
	domain.EntryWelcomeGuest:             {"👋 Привет! Я помогу забронировать фотосессию.", "Нажмите «Собрать заказ», чтобы начать."},
	domain.EntryOrderTypes:               {"📸 Какую съёмку хотите?"},
	domain.EntryOrderBuilder:             {"🧩 Соберите заказ: фотограф, студия, длительность и дата обязательны."},
	domain.EntryOrderBuilderStylist:      {"💇 Выберите стилиста"},
	domain.EntryOrderBuilderMakeuper:     {"💄 Выберите визажиста"},
	domain.EntryOrderBuilderPhotographer: {"📷 Выберите фотографа"},
	domain.EntryOrderBuilderStudio:       {"🏠 Выберите студию"},
	domain.EntryOrderBuilderDate:         {"📅 Выберите день и время"},
	domain.EntryOrderCheckout:            {"🧾 Проверьте заказ"},
	domain.EntryAbout:                    {"ℹ️ Мы организуем фотосессии под ключ: команда, студия и обработка."},
	domain.EntryPortfolio:                {"🖼 Наши работы"},
	domain.EntryUploadPhoto:              {"⬆️ Отправьте фотографии и поля участника, затем /submit"},
}

// DefaultNodes is one systemic node per entry point.
func DefaultNodes() []domain.NodeDraft {
	drafts := make([]domain.NodeDraft, 0, len(domain.EntryPoints))
	for _, entry := range domain.EntryPoints {
		entry := entry
		draft := domain.NodeDraft{
			Systemic:   true,
			Name:       string(entry),
			Messages:   defaultMessages[entry],
			EntryPoint: &entry,
		}
		if entry == domain.EntryUploadPhoto {
			draft.Action = &domain.NodeAction{Kind: domain.ActionUploadPhoto}
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

type NodeLister interface {
	Nodes(ctx context.Context) ([]domain.Node, error)
}

type NodeCreator interface {
	CreateNode(ctx context.Context, draft domain.NodeDraft) (domain.Node, error)
}

// SeedNodes creates the default nodes whose entry point has no node yet.
func SeedNodes(ctx context.Context, lister NodeLister, creator NodeCreator, logger *zap.Logger) error {
	nodes, err := lister.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("list nodes: %w", err)
	}
	have := make(map[domain.EntryPoint]bool, len(nodes))
	for _, n := range nodes {
		if n.EntryPoint != nil {
			have[*n.EntryPoint] = true
		}
	}

	for _, draft := range DefaultNodes() {
		if have[*draft.EntryPoint] {
			continue
		}
		node, err := creator.CreateNode(ctx, draft)
		if err != nil {
			return fmt.Errorf("create node %s: %w", draft.Name, err)
		}
		logger.Info("Node created",
			zap.String("node_id", node.ID.String()),
			zap.String("entry", draft.Name))
	}
	return nil
}
