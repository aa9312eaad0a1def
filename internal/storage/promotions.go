package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
)

var (
	_ order.PromotionFetcher = (*PostgresStorage)(nil)
	_ order.PromotionFinder  = (*PostgresStorage)(nil)
)

const promotionColumns = `id, name, description, discount_percent, order_type`

// PromotionsFor returns the promotions stored with the order, in the order
// they were applied.
func (s *PostgresStorage) PromotionsFor(ctx context.Context, o domain.Order) ([]domain.Promotion, error) {
	const operation = "storage.PromotionsFor"

	if len(o.Promotions) == 0 {
		return nil, nil
	}
	var promotions []domain.Promotion
	query := `
        SELECT ` + promotionColumns + `
        FROM promotions
        WHERE id = ANY($1::uuid[])
        ORDER BY array_position($1::uuid[], id)
    `
	if err := s.db.SelectContext(ctx, &promotions, query, uuidArray(o.Promotions)); err != nil {
		return nil, fmt.Errorf("%s: failed to get promotions: %w", operation, err)
	}
	return promotions, nil
}

// ApplicablePromotions returns the active promotions for the order's type.
func (s *PostgresStorage) ApplicablePromotions(ctx context.Context, st order.State) ([]domain.Promotion, error) {
	const operation = "storage.ApplicablePromotions"

	var orderType *string
	if st.Type != nil {
		t := string(*st.Type)
		orderType = &t
	}

	var promotions []domain.Promotion
	query := `
        SELECT ` + promotionColumns + `
        FROM promotions
        WHERE active AND (order_type IS NULL OR order_type = $1)
        ORDER BY name
    `
	if err := s.db.SelectContext(ctx, &promotions, query, orderType); err != nil {
		return nil, fmt.Errorf("%s: failed to get promotions: %w", operation, err)
	}
	return promotions, nil
}

// SavePromotion stores a promotion. Promotions are managed by admins only.
func (s *PostgresStorage) SavePromotion(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	const operation = "storage.SavePromotion"

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	const query = `
        INSERT INTO promotions (id, name, description, discount_percent, order_type)
        VALUES (:id, :name, :description, :discount_percent, :order_type)
    `
	if _, err := s.db.NamedExecContext(ctx, query, p); err != nil {
		return domain.Promotion{}, fmt.Errorf("%s: failed to save promotion: %w", operation, err)
	}
	return p, nil
}
