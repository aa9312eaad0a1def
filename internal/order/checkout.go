package order

import (
	"context"

	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
)

// PromotionFetcher returns the promotions applied to a stored order.
type PromotionFetcher interface {
	PromotionsFor(ctx context.Context, o domain.Order) ([]domain.Promotion, error)
}

// PromotionFinder returns the promotions a new order qualifies for.
type PromotionFinder interface {
	ApplicablePromotions(ctx context.Context, s State) ([]domain.Promotion, error)
}

// Checkout is a finished order together with its promotions. The order of
// Promotions is kept for display only.
type Checkout struct {
	Order      State              `json:"order"`
	Promotions []domain.Promotion `json:"promotions"`
}

// NewCheckout projects a stored order and fetches its promotions. Fetch
// errors are returned as is.
func NewCheckout(ctx context.Context, o domain.Order, f PromotionFetcher) (Checkout, error) {
	promotions, err := f.PromotionsFor(ctx, o)
	if err != nil {
		return Checkout{}, err
	}
	return Checkout{Order: FromOrder(o), Promotions: promotions}, nil
}

// Price is the order price with every promotion applied.
func (c Checkout) Price() float64 {
	price := c.Order.Price()
	for _, p := range c.Promotions {
		price = p.Apply(price)
	}
	return price
}

// PromotionIDs lists the promotion identities in display order.
func (c Checkout) PromotionIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Promotions))
	for _, p := range c.Promotions {
		ids = append(ids, p.ID)
	}
	return ids
}
