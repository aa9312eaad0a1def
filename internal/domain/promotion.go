package domain

import "github.com/google/uuid"

// Promotion is a percentage discount. OrderType restricts it to one kind of
// order; nil applies to every order.
type Promotion struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Description     string     `json:"description" db:"description"`
	DiscountPercent float64    `json:"discountPercent" db:"discount_percent"`
	OrderType       *OrderType `json:"orderType,omitempty" db:"order_type"`
}

// Apply returns price reduced by the promotion.
func (p Promotion) Apply(price float64) float64 {
	return price * (1 - p.DiscountPercent/100)
}
