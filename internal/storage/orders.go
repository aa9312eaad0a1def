package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
)

type orderRow struct {
	ID             uuid.UUID      `db:"id"`
	UserID         uuid.UUID      `db:"user_id"`
	Type           string         `db:"type"`
	StylistID      *uuid.UUID     `db:"stylist_id"`
	MakeuperID     *uuid.UUID     `db:"makeuper_id"`
	PhotographerID *uuid.UUID     `db:"photographer_id"`
	StudioID       *uuid.UUID     `db:"studio_id"`
	StartsAt       time.Time      `db:"starts_at"`
	Duration       float64        `db:"duration_seconds"`
	HourPrice      float64        `db:"hour_price"`
	Price          float64        `db:"price"`
	IsCancelled    bool           `db:"is_cancelled"`
	PromotionIDs   pq.StringArray `db:"promotion_ids"`
	CreatedAt      time.Time      `db:"created_at"`
}

const orderColumns = `id, user_id, type, stylist_id, makeuper_id, photographer_id, studio_id,
    starts_at, duration_seconds, hour_price, price, is_cancelled, promotion_ids, created_at`

func (r orderRow) toDomain() (domain.Order, error) {
	o := domain.Order{
		ID:             r.ID,
		UserID:         r.UserID,
		Type:           domain.OrderType(r.Type),
		StylistID:      r.StylistID,
		MakeuperID:     r.MakeuperID,
		PhotographerID: r.PhotographerID,
		StudioID:       r.StudioID,
		Interval:       domain.Interval{Start: r.StartsAt, Duration: order.SecondsToDuration(r.Duration)},
		HourPrice:      r.HourPrice,
		Price:          r.Price,
		IsCancelled:    r.IsCancelled,
		CreatedAt:      r.CreatedAt,
	}
	for _, raw := range r.PromotionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return domain.Order{}, fmt.Errorf("promotion id %q: %w", raw, err)
		}
		o.Promotions = append(o.Promotions, id)
	}
	return o, nil
}

func uuidArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func (s *PostgresStorage) SaveOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	const operation = "storage.SaveOrder"

	row := orderRow{
		ID:             uuid.New(),
		UserID:         draft.UserID,
		Type:           string(draft.Type),
		StylistID:      draft.StylistID,
		MakeuperID:     draft.MakeuperID,
		PhotographerID: draft.PhotographerID,
		StudioID:       draft.StudioID,
		StartsAt:       draft.Interval.Start,
		Duration:       draft.Interval.Duration.Seconds(),
		HourPrice:      draft.HourPrice,
		Price:          draft.Price,
		IsCancelled:    draft.IsCancelled,
		PromotionIDs:   uuidArray(draft.Promotions),
	}

	const query = `
        INSERT INTO orders (
            id, user_id, type, stylist_id, makeuper_id, photographer_id, studio_id,
            starts_at, duration_seconds, hour_price, price, is_cancelled, promotion_ids
        ) VALUES (
            :id, :user_id, :type, :stylist_id, :makeuper_id, :photographer_id, :studio_id,
            :starts_at, :duration_seconds, :hour_price, :price, :is_cancelled, :promotion_ids
        )
        RETURNING created_at
    `
	stmt, err := s.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", operation, err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &row.CreatedAt, row); err != nil {
		return domain.Order{}, fmt.Errorf("%s: failed to save order: %w", operation, err)
	}
	return row.toDomain()
}

func (s *PostgresStorage) Order(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	const operation = "storage.Order"

	var row orderRow
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		return domain.Order{}, notFound(err, operation, "order "+id.String())
	}
	return row.toDomain()
}

// OrdersByUser lists the orders of a customer, newest first.
func (s *PostgresStorage) OrdersByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Order, error) {
	const operation = "storage.OrdersByUser"

	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	return s.selectOrders(ctx, operation, query, userID, limit)
}

// AllOrders lists every order, newest first.
func (s *PostgresStorage) AllOrders(ctx context.Context) ([]domain.Order, error) {
	const operation = "storage.AllOrders"

	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return s.selectOrders(ctx, operation, query)
}

func (s *PostgresStorage) selectOrders(ctx context.Context, operation, query string, args ...any) ([]domain.Order, error) {
	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to fetch orders: %w", operation, err)
	}
	orders := make([]domain.Order, 0, len(rows))
	for _, r := range rows {
		o, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: order %s: %w", operation, r.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}
