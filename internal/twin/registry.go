package twin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
)

// Registry creates and clones the twins of every entity kind.
type Registry struct {
	gate         Gate
	users        Kind[domain.UserDraft, domain.User]
	nodes        Kind[domain.NodeDraft, domain.Node]
	orders       Kind[domain.OrderDraft, domain.Order]
	participants Kind[domain.ParticipantDraft, domain.Participant]
}

// NewRegistry binds the entity kinds to gw. A nil gate skips validation.
func NewRegistry(gw Gateway, gate Gate) *Registry {
	return &Registry{
		gate: gate,
		users: Kind[domain.UserDraft, domain.User]{
			Name: "user",
			Save: gw.SaveUser,
			Read: func(_ context.Context, u domain.User) (domain.UserDraft, error) {
				return u.Draft(), nil
			},
		},
		nodes: Kind[domain.NodeDraft, domain.Node]{
			Name: "node",
			Save: gw.SaveNode,
			Read: func(_ context.Context, n domain.Node) (domain.NodeDraft, error) {
				return n.Draft(), nil
			},
		},
		orders: Kind[domain.OrderDraft, domain.Order]{
			Name: "order",
			Save: gw.SaveOrder,
			Read: func(_ context.Context, o domain.Order) (domain.OrderDraft, error) {
				return o.Draft(), nil
			},
		},
		participants: participantKind(gw),
	}
}

func participantKind(gw Gateway) Kind[domain.ParticipantDraft, domain.Participant] {
	return Kind[domain.ParticipantDraft, domain.Participant]{
		Name: "participant",
		Save: gw.SaveParticipant,
		Read: func(ctx context.Context, p domain.Participant) (domain.ParticipantDraft, error) {
			var (
				photos []domain.Photo
				user   *domain.User
			)
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				photos, err = gw.ParticipantPhotos(ctx, p.ID)
				return err
			})
			g.Go(func() (err error) {
				user, err = gw.ParticipantUser(ctx, p.ID)
				return err
			})
			if err := g.Wait(); err != nil {
				return domain.ParticipantDraft{}, err
			}

			draft := domain.ParticipantDraft{
				Role:        p.Role,
				Name:        p.Name,
				PlatformIDs: append([]domain.PlatformID(nil), p.PlatformIDs...),
				Price:       p.Price,
				Photos:      photos,
			}
			if user != nil {
				id := user.ID
				draft.UserID = &id
			}
			return draft, nil
		},
		Relations: []Relation[domain.ParticipantDraft, domain.Participant]{
			{
				Name: "photos",
				Attach: func(ctx context.Context, p domain.Participant, d domain.ParticipantDraft) error {
					return gw.AttachPhotos(ctx, p.ID, d.Photos)
				},
				Bind: func(p *domain.Participant, d domain.ParticipantDraft) {
					p.Photos = d.Photos
				},
			},
			{
				Name:    "user",
				Present: func(d domain.ParticipantDraft) bool { return d.UserID != nil },
				Attach: func(ctx context.Context, p domain.Participant, d domain.ParticipantDraft) error {
					return gw.AttachUser(ctx, p.ID, *d.UserID)
				},
				Bind: func(p *domain.Participant, d domain.ParticipantDraft) {
					p.UserID = d.UserID
				},
			},
		},
	}
}

func (r *Registry) CreateUser(ctx context.Context, draft domain.UserDraft) (domain.User, error) {
	return r.users.Create(ctx, r.gate, draft)
}

func (r *Registry) CloneUser(ctx context.Context, from domain.User) (domain.User, error) {
	return r.users.Clone(ctx, r.gate, from)
}

func (r *Registry) CreateNode(ctx context.Context, draft domain.NodeDraft) (domain.Node, error) {
	return r.nodes.Create(ctx, r.gate, draft)
}

func (r *Registry) CloneNode(ctx context.Context, from domain.Node) (domain.Node, error) {
	return r.nodes.Clone(ctx, r.gate, from)
}

func (r *Registry) CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	return r.orders.Create(ctx, r.gate, draft)
}

func (r *Registry) CloneOrder(ctx context.Context, from domain.Order) (domain.Order, error) {
	return r.orders.Clone(ctx, r.gate, from)
}

// CreateOrderFromCheckout stores the order a customer has confirmed. The
// date, duration and type must be set; nothing is written otherwise.
func (r *Registry) CreateOrderFromCheckout(ctx context.Context, userID uuid.UUID, c order.Checkout) (domain.Order, error) {
	draft, err := OrderDraftFromCheckout(userID, c)
	if err != nil {
		return domain.Order{}, err
	}
	return r.CreateOrder(ctx, draft)
}

// OrderDraftFromCheckout builds the draft of a confirmed order. Price is the
// booked price before promotions; the promotions are kept with the order.
func OrderDraftFromCheckout(userID uuid.UUID, c order.Checkout) (domain.OrderDraft, error) {
	s := c.Order
	var missing string
	switch {
	case s.Date == nil:
		missing = "date"
	case s.Duration == nil:
		missing = "duration"
	case s.Type == nil:
		missing = "type"
	}
	if missing != "" {
		return domain.OrderDraft{}, &MissingFieldError{Kind: "order", Field: missing}
	}

	return domain.OrderDraft{
		UserID:         userID,
		Type:           *s.Type,
		StylistID:      s.StylistID,
		MakeuperID:     s.MakeuperID,
		PhotographerID: s.PhotographerID,
		StudioID:       s.StudioID,
		Interval:       domain.Interval{Start: s.Date.In(time.UTC), Duration: *s.Duration},
		HourPrice:      s.HourPrice,
		Price:          s.Price(),
		Promotions:     c.PromotionIDs(),
	}, nil
}

func (r *Registry) CreateParticipant(ctx context.Context, draft domain.ParticipantDraft) (domain.Participant, error) {
	return r.participants.Create(ctx, r.gate, draft)
}

func (r *Registry) CloneParticipant(ctx context.Context, from domain.Participant) (domain.Participant, error) {
	return r.participants.Clone(ctx, r.gate, from)
}
