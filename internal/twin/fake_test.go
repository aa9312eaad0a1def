package twin

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
)

// fakeGateway keeps twins in memory. The *Err fields make the matching
// operation fail; the hooks run inside attach calls.
type fakeGateway struct {
	mu sync.Mutex

	users        map[uuid.UUID]domain.User
	nodes        map[uuid.UUID]domain.Node
	orders       map[uuid.UUID]domain.Order
	participants map[uuid.UUID]domain.Participant
	photos       map[uuid.UUID][]domain.Photo
	links        map[uuid.UUID]uuid.UUID

	saves int

	saveErr     error
	photosErr   error
	userErr     error
	onAttachPh  func()
	onAttachUsr func()
}

var _ Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users:        make(map[uuid.UUID]domain.User),
		nodes:        make(map[uuid.UUID]domain.Node),
		orders:       make(map[uuid.UUID]domain.Order),
		participants: make(map[uuid.UUID]domain.Participant),
		photos:       make(map[uuid.UUID][]domain.Photo),
		links:        make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeGateway) SaveUser(_ context.Context, d domain.UserDraft) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return domain.User{}, f.saveErr
	}
	f.saves++
	u := domain.User{
		ID:          uuid.New(),
		Name:        d.Name,
		IsAdmin:     d.IsAdmin,
		PlatformIDs: d.PlatformIDs,
		History:     d.History,
		Entry:       d.Entry,
		NodePayload: d.NodePayload,
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeGateway) SaveNode(_ context.Context, d domain.NodeDraft) (domain.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return domain.Node{}, f.saveErr
	}
	f.saves++
	n := domain.Node{
		ID:         uuid.New(),
		Systemic:   d.Systemic,
		Name:       d.Name,
		Messages:   d.Messages,
		EntryPoint: d.EntryPoint,
		Action:     d.Action,
	}
	f.nodes[n.ID] = n
	return n, nil
}

func (f *fakeGateway) SaveOrder(_ context.Context, d domain.OrderDraft) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return domain.Order{}, f.saveErr
	}
	f.saves++
	o := domain.Order{
		ID:             uuid.New(),
		UserID:         d.UserID,
		Type:           d.Type,
		StylistID:      d.StylistID,
		MakeuperID:     d.MakeuperID,
		PhotographerID: d.PhotographerID,
		StudioID:       d.StudioID,
		Interval:       d.Interval,
		HourPrice:      d.HourPrice,
		Price:          d.Price,
		IsCancelled:    d.IsCancelled,
		Promotions:     d.Promotions,
	}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeGateway) SaveParticipant(_ context.Context, d domain.ParticipantDraft) (domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return domain.Participant{}, f.saveErr
	}
	f.saves++
	p := domain.Participant{
		ID:          uuid.New(),
		Role:        d.Role,
		Name:        d.Name,
		PlatformIDs: d.PlatformIDs,
		Price:       d.Price,
	}
	f.participants[p.ID] = p
	return p, nil
}

func (f *fakeGateway) AttachPhotos(_ context.Context, participantID uuid.UUID, photos []domain.Photo) error {
	if f.onAttachPh != nil {
		f.onAttachPh()
	}
	if f.photosErr != nil {
		return f.photosErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos[participantID] = append(f.photos[participantID], photos...)
	return nil
}

func (f *fakeGateway) AttachUser(_ context.Context, participantID, userID uuid.UUID) error {
	if f.onAttachUsr != nil {
		f.onAttachUsr()
	}
	if f.userErr != nil {
		return f.userErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links[participantID] = userID
	return nil
}

func (f *fakeGateway) ParticipantPhotos(_ context.Context, participantID uuid.UUID) ([]domain.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Photo(nil), f.photos[participantID]...), nil
}

func (f *fakeGateway) ParticipantUser(_ context.Context, participantID uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.links[participantID]
	if !ok {
		return nil, nil
	}
	u, ok := f.users[id]
	if !ok {
		u = domain.User{ID: id}
	}
	return &u, nil
}
