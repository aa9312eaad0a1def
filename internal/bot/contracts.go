package bot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/storage"
)

// Storage is what the chat adapter reads directly. Writes of new entities
// go through a Registry.
type Storage interface {
	User(ctx context.Context, id uuid.UUID) (domain.User, error)
	UserByPlatformID(ctx context.Context, platform domain.Platform, id int64) (domain.User, error)
	SetAdmin(ctx context.Context, userID uuid.UUID, admin bool) error
	NodeByEntry(ctx context.Context, entry domain.EntryPoint) (domain.Node, error)
	Participant(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	Participants(ctx context.Context, role domain.Role) ([]domain.Participant, error)
	PortfolioPhotos(ctx context.Context) ([]domain.Photo, error)
	OrdersByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Order, error)
	CheckRateLimit(ctx context.Context, userID uuid.UUID, action string, limit int64, window time.Duration) (bool, error)
	ExportOrders(ctx context.Context, dir string, loc *time.Location) (string, error)
}

type Registry interface {
	CreateUser(ctx context.Context, draft domain.UserDraft) (domain.User, error)
}

var _ Storage = (*storage.PostgresStorage)(nil)
