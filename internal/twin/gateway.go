package twin

import (
	"context"

	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
)

// Gateway is the persistence the registry writes twins through. Save
// methods assign the identity; they do not store relations.
type Gateway interface {
	SaveUser(ctx context.Context, draft domain.UserDraft) (domain.User, error)
	SaveNode(ctx context.Context, draft domain.NodeDraft) (domain.Node, error)
	SaveOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error)
	SaveParticipant(ctx context.Context, draft domain.ParticipantDraft) (domain.Participant, error)

	AttachPhotos(ctx context.Context, participantID uuid.UUID, photos []domain.Photo) error
	AttachUser(ctx context.Context, participantID, userID uuid.UUID) error

	ParticipantPhotos(ctx context.Context, participantID uuid.UUID) ([]domain.Photo, error)
	// ParticipantUser returns nil when the participant has no linked user.
	ParticipantUser(ctx context.Context, participantID uuid.UUID) (*domain.User, error)
}
