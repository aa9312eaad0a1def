package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"photoshoot-bot/internal/domain"
)

type participantRow struct {
	ID          uuid.UUID      `db:"id"`
	Role        string         `db:"role"`
	Name        string         `db:"name"`
	PlatformIDs types.JSONText `db:"platform_ids"`
	Price       float64        `db:"price"`
	UserID      *uuid.UUID     `db:"user_id"`
}

const participantColumns = `id, role, name, platform_ids, price, user_id`

func (r participantRow) toDomain() (domain.Participant, error) {
	p := domain.Participant{
		ID:     r.ID,
		Role:   domain.Role(r.Role),
		Name:   r.Name,
		Price:  r.Price,
		UserID: r.UserID,
	}
	if err := r.PlatformIDs.Unmarshal(&p.PlatformIDs); err != nil {
		return domain.Participant{}, fmt.Errorf("platform ids: %w", err)
	}
	if len(p.PlatformIDs) == 0 {
		p.PlatformIDs = nil
	}
	return p, nil
}

type photoRow struct {
	ParticipantID uuid.UUID `db:"participant_id"`
	Platform      string    `db:"platform"`
	FileID        string    `db:"file_id"`
}

// SaveParticipant stores the participant without its photos and user link.
func (s *PostgresStorage) SaveParticipant(ctx context.Context, draft domain.ParticipantDraft) (domain.Participant, error) {
	const operation = "storage.SaveParticipant"

	platformIDs, err := jsonText(nonNil(draft.PlatformIDs))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("%s: %w", operation, err)
	}
	row := participantRow{
		ID:          uuid.New(),
		Role:        string(draft.Role),
		Name:        draft.Name,
		PlatformIDs: platformIDs,
		Price:       draft.Price,
	}

	const query = `
        INSERT INTO participants (id, role, name, platform_ids, price)
        VALUES (:id, :role, :name, :platform_ids, :price)
    `
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return domain.Participant{}, fmt.Errorf("%s: failed to save participant: %w", operation, err)
	}
	return row.toDomain()
}

func (s *PostgresStorage) AttachPhotos(ctx context.Context, participantID uuid.UUID, photos []domain.Photo) error {
	const operation = "storage.AttachPhotos"

	if len(photos) == 0 {
		return nil
	}
	rows := make([]photoRow, 0, len(photos))
	for _, p := range photos {
		rows = append(rows, photoRow{ParticipantID: participantID, Platform: string(p.Platform), FileID: p.FileID})
	}

	const query = `
        INSERT INTO participant_photos (participant_id, platform, file_id)
        VALUES (:participant_id, :platform, :file_id)
    `
	if _, err := s.db.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("%s: failed to attach photos: %w", operation, err)
	}
	s.dropParticipantCache(ctx, participantID)
	return nil
}

func (s *PostgresStorage) AttachUser(ctx context.Context, participantID, userID uuid.UUID) error {
	const operation = "storage.AttachUser"

	res, err := s.db.ExecContext(ctx, `UPDATE participants SET user_id = $2 WHERE id = $1`, participantID, userID)
	if err != nil {
		return fmt.Errorf("%s: failed to link user: %w", operation, err)
	}
	if err := expectRow(res, operation, "participant "+participantID.String()); err != nil {
		return err
	}
	s.dropParticipantCache(ctx, participantID)
	return nil
}

func (s *PostgresStorage) ParticipantPhotos(ctx context.Context, participantID uuid.UUID) ([]domain.Photo, error) {
	const operation = "storage.ParticipantPhotos"

	photos, err := s.photosOf(ctx, []uuid.UUID{participantID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return photos[participantID], nil
}

// ParticipantUser returns the linked user, or nil when there is none.
func (s *PostgresStorage) ParticipantUser(ctx context.Context, participantID uuid.UUID) (*domain.User, error) {
	const operation = "storage.ParticipantUser"

	var userID *uuid.UUID
	if err := s.db.GetContext(ctx, &userID, `SELECT user_id FROM participants WHERE id = $1`, participantID); err != nil {
		return nil, notFound(err, operation, "participant "+participantID.String())
	}
	if userID == nil {
		return nil, nil
	}
	u, err := s.User(ctx, *userID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Participant returns the participant with its photos. Results are cached
// in Redis until a relation of the participant changes.
func (s *PostgresStorage) Participant(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	const operation = "storage.Participant"

	cacheKey := participantKey(id)
	if cached, err := s.redis.Get(ctx, cacheKey); err == nil {
		var p domain.Participant
		if err := json.Unmarshal(cached, &p); err == nil {
			return p, nil
		}
	}

	var row participantRow
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		return domain.Participant{}, notFound(err, operation, "participant "+id.String())
	}
	p, err := row.toDomain()
	if err != nil {
		return domain.Participant{}, fmt.Errorf("%s: %w", operation, err)
	}
	if p.Photos, err = s.ParticipantPhotos(ctx, id); err != nil {
		return domain.Participant{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := s.redis.Set(ctx, cacheKey, data, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache participant",
				zap.String("participant_id", id.String()),
				zap.Error(err))
		}
	}
	return p, nil
}

// Participants lists the participants of a role with their photos.
func (s *PostgresStorage) Participants(ctx context.Context, role domain.Role) ([]domain.Participant, error) {
	const operation = "storage.Participants"

	var rows []participantRow
	query := `SELECT ` + participantColumns + ` FROM participants WHERE role = $1 ORDER BY price, name`
	if err := s.db.SelectContext(ctx, &rows, query, string(role)); err != nil {
		return nil, fmt.Errorf("%s: failed to get participants: %w", operation, err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	photos, err := s.photosOf(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	participants := make([]domain.Participant, 0, len(rows))
	for _, r := range rows {
		p, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: participant %s: %w", operation, r.ID, err)
		}
		p.Photos = photos[p.ID]
		participants = append(participants, p)
	}
	return participants, nil
}

// PortfolioPhotos returns every participant photo, oldest first.
func (s *PostgresStorage) PortfolioPhotos(ctx context.Context) ([]domain.Photo, error) {
	const operation = "storage.PortfolioPhotos"

	var rows []photoRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT participant_id, platform, file_id FROM participant_photos ORDER BY id`); err != nil {
		return nil, fmt.Errorf("%s: failed to get photos: %w", operation, err)
	}
	photos := make([]domain.Photo, 0, len(rows))
	for _, r := range rows {
		photos = append(photos, domain.Photo{Platform: domain.Platform(r.Platform), FileID: r.FileID})
	}
	return photos, nil
}

func (s *PostgresStorage) photosOf(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.Photo, error) {
	out := make(map[uuid.UUID][]domain.Photo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	var rows []photoRow
	const query = `
        SELECT participant_id, platform, file_id
        FROM participant_photos
        WHERE participant_id = ANY($1::uuid[])
        ORDER BY id
    `
	if err := s.db.SelectContext(ctx, &rows, query, keys); err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	for _, r := range rows {
		out[r.ParticipantID] = append(out[r.ParticipantID], domain.Photo{Platform: domain.Platform(r.Platform), FileID: r.FileID})
	}
	return out, nil
}

func (s *PostgresStorage) dropParticipantCache(ctx context.Context, id uuid.UUID) {
	if err := s.redis.Del(ctx, participantKey(id)); err != nil {
		s.logger.Warn("Failed to drop cached participant",
			zap.String("participant_id", id.String()),
			zap.Error(err))
	}
}

func participantKey(id uuid.UUID) string {
	return fmt.Sprintf("participant:%s", id)
}
