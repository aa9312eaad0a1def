package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"photoshoot-bot/internal/domain"
)

type userRow struct {
	ID          uuid.UUID          `db:"id"`
	Name        *string            `db:"name"`
	IsAdmin     bool               `db:"is_admin"`
	PlatformIDs types.JSONText     `db:"platform_ids"`
	History     types.JSONText     `db:"history"`
	Entry       *string            `db:"entry"`
	NodePayload types.NullJSONText `db:"node_payload"`
	CreatedAt   time.Time          `db:"created_at"`
}

const userColumns = `id, name, is_admin, platform_ids, history, entry, node_payload, created_at`

func (r userRow) toDomain() (domain.User, error) {
	u := domain.User{ID: r.ID, Name: r.Name, IsAdmin: r.IsAdmin}
	if err := r.PlatformIDs.Unmarshal(&u.PlatformIDs); err != nil {
		return domain.User{}, fmt.Errorf("platform ids: %w", err)
	}
	if err := r.History.Unmarshal(&u.History); err != nil {
		return domain.User{}, fmt.Errorf("history: %w", err)
	}
	if r.Entry != nil {
		entry := domain.EntryPoint(*r.Entry)
		u.Entry = &entry
	}
	if r.NodePayload.Valid {
		u.NodePayload = json.RawMessage(r.NodePayload.JSONText)
	}
	return u, nil
}

func jsonText(v any) (types.JSONText, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return types.JSONText(data), nil
}

func nullJSONText(raw json.RawMessage) types.NullJSONText {
	if len(raw) == 0 {
		return types.NullJSONText{}
	}
	return types.NullJSONText{JSONText: types.JSONText(raw), Valid: true}
}

func (s *PostgresStorage) SaveUser(ctx context.Context, draft domain.UserDraft) (domain.User, error) {
	const operation = "storage.SaveUser"

	platformIDs, err := jsonText(nonNil(draft.PlatformIDs))
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", operation, err)
	}
	history, err := jsonText(nonNil(draft.History))
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", operation, err)
	}

	row := userRow{
		ID:          uuid.New(),
		Name:        draft.Name,
		IsAdmin:     draft.IsAdmin,
		PlatformIDs: platformIDs,
		History:     history,
		NodePayload: nullJSONText(draft.NodePayload),
	}
	if draft.Entry != nil {
		entry := string(*draft.Entry)
		row.Entry = &entry
	}

	const query = `
        INSERT INTO users (id, name, is_admin, platform_ids, history, entry, node_payload)
        VALUES (:id, :name, :is_admin, :platform_ids, :history, :entry, :node_payload)
    `
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return domain.User{}, fmt.Errorf("%s: failed to save user: %w", operation, err)
	}
	return row.toDomain()
}

func (s *PostgresStorage) User(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const operation = "storage.User"

	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		return domain.User{}, notFound(err, operation, "user "+id.String())
	}
	return row.toDomain()
}

// UserByPlatformID finds the user owning the chat account.
func (s *PostgresStorage) UserByPlatformID(ctx context.Context, platform domain.Platform, id int64) (domain.User, error) {
	const operation = "storage.UserByPlatformID"

	probe, err := jsonText([]map[string]any{{"platform": platform, "id": id}})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", operation, err)
	}

	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE platform_ids @> $1::jsonb LIMIT 1`
	if err := s.db.GetContext(ctx, &row, query, probe); err != nil {
		return domain.User{}, notFound(err, operation, fmt.Sprintf("%s account %d", platform, id))
	}
	return row.toDomain()
}

// UpdateSession stores the conversation state of the user.
func (s *PostgresStorage) UpdateSession(ctx context.Context, userID uuid.UUID, entry domain.EntryPoint, nodePayload json.RawMessage, history []domain.HistoryEntry) error {
	const operation = "storage.UpdateSession"

	h, err := jsonText(nonNil(history))
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	const query = `UPDATE users SET entry = $2, node_payload = $3, history = $4 WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, userID, string(entry), nullJSONText(nodePayload), h)
	if err != nil {
		return fmt.Errorf("%s: failed to update session: %w", operation, err)
	}
	return expectRow(res, operation, "user "+userID.String())
}

func (s *PostgresStorage) SetAdmin(ctx context.Context, userID uuid.UUID, admin bool) error {
	const operation = "storage.SetAdmin"

	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_admin = $2 WHERE id = $1`, userID, admin)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return expectRow(res, operation, "user "+userID.String())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
