package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"photoshoot-bot/internal/domain"
)

type nodeRow struct {
	ID         uuid.UUID          `db:"id"`
	Systemic   bool               `db:"systemic"`
	Name       string             `db:"name"`
	Messages   pq.StringArray     `db:"messages"`
	EntryPoint *string            `db:"entry_point"`
	Action     types.NullJSONText `db:"action"`
}

const nodeColumns = `id, systemic, name, messages, entry_point, action`

func (r nodeRow) toDomain() (domain.Node, error) {
	n := domain.Node{
		ID:       r.ID,
		Systemic: r.Systemic,
		Name:     r.Name,
		Messages: []string(r.Messages),
	}
	if r.EntryPoint != nil {
		entry := domain.EntryPoint(*r.EntryPoint)
		n.EntryPoint = &entry
	}
	if r.Action.Valid {
		var action domain.NodeAction
		if err := r.Action.Unmarshal(&action); err != nil {
			return domain.Node{}, fmt.Errorf("action: %w", err)
		}
		n.Action = &action
	}
	return n, nil
}

func (s *PostgresStorage) SaveNode(ctx context.Context, draft domain.NodeDraft) (domain.Node, error) {
	const operation = "storage.SaveNode"

	row := nodeRow{
		ID:       uuid.New(),
		Systemic: draft.Systemic,
		Name:     draft.Name,
		Messages: pq.StringArray(draft.Messages),
	}
	if draft.EntryPoint != nil {
		entry := string(*draft.EntryPoint)
		row.EntryPoint = &entry
	}
	if draft.Action != nil {
		action, err := jsonText(draft.Action)
		if err != nil {
			return domain.Node{}, fmt.Errorf("%s: %w", operation, err)
		}
		row.Action = types.NullJSONText{JSONText: action, Valid: true}
	}

	const query = `
        INSERT INTO nodes (id, systemic, name, messages, entry_point, action)
        VALUES (:id, :systemic, :name, :messages, :entry_point, :action)
    `
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return domain.Node{}, fmt.Errorf("%s: failed to save node: %w", operation, err)
	}
	return row.toDomain()
}

func (s *PostgresStorage) Nodes(ctx context.Context) ([]domain.Node, error) {
	const operation = "storage.Nodes"

	var rows []nodeRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+nodeColumns+` FROM nodes ORDER BY name`); err != nil {
		return nil, fmt.Errorf("%s: failed to get nodes: %w", operation, err)
	}

	nodes := make([]domain.Node, 0, len(rows))
	for _, r := range rows {
		n, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: node %s: %w", operation, r.ID, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// NodeByEntry returns the node rendered for an entry point.
func (s *PostgresStorage) NodeByEntry(ctx context.Context, entry domain.EntryPoint) (domain.Node, error) {
	const operation = "storage.NodeByEntry"

	var row nodeRow
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE entry_point = $1`
	if err := s.db.GetContext(ctx, &row, query, string(entry)); err != nil {
		return domain.Node{}, notFound(err, operation, "node "+string(entry))
	}
	return row.toDomain()
}
