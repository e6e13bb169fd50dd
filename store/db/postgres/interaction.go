package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/hrygo/wanderchat/store"
)

func (d *DB) CreateInteraction(ctx context.Context, create *store.Interaction) (*store.Interaction, error) {
	fields := []string{"uid", "session_id", "user_query", "llm_response", "model", "created_ts"}
	args := []any{create.UID, create.SessionID, create.UserQuery, create.LLMResponse, create.Model, create.CreatedTs}

	stmt := `INSERT INTO interactions (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create interaction: %w", err)
	}

	return create, nil
}

func (d *DB) ListInteractions(ctx context.Context, find *store.FindInteraction) ([]*store.Interaction, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.SessionID != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *find.SessionID)
	}

	query := `
		SELECT id, uid, session_id, user_query, llm_response, model, created_ts
		FROM interactions
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC`
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Interaction, 0)
	for rows.Next() {
		i := &store.Interaction{}
		if err := rows.Scan(&i.ID, &i.UID, &i.SessionID, &i.UserQuery, &i.LLMResponse, &i.Model, &i.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		list = append(list, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}

	// Newest first in SQL so LIMIT keeps the tail of the thread.
	slices.Reverse(list)
	return list, nil
}

func (d *DB) DeleteInteractions(ctx context.Context, delete *store.DeleteInteraction) (int64, error) {
	result, err := d.db.ExecContext(ctx, `DELETE FROM interactions WHERE session_id = `+placeholder(1), delete.SessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete interactions: %w", err)
	}

	return rowsAffected(result)
}

func rowsAffected(result sql.Result) (int64, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted interactions: %w", err)
	}
	return rows, nil
}
