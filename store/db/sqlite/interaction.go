package sqlite

import (
	"context"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/wanderchat/store"
)

func (d *DB) CreateInteraction(ctx context.Context, create *store.Interaction) (*store.Interaction, error) {
	fields := []string{"`uid`", "`session_id`", "`user_query`", "`llm_response`", "`model`", "`created_ts`"}
	placeholder := []string{"?", "?", "?", "?", "?", "?"}
	args := []any{create.UID, create.SessionID, create.UserQuery, create.LLMResponse, create.Model, create.CreatedTs}

	stmt := "INSERT INTO `interactions` (" + strings.Join(fields, ", ") + ") VALUES (" + strings.Join(placeholder, ", ") + ") RETURNING `id`"
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create interaction")
	}

	return create, nil
}

func (d *DB) ListInteractions(ctx context.Context, find *store.FindInteraction) ([]*store.Interaction, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.SessionID; v != nil {
		where, args = append(where, "`session_id` = ?"), append(args, *v)
	}

	query := "SELECT `id`, `uid`, `session_id`, `user_query`, `llm_response`, `model`, `created_ts` FROM `interactions` WHERE " +
		strings.Join(where, " AND ") + " ORDER BY `created_ts` DESC, `id` DESC"
	if v := find.Limit; v != nil {
		query += " LIMIT ?"
		args = append(args, *v)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list interactions")
	}
	defer rows.Close()

	list := make([]*store.Interaction, 0)
	for rows.Next() {
		i := &store.Interaction{}
		if err := rows.Scan(&i.ID, &i.UID, &i.SessionID, &i.UserQuery, &i.LLMResponse, &i.Model, &i.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan interaction")
		}
		list = append(list, i)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate interactions")
	}

	slices.Reverse(list)
	return list, nil
}

func (d *DB) DeleteInteractions(ctx context.Context, delete *store.DeleteInteraction) (int64, error) {
	result, err := d.db.ExecContext(ctx, "DELETE FROM `interactions` WHERE `session_id` = ?", delete.SessionID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete interactions")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count deleted interactions")
	}
	return rows, nil
}
