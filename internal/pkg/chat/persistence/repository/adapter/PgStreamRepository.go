package adapter

import (
	"context"

	"go-convo/internal/infrastructure/database"
	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5"
)

type PgStreamRepository struct {
	tx *database.TxManager
}

const (
	messageColumns = `id::text AS id, remote_id, conversation_id::text AS conversation_id,
		author_id::text AS author_id, content, created_at, updated_at`
	notificationColumns = `id::text AS id, remote_id, conversation_id::text AS conversation_id, content, created_at`
)

func (r *PgStreamRepository) AppendMessages(ctx context.Context, ms []chat.Message) error {
	if len(ms) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range ms {
		batch.Queue(`
			INSERT INTO chat.message (id, remote_id, conversation_id, author_id, content, created_at, updated_at)
			VALUES ($1::uuid, $2, $3::uuid, $4::uuid, $5, $6, $7)
		`, m.ID, m.RemoteID, m.ConversationID, m.AuthorID, m.Content, m.CreatedAt, m.UpdatedAt)
	}
	return r.send(ctx, batch)
}

func (r *PgStreamRepository) AppendNotifications(ctx context.Context, ns []chat.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, n := range ns {
		batch.Queue(`
			INSERT INTO chat.notification (id, remote_id, conversation_id, content, created_at)
			VALUES ($1::uuid, $2, $3::uuid, $4, $5)
		`, n.ID, n.RemoteID, n.ConversationID, n.Content, n.CreatedAt)
	}
	return r.send(ctx, batch)
}

func (r *PgStreamRepository) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	return r.messages(ctx, `SELECT `+messageColumns+` FROM chat.message
		WHERE conversation_id = $1::uuid ORDER BY created_at, id`, conversationID)
}

func (r *PgStreamRepository) ListNotifications(ctx context.Context, conversationID string) ([]chat.Notification, error) {
	return r.notifications(ctx, `SELECT `+notificationColumns+` FROM chat.notification
		WHERE conversation_id = $1::uuid ORDER BY created_at, id`, conversationID)
}

func (r *PgStreamRepository) LatestMessage(ctx context.Context, conversationID string) (chat.Message, error) {
	rows, err := r.tx.Conn(ctx).Query(ctx, `SELECT `+messageColumns+` FROM chat.message
		WHERE conversation_id = $1::uuid ORDER BY created_at DESC, id DESC LIMIT 1`, conversationID)
	if err != nil {
		return chat.Message{}, err
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[chat.Message])
	return m, notFound(err)
}

func (r *PgStreamRepository) FindMessages(ctx context.Context, ids []string) ([]chat.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.messages(ctx, `SELECT `+messageColumns+` FROM chat.message
		WHERE id = ANY($1::uuid[]) ORDER BY created_at, id`, ids)
}

func (r *PgStreamRepository) FindNotifications(ctx context.Context, ids []string) ([]chat.Notification, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.notifications(ctx, `SELECT `+notificationColumns+` FROM chat.notification
		WHERE id = ANY($1::uuid[]) ORDER BY created_at, id`, ids)
}

// send runs the batch inside a transaction so a failing row leaves the log untouched.
func (r *PgStreamRepository) send(ctx context.Context, batch *pgx.Batch) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		return r.tx.Conn(ctx).SendBatch(ctx, batch).Close()
	})
}

func (r *PgStreamRepository) messages(ctx context.Context, sql string, args ...any) ([]chat.Message, error) {
	rows, err := r.tx.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[chat.Message])
}

func (r *PgStreamRepository) notifications(ctx context.Context, sql string, args ...any) ([]chat.Notification, error) {
	rows, err := r.tx.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[chat.Notification])
}
