package adapter

import (
	"context"

	"go-convo/internal/infrastructure/database"
	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5"
)

type PgGroupRepository struct {
	tx *database.TxManager
}

const groupColumns = `id::text AS id, remote_id, conversation_id::text AS conversation_id,
	description, background_picture, created_at`

func (r *PgGroupRepository) Insert(ctx context.Context, g chat.Group) error {
	_, err := r.tx.Conn(ctx).Exec(ctx, `
		INSERT INTO chat.chat_group (id, remote_id, conversation_id, description, background_picture, created_at)
		VALUES ($1::uuid, $2, $3::uuid, $4, $5, $6)
	`, g.ID, g.RemoteID, g.ConversationID, g.Description, g.BackgroundPicture, g.CreatedAt)
	return err
}

func (r *PgGroupRepository) FindByID(ctx context.Context, id string) (chat.Group, error) {
	return r.one(ctx, `SELECT `+groupColumns+` FROM chat.chat_group WHERE id = $1::uuid`, id)
}

func (r *PgGroupRepository) FindByConversation(ctx context.Context, conversationID string) (chat.Group, error) {
	return r.one(ctx, `SELECT `+groupColumns+` FROM chat.chat_group WHERE conversation_id = $1::uuid`, conversationID)
}

func (r *PgGroupRepository) one(ctx context.Context, sql string, args ...any) (chat.Group, error) {
	rows, err := r.tx.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return chat.Group{}, err
	}
	g, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[chat.Group])
	return g, notFound(err)
}
