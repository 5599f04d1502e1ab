package adapter

import (
	"context"

	"go-convo/internal/infrastructure/database"
	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"

	"github.com/jackc/pgx/v5"
)

type PgConversationRepository struct {
	tx *database.TxManager
}

const conversationColumns = `id::text AS id, remote_id, name, profile_picture, creator_id::text AS creator_id,
	participant_hash, created_at, updated_at`

func (r *PgConversationRepository) Insert(ctx context.Context, c chat.Conversation) (chat.Conversation, bool, error) {
	ct, err := r.tx.Conn(ctx).Exec(ctx, `
		INSERT INTO chat.conversation (id, remote_id, name, profile_picture, creator_id, participant_hash, created_at, updated_at)
		VALUES ($1::uuid, $2, $3, $4, $5::uuid, $6, $7, $8)
		ON CONFLICT (creator_id, participant_hash) DO NOTHING
	`, c.ID, c.RemoteID, c.Name, c.ProfilePicture, c.CreatorID, c.ParticipantHash, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return chat.Conversation{}, false, err
	}
	if ct.RowsAffected() == 1 {
		return c, true, nil
	}
	existing, err := r.FindByCreatorAndHash(ctx, c.CreatorID, c.ParticipantHash)
	return existing, false, err
}

func (r *PgConversationRepository) FindByID(ctx context.Context, id string) (chat.Conversation, error) {
	return r.one(ctx, `SELECT `+conversationColumns+` FROM chat.conversation WHERE id = $1::uuid`, id)
}

func (r *PgConversationRepository) FindByCreatorAndHash(ctx context.Context, creatorID, participantHash string) (chat.Conversation, error) {
	return r.one(ctx, `SELECT `+conversationColumns+` FROM chat.conversation
		WHERE creator_id = $1::uuid AND participant_hash = $2`, creatorID, participantHash)
}

func (r *PgConversationRepository) FindByIDs(ctx context.Context, ids []string) ([]chat.Conversation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.tx.Conn(ctx).Query(ctx, `SELECT `+conversationColumns+` FROM chat.conversation
		WHERE id = ANY($1::uuid[]) ORDER BY created_at`, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[chat.Conversation])
}

func (r *PgConversationRepository) UpdateParticipantHash(ctx context.Context, id, participantHash string) error {
	ct, err := r.tx.Conn(ctx).Exec(ctx, `
		UPDATE chat.conversation SET participant_hash = $2 WHERE id = $1::uuid
	`, id, participantHash)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgConversationRepository) UpdateMetadata(ctx context.Context, id string, name, picture *string, updatedAt int64) (bool, error) {
	ct, err := r.tx.Conn(ctx).Exec(ctx, `
		UPDATE chat.conversation
		SET name = COALESCE($2, name),
		    profile_picture = COALESCE($3, profile_picture),
		    updated_at = $4
		WHERE id = $1::uuid
		  AND (($2::text IS NOT NULL AND name IS DISTINCT FROM $2)
		    OR ($3::text IS NOT NULL AND profile_picture IS DISTINCT FROM $3))
	`, id, name, picture, updatedAt)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgConversationRepository) Delete(ctx context.Context, id string) (int64, error) {
	ct, err := r.tx.Conn(ctx).Exec(ctx, `DELETE FROM chat.conversation WHERE id = $1::uuid`, id)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgConversationRepository) one(ctx context.Context, sql string, args ...any) (chat.Conversation, error) {
	rows, err := r.tx.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return chat.Conversation{}, err
	}
	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[chat.Conversation])
	return c, notFound(err)
}
