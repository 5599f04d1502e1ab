package adapter

import (
	"context"

	"go-convo/internal/infrastructure/database"
	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"

	"github.com/jackc/pgx/v5"
)

type PgParticipantRepository struct {
	tx *database.TxManager
}

const participantColumns = `conversation_id::text AS conversation_id, user_id::text AS user_id, is_admin,
	last_read_time, last_group_read_time, joined_at`

// Add inserts the batch in one round trip. Outside a transaction the batch runs in its own,
// so a duplicate leaves nothing behind.
func (r *PgParticipantRepository) Add(ctx context.Context, ps []chat.Participant) error {
	if len(ps) == 0 {
		return nil
	}
	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, p := range ps {
			batch.Queue(`
				INSERT INTO chat.participant (conversation_id, user_id, is_admin, last_read_time, last_group_read_time, joined_at)
				VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6)
			`, p.ConversationID, p.UserID, p.IsAdmin, p.LastReadTime, p.LastGroupReadTime, p.JoinedAt)
		}
		if err := r.tx.Conn(ctx).SendBatch(ctx, batch).Close(); err != nil {
			if database.IsUniqueViolation(err) {
				return repository.ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (r *PgParticipantRepository) Remove(ctx context.Context, conversationID, userID string) (int64, error) {
	ct, err := r.tx.Conn(ctx).Exec(ctx, `
		DELETE FROM chat.participant WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, conversationID, userID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgParticipantRepository) Find(ctx context.Context, conversationID, userID string) (chat.Participant, error) {
	rows, err := r.tx.Conn(ctx).Query(ctx, `SELECT `+participantColumns+` FROM chat.participant
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid`, conversationID, userID)
	if err != nil {
		return chat.Participant{}, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[chat.Participant])
	return p, notFound(err)
}

func (r *PgParticipantRepository) ListByConversation(ctx context.Context, conversationID string) ([]chat.Participant, error) {
	return r.list(ctx, `SELECT `+participantColumns+` FROM chat.participant
		WHERE conversation_id = $1::uuid ORDER BY joined_at, user_id`, conversationID)
}

func (r *PgParticipantRepository) ListByUser(ctx context.Context, userID string) ([]chat.Participant, error) {
	return r.list(ctx, `SELECT `+participantColumns+` FROM chat.participant
		WHERE user_id = $1::uuid ORDER BY joined_at DESC, conversation_id`, userID)
}

func (r *PgParticipantRepository) CountByConversation(ctx context.Context, conversationID string) (int, error) {
	var n int
	err := r.tx.Conn(ctx).QueryRow(ctx, `SELECT count(*) FROM chat.participant WHERE conversation_id = $1::uuid`,
		conversationID).Scan(&n)
	return n, err
}

func (r *PgParticipantRepository) SetAdmin(ctx context.Context, conversationID, userID string, isAdmin bool) (bool, error) {
	ct, err := r.tx.Conn(ctx).Exec(ctx, `
		UPDATE chat.participant SET is_admin = $3
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid AND is_admin <> $3
	`, conversationID, userID, isAdmin)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgParticipantRepository) UpdateReadTime(ctx context.Context, conversationID, userID string, at int64) error {
	return r.touch(ctx, `UPDATE chat.participant SET last_read_time = $3
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid`, conversationID, userID, at)
}

func (r *PgParticipantRepository) UpdateGroupReadTime(ctx context.Context, conversationID, userID string, at int64) error {
	return r.touch(ctx, `UPDATE chat.participant SET last_group_read_time = $3
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid`, conversationID, userID, at)
}

func (r *PgParticipantRepository) touch(ctx context.Context, sql string, args ...any) error {
	ct, err := r.tx.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgParticipantRepository) list(ctx context.Context, sql string, args ...any) ([]chat.Participant, error) {
	rows, err := r.tx.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[chat.Participant])
}
