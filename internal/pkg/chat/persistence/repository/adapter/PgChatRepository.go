package adapter

import (
	"context"
	"errors"

	"go-convo/internal/infrastructure/database"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgChatRepository is the Postgres implementation of the chat stores.
// All sub-repositories share one TxManager so they join the same transaction.
type PgChatRepository struct {
	tx            *database.TxManager
	conversations *PgConversationRepository
	groups        *PgGroupRepository
	participants  *PgParticipantRepository
	stream        *PgStreamRepository
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	tx := database.NewTxManager(pool)
	return &PgChatRepository{
		tx:            tx,
		conversations: &PgConversationRepository{tx: tx},
		groups:        &PgGroupRepository{tx: tx},
		participants:  &PgParticipantRepository{tx: tx},
		stream:        &PgStreamRepository{tx: tx},
	}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

func (r *PgChatRepository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.tx.WithinTx(ctx, fn)
}

func (r *PgChatRepository) Conversations() repository.ConversationRepository { return r.conversations }
func (r *PgChatRepository) Groups() repository.GroupRepository               { return r.groups }
func (r *PgChatRepository) Participants() repository.ParticipantRepository   { return r.participants }
func (r *PgChatRepository) Stream() repository.StreamRepository              { return r.stream }

// notFound maps pgx.ErrNoRows to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}
