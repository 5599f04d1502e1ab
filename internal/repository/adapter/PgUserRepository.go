package adapter

import (
	"context"

	"go-convo/internal/infrastructure/database"
	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository reads contact cards from chat.app_user.
type PgUserRepository struct {
	tx *database.TxManager
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{tx: database.NewTxManager(pool)}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

type userRow struct {
	ID             string `db:"id"`
	FirstName      string `db:"first_name"`
	LastName       string `db:"last_name"`
	ProfilePicture string `db:"profile_picture"`
	LastActive     int64  `db:"last_active"`
}

func (r *PgUserRepository) FindContacts(ctx context.Context, ids []string) (map[string]chat.Contact, error) {
	out := make(map[string]chat.Contact, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.tx.Conn(ctx).Query(ctx, `
		SELECT id::text AS id, first_name, last_name, profile_picture, last_active
		FROM chat.app_user WHERE id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return nil, err
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = chat.NewContact(u.ID, "", u.FirstName, u.LastName, u.ProfilePicture, u.LastActive)
	}
	return out, nil
}

// Upsert writes a directory row. The directory is owned by the account service;
// this is used to mirror its users and to seed tests.
func (r *PgUserRepository) Upsert(ctx context.Context, c chat.Contact) error {
	_, err := r.tx.Conn(ctx).Exec(ctx, `
		INSERT INTO chat.app_user (id, first_name, last_name, profile_picture, last_active)
		VALUES ($1::uuid, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
		    profile_picture = EXCLUDED.profile_picture, last_active = EXCLUDED.last_active
	`, c.UserID, c.FirstName, c.LastName, c.ProfilePicture, c.LastActive)
	return err
}
