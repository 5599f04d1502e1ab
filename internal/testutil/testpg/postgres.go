package testpg

import (
	"context"
	"os"
	"testing"
	"time"

	"go-convo/internal/infrastructure/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Start runs a disposable Postgres container with the chat schema applied.
// It skips the test unless CHAT_INTEGRATION=1.
func Start(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if os.Getenv("CHAT_INTEGRATION") != "1" {
		tb.Skip("set CHAT_INTEGRATION=1 to run Postgres integration tests")
	}

	ctx := context.Background()
	container, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("chat"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("start postgres container: %v", err)
	}
	tb.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			tb.Errorf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("build postgres connection string: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	pool, err := database.Connect(connectCtx, dsn)
	if err != nil {
		tb.Fatalf("connect postgres: %v", err)
	}
	tb.Cleanup(pool.Close)

	if err := database.Migrate(connectCtx, pool); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return pool
}
