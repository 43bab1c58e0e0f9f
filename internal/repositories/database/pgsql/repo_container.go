package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the Postgres-backed repositories.
// lockTimeout bounds the wait for a customer's redemption lock.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MovementRepo:  newPgxMovementRepository(dbPool, lockTimeout),
		DirectoryRepo: newPgxDirectoryRepository(dbPool),
	}
}
