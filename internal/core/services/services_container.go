package services

import (
	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vizinhomais/internal/core/ports/services"
	"github.com/SscSPs/vizinhomais/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, analytics Analytics) *portssvc.ServiceContainer {
	retry := RetryConfig{
		MaxAttempts:     cfg.StorageRetryMaxAttempts,
		InitialInterval: cfg.StorageRetryInitialInterval,
		MaxInterval:     DefaultRetryConfig().MaxInterval,
	}

	container := &portssvc.ServiceContainer{}
	container.Ledger = NewLedgerService(repos.MovementRepo, WithLedgerRetry(retry))
	container.Gate = NewAuthorizationGate(repos.DirectoryRepo, repos.DirectoryRepo)
	container.Balance = NewBalanceService(repos.MovementRepo, repos.DirectoryRepo, nil)
	container.Directory = NewDirectoryService(repos.DirectoryRepo, nil)
	container.Redemption = NewRedemptionCoordinator(
		container.Ledger,
		repos.MovementRepo,
		repos.DirectoryRepo,
		container.Gate,
		WithRedemptionRetry(retry),
		WithAnalytics(analytics),
	)

	return container
}
