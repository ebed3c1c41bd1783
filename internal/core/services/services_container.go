package services

import (
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/platform/config"
)

// NewServiceContainer wires every service with its dependencies.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, notifier portssvc.NotificationSender) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Scope and audit come first since the other services depend on them.
	container.Scope = NewScopeResolverService(repos.UserRepo)
	container.Audit = NewAuditService(repos.AuditRepo)

	container.Deposit = NewDepositService(
		repos.AccountRepo,
		repos.DepositRepo,
		repos.UserRepo,
		repos.TxRunner,
		container.Scope,
		container.Audit,
		notifier,
	)
	container.Account = NewAccountService(
		repos.AccountRepo,
		repos.UserRepo,
		repos.TxRunner,
		container.Scope,
		container.Audit,
	)
	container.User = NewUserService(repos.UserRepo, container.Scope, container.Audit, cfg.OrgChartCacheTTL)
	container.Company = NewCompanyService(repos.CompanyRepo, repos.UserRepo, repos.TxRunner)
	container.Auth = NewAuthService(cfg, repos.UserRepo)

	return container
}
