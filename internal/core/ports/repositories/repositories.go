package repositories

// RepositoryProvider bundles every repository implementation plus the
// transaction strategy selected at startup.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	DepositRepo DepositRepositoryFacade
	UserRepo    UserRepositoryFacade
	CompanyRepo CompanyRepositoryFacade
	AuditRepo   AuditRepositoryFacade
	TxRunner    TxRunner
}
