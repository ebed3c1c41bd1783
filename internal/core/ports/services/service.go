package services

// ServiceContainer bundles every service facade for route registration.
type ServiceContainer struct {
	Scope   ScopeResolverSvcFacade
	Deposit DepositSvcFacade
	Account AccountSvcFacade
	User    UserSvcFacade
	Company CompanySvcFacade
	Audit   AuditSvcFacade
	Auth    AuthSvcFacade
}
