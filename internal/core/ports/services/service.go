package services

// ServiceContainer holds all service interfaces needed by the handlers.
type ServiceContainer struct {
	Document DocumentSvcFacade
	Balance  BalanceSvcFacade
	Account  AccountSvcFacade
}
