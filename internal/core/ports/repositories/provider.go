package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service layer.
type RepositoryProvider struct {
	PaymentOrderRepo PaymentOrderRepositoryFacade
	BillRepo         BillRepository
	SubscriptionRepo SubscriptionRepository
	SavingsGoalRepo  SavingsGoalRepository
	IncomeSourceRepo IncomeSourceRepository
	TransactionRepo  TransactionRepository
	BudgetRepo       BudgetRepository
	NotificationRepo NotificationRepository
}
