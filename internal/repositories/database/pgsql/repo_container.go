package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository to the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PaymentOrderRepo: newPgxPaymentOrderRepository(dbPool),
		BillRepo:         newPgxBillRepository(dbPool),
		SubscriptionRepo: newPgxSubscriptionRepository(dbPool),
		SavingsGoalRepo:  newPgxSavingsGoalRepository(dbPool),
		IncomeSourceRepo: newPgxIncomeSourceRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		BudgetRepo:       newPgxBudgetRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
	}
}
