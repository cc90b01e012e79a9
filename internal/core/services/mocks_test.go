package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
)

// --- Mock PaymentOrderRepository ---

type MockPaymentOrderRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentOrderRepositoryFacade = (*MockPaymentOrderRepository)(nil)

func (m *MockPaymentOrderRepository) FindOrderByID(ctx context.Context, userID string, orderID string) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) ListOrdersByUser(ctx context.Context, userID string, status *domain.OrderStatus, limit int) ([]domain.PaymentOrder, error) {
	args := m.Called(ctx, userID, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) ListActiveOrdersInWindow(ctx context.Context, userID string, from, to time.Time) ([]domain.PaymentOrder, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) ListOrdersInWindow(ctx context.Context, userID string, from, to time.Time) ([]domain.PaymentOrder, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) ListDueApprovedOrders(ctx context.Context, dueOnOrBefore time.Time) ([]domain.PaymentOrder, error) {
	args := m.Called(ctx, dueOnOrBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) CreateOrder(ctx context.Context, order domain.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPaymentOrderRepository) UpdateOrder(ctx context.Context, order domain.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPaymentOrderRepository) SettleOrder(ctx context.Context, order domain.PaymentOrder, txn domain.Transaction, effect domain.LedgerEffect) error {
	args := m.Called(ctx, order, txn, effect)
	return args.Error(0)
}

// --- Mock BillRepository ---

type MockBillRepository struct {
	mock.Mock
}

var _ portsrepo.BillRepository = (*MockBillRepository)(nil)

func (m *MockBillRepository) ListBillsByUser(ctx context.Context, userID string) ([]domain.Bill, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillRepository) ListAutopayBills(ctx context.Context, userID string) ([]domain.Bill, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillRepository) FindBillByID(ctx context.Context, userID string, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, userID, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) ListAutopayUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock SubscriptionRepository ---

type MockSubscriptionRepository struct {
	mock.Mock
}

var _ portsrepo.SubscriptionRepository = (*MockSubscriptionRepository)(nil)

func (m *MockSubscriptionRepository) ListActiveSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) UpdateNextBillingDate(ctx context.Context, subscriptionID string, next time.Time) error {
	args := m.Called(ctx, subscriptionID, next)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock SavingsGoalRepository ---

type MockSavingsGoalRepository struct {
	mock.Mock
}

var _ portsrepo.SavingsGoalRepository = (*MockSavingsGoalRepository)(nil)

func (m *MockSavingsGoalRepository) ListUnfinishedGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavingsGoal), args.Error(1)
}

func (m *MockSavingsGoalRepository) FindGoalByID(ctx context.Context, userID string, goalID string) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

// --- Mock IncomeSourceRepository ---

type MockIncomeSourceRepository struct {
	mock.Mock
}

var _ portsrepo.IncomeSourceRepository = (*MockIncomeSourceRepository)(nil)

func (m *MockIncomeSourceRepository) ListIncomeSourcesByUser(ctx context.Context, userID string) ([]domain.IncomeSource, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IncomeSource), args.Error(1)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) ListTransactionsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByTypeSince(ctx context.Context, userID string, txnType domain.TransactionType, since time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, txnType, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListAllTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepository = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) ListBudgetCategories(ctx context.Context, userID string) ([]domain.BudgetCategory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetCategory), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetRules(ctx context.Context, userID string) ([]domain.BudgetRule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetRule), args.Error(1)
}

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	mock.Mock
}

var _ portsrepo.NotificationRepository = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) CreateNotification(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}
