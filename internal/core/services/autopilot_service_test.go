package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/wealthsync/wealthsync-backend/internal/apperrors"
	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/core/services"
	"github.com/wealthsync/wealthsync-backend/internal/platform/config"
)

const testUserID = "user-1"

type AutopilotServiceTestSuite struct {
	suite.Suite
	orders        *MockPaymentOrderRepository
	bills         *MockBillRepository
	subscriptions *MockSubscriptionRepository
	goals         *MockSavingsGoalRepository
	notifications *MockNotificationRepository
	svc           portssvc.AutopilotSvcFacade
	ctx           context.Context
	now           time.Time
	today         time.Time
}

func (s *AutopilotServiceTestSuite) SetupTest() {
	s.orders = new(MockPaymentOrderRepository)
	s.bills = new(MockBillRepository)
	s.subscriptions = new(MockSubscriptionRepository)
	s.goals = new(MockSavingsGoalRepository)
	s.notifications = new(MockNotificationRepository)
	s.ctx = context.Background()
	s.now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	s.today = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	cfg := config.Autopilot{
		Provider:              "internal_ledger",
		AutoExecuteOnApproval: true,
		PrepareDaysAhead:      7,
		DefaultCurrency:       "INR",
	}
	s.svc = services.NewAutopilotService(
		s.orders, s.bills, s.subscriptions, s.goals, s.notifications,
		cfg, testclock.NewClock(s.now),
	)
}

func TestAutopilotServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AutopilotServiceTestSuite))
}

func (s *AutopilotServiceTestSuite) allowNotifications() {
	s.notifications.On("CreateNotification", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func billFixture(dueDay int) domain.Bill {
	return domain.Bill{
		ID:              "bill-1",
		UserID:          testUserID,
		Name:            "Electricity",
		AmountEstimated: decimal.NewFromInt(1200),
		DueDay:          dueDay,
		Frequency:       "monthly",
		AutopayEnabled:  true,
	}
}

func orderFixture(status domain.OrderStatus) *domain.PaymentOrder {
	return &domain.PaymentOrder{
		ID:               "order-1",
		UserID:           testUserID,
		SourceType:       domain.SourceBill,
		SourceID:         "bill-1",
		Title:            "Electricity",
		Amount:           decimal.NewFromInt(1200),
		Currency:         "INR",
		DueOn:            time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Status:           status,
		ApprovalRequired: true,
		Provider:         "internal_ledger",
	}
}

func (s *AutopilotServiceTestSuite) TestPrepareOrdersCreatesBillOrder() {
	s.allowNotifications()
	horizon := s.today.AddDate(0, 0, 7)
	s.orders.On("ListActiveOrdersInWindow", s.ctx, testUserID, s.today, horizon).Return([]domain.PaymentOrder{}, nil)
	s.bills.On("ListAutopayBills", s.ctx, testUserID).Return([]domain.Bill{billFixture(15)}, nil)
	s.subscriptions.On("ListActiveSubscriptions", s.ctx, testUserID).Return([]domain.Subscription{}, nil)

	var created domain.PaymentOrder
	s.orders.On("CreateOrder", s.ctx, mock.AnythingOfType("domain.PaymentOrder")).
		Run(func(args mock.Arguments) { created = args.Get(1).(domain.PaymentOrder) }).
		Return(nil).Once()

	result, err := s.svc.PrepareOrders(s.ctx, testUserID, 7)

	s.Require().NoError(err)
	s.Require().Len(result, 1)
	assert.Equal(s.T(), domain.SourceBill, created.SourceType)
	assert.Equal(s.T(), "bill-1", created.SourceID)
	assert.Equal(s.T(), domain.OrderApprovalRequired, created.Status)
	assert.True(s.T(), created.ApprovalRequired)
	assert.Equal(s.T(), "INR", created.Currency)
	assert.Equal(s.T(), "internal_ledger", created.Provider)
	assert.True(s.T(), created.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(s.T(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), created.DueOn)
	assert.Equal(s.T(), true, created.Meta["autopay_enabled"])
	assert.Equal(s.T(), "monthly", created.Meta["frequency"])
	s.orders.AssertExpectations(s.T())
}

func (s *AutopilotServiceTestSuite) TestPrepareOrdersIsIdempotent() {
	existing := *orderFixture(domain.OrderApprovalRequired)
	existing.DueOn = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	s.orders.On("ListActiveOrdersInWindow", s.ctx, testUserID, mock.Anything, mock.Anything).
		Return([]domain.PaymentOrder{existing}, nil)
	s.bills.On("ListAutopayBills", s.ctx, testUserID).Return([]domain.Bill{billFixture(15)}, nil)
	s.subscriptions.On("ListActiveSubscriptions", s.ctx, testUserID).Return([]domain.Subscription{}, nil)

	result, err := s.svc.PrepareOrders(s.ctx, testUserID, 7)

	s.Require().NoError(err)
	assert.Empty(s.T(), result)
	s.orders.AssertNotCalled(s.T(), "CreateOrder", mock.Anything, mock.Anything)
}

func (s *AutopilotServiceTestSuite) TestPrepareOrdersSkipsOutOfWindowBill() {
	s.orders.On("ListActiveOrdersInWindow", s.ctx, testUserID, mock.Anything, mock.Anything).
		Return([]domain.PaymentOrder{}, nil)
	s.bills.On("ListAutopayBills", s.ctx, testUserID).Return([]domain.Bill{billFixture(25)}, nil)
	s.subscriptions.On("ListActiveSubscriptions", s.ctx, testUserID).Return([]domain.Subscription{}, nil)

	result, err := s.svc.PrepareOrders(s.ctx, testUserID, 7)

	s.Require().NoError(err)
	assert.Empty(s.T(), result)
	s.orders.AssertNotCalled(s.T(), "CreateOrder", mock.Anything, mock.Anything)
}

func (s *AutopilotServiceTestSuite) TestPrepareOrdersSwallowsDuplicateRace() {
	s.orders.On("ListActiveOrdersInWindow", s.ctx, testUserID, mock.Anything, mock.Anything).
		Return([]domain.PaymentOrder{}, nil)
	s.bills.On("ListAutopayBills", s.ctx, testUserID).Return([]domain.Bill{billFixture(15)}, nil)
	s.subscriptions.On("ListActiveSubscriptions", s.ctx, testUserID).Return([]domain.Subscription{}, nil)
	s.orders.On("CreateOrder", s.ctx, mock.Anything).
		Return(fmt.Errorf("%w: already exists", apperrors.ErrDuplicate)).Once()

	result, err := s.svc.PrepareOrders(s.ctx, testUserID, 7)

	s.Require().NoError(err)
	assert.Empty(s.T(), result)
}

func (s *AutopilotServiceTestSuite) TestPrepareOrdersInitializesNextBillingDate() {
	s.orders.On("ListActiveOrdersInWindow", s.ctx, testUserID, mock.Anything, mock.Anything).
		Return([]domain.PaymentOrder{}, nil)
	s.bills.On("ListAutopayBills", s.ctx, testUserID).Return([]domain.Bill{}, nil)
	sub := domain.Subscription{
		ID: "sub-1", UserID: testUserID, Name: "Streaming",
		Amount: decimal.NewFromInt(499), BillingCycle: "monthly", Active: true,
	}
	s.subscriptions.On("ListActiveSubscriptions", s.ctx, testUserID).Return([]domain.Subscription{sub}, nil)

	// First cycle starts now; the resolved date lands outside a 7 day window
	// but must still be persisted.
	expected := s.now.AddDate(0, 0, 30)
	s.subscriptions.On("UpdateNextBillingDate", s.ctx, "sub-1", expected).Return(nil).Once()

	result, err := s.svc.PrepareOrders(s.ctx, testUserID, 7)

	s.Require().NoError(err)
	assert.Empty(s.T(), result)
	s.subscriptions.AssertExpectations(s.T())
}

func (s *AutopilotServiceTestSuite) TestPrepareOrdersCreatesSubscriptionOrder() {
	s.allowNotifications()
	s.orders.On("ListActiveOrdersInWindow", s.ctx, testUserID, mock.Anything, mock.Anything).
		Return([]domain.PaymentOrder{}, nil)
	s.bills.On("ListAutopayBills", s.ctx, testUserID).Return([]domain.Bill{}, nil)
	nextBilling := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	sub := domain.Subscription{
		ID: "sub-1", UserID: testUserID, Name: "Streaming",
		Amount: decimal.NewFromInt(499), BillingCycle: "monthly",
		NextBillingDate: &nextBilling, Active: true,
	}
	s.subscriptions.On("ListActiveSubscriptions", s.ctx, testUserID).Return([]domain.Subscription{sub}, nil)

	var created domain.PaymentOrder
	s.orders.On("CreateOrder", s.ctx, mock.AnythingOfType("domain.PaymentOrder")).
		Run(func(args mock.Arguments) { created = args.Get(1).(domain.PaymentOrder) }).
		Return(nil).Once()

	result, err := s.svc.PrepareOrders(s.ctx, testUserID, 7)

	s.Require().NoError(err)
	s.Require().Len(result, 1)
	assert.Equal(s.T(), domain.SourceSubscription, created.SourceType)
	assert.Equal(s.T(), nextBilling, created.DueOn)
	assert.Equal(s.T(), "monthly", created.Meta["billing_cycle"])
}

func (s *AutopilotServiceTestSuite) TestApproveOrderAutoExecutes() {
	s.allowNotifications()
	order := orderFixture(domain.OrderApprovalRequired)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil)
	s.bills.On("FindBillByID", s.ctx, testUserID, "bill-1").Return(&domain.Bill{
		ID: "bill-1", UserID: testUserID, Name: "Electricity",
		AmountEstimated: decimal.NewFromInt(1200), DueDay: 10, AutopayEnabled: true,
	}, nil)

	var settled domain.PaymentOrder
	var effect domain.LedgerEffect
	var txn domain.Transaction
	s.orders.On("SettleOrder", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			settled = args.Get(1).(domain.PaymentOrder)
			txn = args.Get(2).(domain.Transaction)
			effect = args.Get(3).(domain.LedgerEffect)
		}).
		Return(nil).Once()

	result, err := s.svc.ApproveOrder(s.ctx, testUserID, "order-1", true)

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderSucceeded, result.Status)
	s.Require().NotNil(result.ProviderReference)
	assert.Equal(s.T(), "internal:order-1", *result.ProviderReference)
	s.Require().NotNil(result.TransactionID)
	assert.Equal(s.T(), txn.ID, *result.TransactionID)
	assert.Equal(s.T(), domain.OrderSucceeded, settled.Status)
	assert.Equal(s.T(), "Autopilot Payment: Electricity", txn.Description)
	assert.Equal(s.T(), domain.TransactionExpense, txn.Type)
	assert.Equal(s.T(), domain.TransactionCompleted, txn.Status)
	s.Require().NotNil(effect.Bill)
	s.Require().NotNil(effect.Bill.LastPaidAt)
	assert.Equal(s.T(), s.now, *effect.Bill.LastPaidAt)
}

func (s *AutopilotServiceTestSuite) TestExecuteSuccessNotificationLinksTransaction() {
	order := orderFixture(domain.OrderApproved)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil)
	s.bills.On("FindBillByID", s.ctx, testUserID, "bill-1").Return(&domain.Bill{
		ID: "bill-1", UserID: testUserID, Name: "Electricity",
		AmountEstimated: decimal.NewFromInt(1200), DueDay: 10, AutopayEnabled: true,
	}, nil)
	s.orders.On("SettleOrder", s.ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var notification domain.Notification
	s.notifications.On("CreateNotification", s.ctx, mock.AnythingOfType("domain.Notification")).
		Run(func(args mock.Arguments) { notification = args.Get(1).(domain.Notification) }).
		Return(nil).Once()

	result, err := s.svc.ExecuteOrder(s.ctx, testUserID, "order-1")

	s.Require().NoError(err)
	s.Require().NotNil(result.TransactionID)
	s.Require().NotNil(notification.RelatedID)
	assert.Equal(s.T(), *result.TransactionID, *notification.RelatedID)
	assert.Equal(s.T(), "Payment completed: Electricity", notification.Title)
	assert.Equal(s.T(), "INR 1200.00 was paid successfully.", notification.Message)
	s.Require().NotNil(notification.ActionURL)
	assert.Equal(s.T(), "/dashboard/transactions", *notification.ActionURL)
}

func (s *AutopilotServiceTestSuite) TestApproveOrderWithoutExecuteNow() {
	s.allowNotifications()
	order := orderFixture(domain.OrderApprovalRequired)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil).Once()

	result, err := s.svc.ApproveOrder(s.ctx, testUserID, "order-1", false)

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderApproved, result.Status)
	s.Require().NotNil(result.ApprovedAt)
	assert.Equal(s.T(), s.now, *result.ApprovedAt)
	s.orders.AssertNotCalled(s.T(), "SettleOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AutopilotServiceTestSuite) TestApproveSucceededOrderReturnsUnchanged() {
	order := orderFixture(domain.OrderSucceeded)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)

	result, err := s.svc.ApproveOrder(s.ctx, testUserID, "order-1", true)

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderSucceeded, result.Status)
	s.orders.AssertNotCalled(s.T(), "UpdateOrder", mock.Anything, mock.Anything)
}

func (s *AutopilotServiceTestSuite) TestApproveUnknownOrderReturnsNotFound() {
	s.orders.On("FindOrderByID", s.ctx, testUserID, "missing").Return(nil, apperrors.ErrNotFound)

	result, err := s.svc.ApproveOrder(s.ctx, testUserID, "missing", false)

	assert.Nil(s.T(), result)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *AutopilotServiceTestSuite) TestExecuteRequiresApproval() {
	order := orderFixture(domain.OrderApprovalRequired)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil).Once()

	result, err := s.svc.ExecuteOrder(s.ctx, testUserID, "order-1")

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderFailed, result.Status)
	s.Require().NotNil(result.FailureReason)
	assert.Equal(s.T(), "Payment must be approved before execution.", *result.FailureReason)
	s.orders.AssertNotCalled(s.T(), "SettleOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AutopilotServiceTestSuite) TestExecuteExternalProviderFailsClosed() {
	order := orderFixture(domain.OrderApproved)
	order.Provider = "stripe"
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil)

	result, err := s.svc.ExecuteOrder(s.ctx, testUserID, "order-1")

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderFailed, result.Status)
	s.Require().NotNil(result.FailureReason)
	assert.Contains(s.T(), *result.FailureReason, "External provider execution is not configured")
	s.orders.AssertNotCalled(s.T(), "SettleOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AutopilotServiceTestSuite) TestExecuteMissingBillFailsOrder() {
	order := orderFixture(domain.OrderApproved)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil)
	s.bills.On("FindBillByID", s.ctx, testUserID, "bill-1").Return(nil, apperrors.ErrNotFound)

	result, err := s.svc.ExecuteOrder(s.ctx, testUserID, "order-1")

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderFailed, result.Status)
	s.Require().NotNil(result.FailureReason)
	assert.Equal(s.T(), "Linked bill not found.", *result.FailureReason)
}

func (s *AutopilotServiceTestSuite) TestExecuteSucceededOrderIsNoOp() {
	order := orderFixture(domain.OrderSucceeded)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)

	result, err := s.svc.ExecuteOrder(s.ctx, testUserID, "order-1")

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderSucceeded, result.Status)
	s.orders.AssertNotCalled(s.T(), "UpdateOrder", mock.Anything, mock.Anything)
}

func (s *AutopilotServiceTestSuite) TestExecuteGoalContribution() {
	s.allowNotifications()
	order := orderFixture(domain.OrderApproved)
	order.SourceType = domain.SourceGoal
	order.SourceID = "goal-1"
	order.Title = "Emergency Fund"
	order.Amount = decimal.NewFromInt(500)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil)
	s.goals.On("FindGoalByID", s.ctx, testUserID, "goal-1").Return(&domain.SavingsGoal{
		ID: "goal-1", UserID: testUserID, Name: "Emergency Fund",
		TargetAmount:  decimal.NewFromInt(10000),
		CurrentAmount: decimal.NewFromInt(9800),
	}, nil)

	var txn domain.Transaction
	var effect domain.LedgerEffect
	s.orders.On("SettleOrder", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			txn = args.Get(2).(domain.Transaction)
			effect = args.Get(3).(domain.LedgerEffect)
		}).
		Return(nil).Once()

	result, err := s.svc.ExecuteOrder(s.ctx, testUserID, "order-1")

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderSucceeded, result.Status)
	assert.Equal(s.T(), "Autopilot Goal Contribution: Emergency Fund", txn.Description)
	s.Require().NotNil(effect.Goal)
	assert.True(s.T(), effect.Goal.CurrentAmount.Equal(decimal.NewFromInt(10300)))
	assert.True(s.T(), effect.Goal.IsCompleted)
	s.Require().NotNil(effect.SavingsLog)
	assert.Equal(s.T(), "Autopilot contribution", effect.SavingsLog.Note)
	assert.True(s.T(), effect.SavingsLog.Amount.Equal(decimal.NewFromInt(500)))
}

func (s *AutopilotServiceTestSuite) TestExecuteSubscriptionAdvancesSingleCycle() {
	s.allowNotifications()
	order := orderFixture(domain.OrderApproved)
	order.SourceType = domain.SourceSubscription
	order.SourceID = "sub-1"
	order.Title = "Streaming"
	order.Amount = decimal.NewFromInt(499)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil)

	// Stored date lies in the past; the advance is one cycle from now, not a
	// catch-up loop.
	stale := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	s.subscriptions.On("FindSubscriptionByID", s.ctx, testUserID, "sub-1").Return(&domain.Subscription{
		ID: "sub-1", UserID: testUserID, Name: "Streaming",
		Amount: decimal.NewFromInt(499), BillingCycle: "monthly",
		NextBillingDate: &stale, Active: true,
	}, nil)

	var effect domain.LedgerEffect
	s.orders.On("SettleOrder", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { effect = args.Get(3).(domain.LedgerEffect) }).
		Return(nil).Once()

	result, err := s.svc.ExecuteOrder(s.ctx, testUserID, "order-1")

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderSucceeded, result.Status)
	s.Require().NotNil(effect.Subscription)
	s.Require().NotNil(effect.Subscription.NextBillingDate)
	assert.Equal(s.T(), s.now.AddDate(0, 0, 30), *effect.Subscription.NextBillingDate)
}

func (s *AutopilotServiceTestSuite) TestCancelSucceededOrderReturnsUnchanged() {
	order := orderFixture(domain.OrderSucceeded)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)

	result, err := s.svc.CancelOrder(s.ctx, testUserID, "order-1", nil)

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderSucceeded, result.Status)
	s.orders.AssertNotCalled(s.T(), "UpdateOrder", mock.Anything, mock.Anything)
}

func (s *AutopilotServiceTestSuite) TestCancelRecordsReason() {
	order := orderFixture(domain.OrderApproved)
	s.orders.On("FindOrderByID", s.ctx, testUserID, "order-1").Return(order, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil).Once()

	reason := "no longer needed"
	result, err := s.svc.CancelOrder(s.ctx, testUserID, "order-1", &reason)

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.OrderCancelled, result.Status)
	s.Require().NotNil(result.CancelledAt)
	assert.Equal(s.T(), s.now, *result.CancelledAt)
	s.Require().NotNil(result.FailureReason)
	assert.Equal(s.T(), "no longer needed", *result.FailureReason)
}

func (s *AutopilotServiceTestSuite) TestExecuteDueApprovedOrdersCountsOutcomes() {
	s.allowNotifications()
	good := *orderFixture(domain.OrderApproved)
	bad := *orderFixture(domain.OrderApproved)
	bad.ID = "order-2"
	bad.SourceID = "bill-missing"
	s.orders.On("ListDueApprovedOrders", s.ctx, s.today).Return([]domain.PaymentOrder{good, bad}, nil)
	s.orders.On("UpdateOrder", s.ctx, mock.Anything).Return(nil)
	s.bills.On("FindBillByID", s.ctx, testUserID, "bill-1").Return(&domain.Bill{
		ID: "bill-1", UserID: testUserID, Name: "Electricity",
		AmountEstimated: decimal.NewFromInt(1200), DueDay: 10,
	}, nil)
	s.bills.On("FindBillByID", s.ctx, testUserID, "bill-missing").Return(nil, apperrors.ErrNotFound)
	s.orders.On("SettleOrder", s.ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.svc.ExecuteDueApprovedOrders(s.ctx)

	s.Require().NoError(err)
	assert.Equal(s.T(), 1, result.Executed)
	assert.Equal(s.T(), 1, result.Failed)
}

func (s *AutopilotServiceTestSuite) TestRunDailyAutopilot() {
	s.bills.On("ListAutopayUserIDs", s.ctx).Return([]string{testUserID}, nil)
	s.subscriptions.On("ListActiveUserIDs", s.ctx).Return([]string{testUserID}, nil)
	s.orders.On("ListActiveOrdersInWindow", s.ctx, testUserID, mock.Anything, mock.Anything).
		Return([]domain.PaymentOrder{}, nil)
	s.bills.On("ListAutopayBills", s.ctx, testUserID).Return([]domain.Bill{}, nil)
	s.subscriptions.On("ListActiveSubscriptions", s.ctx, testUserID).Return([]domain.Subscription{}, nil)
	s.orders.On("ListDueApprovedOrders", s.ctx, s.today).Return([]domain.PaymentOrder{}, nil)

	result, err := s.svc.RunDailyAutopilot(s.ctx)

	s.Require().NoError(err)
	assert.Equal(s.T(), 1, result.UsersProcessed)
	assert.Equal(s.T(), 0, result.OrdersCreated)
	assert.Equal(s.T(), 0, result.Executed)
	assert.Equal(s.T(), 0, result.Failed)
}
