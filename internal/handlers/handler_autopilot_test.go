package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/dto"
	"github.com/wealthsync/wealthsync-backend/internal/handlers"
	"github.com/wealthsync/wealthsync-backend/internal/middleware"
	"github.com/wealthsync/wealthsync-backend/internal/platform/config"
)

// --- Mock AutopilotService ---
type MockAutopilotService struct {
	mock.Mock
}

func (m *MockAutopilotService) PrepareOrders(ctx context.Context, userID string, daysAhead int) ([]domain.PaymentOrder, error) {
	args := m.Called(ctx, userID, daysAhead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentOrder), args.Error(1)
}

func (m *MockAutopilotService) PrepareOrdersForAllUsers(ctx context.Context, daysAhead int) (*dto.BatchPrepareResponse, error) {
	args := m.Called(ctx, daysAhead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchPrepareResponse), args.Error(1)
}

func (m *MockAutopilotService) ListOrders(ctx context.Context, userID string, status *domain.OrderStatus, limit int) ([]domain.PaymentOrder, error) {
	args := m.Called(ctx, userID, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentOrder), args.Error(1)
}

func (m *MockAutopilotService) ApproveOrder(ctx context.Context, userID string, orderID string, executeNow bool) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, userID, orderID, executeNow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockAutopilotService) ExecuteOrder(ctx context.Context, userID string, orderID string) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockAutopilotService) CancelOrder(ctx context.Context, userID string, orderID string, reason *string) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, userID, orderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockAutopilotService) ExecuteDueApprovedOrders(ctx context.Context) (*dto.BatchExecutionResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchExecutionResponse), args.Error(1)
}

func (m *MockAutopilotService) ExecuteDueApprovedOrdersForUser(ctx context.Context, userID string) (*dto.BatchExecutionResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchExecutionResponse), args.Error(1)
}

func (m *MockAutopilotService) RunDailyAutopilot(ctx context.Context) (*dto.DailyJobResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DailyJobResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AutopilotSvcFacade = (*MockAutopilotService)(nil)

// --- Test Suite ---
type AutopilotHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockAutopilotService *MockAutopilotService
	jwtSecret            string
}

func (suite *AutopilotHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "wealthsync-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *AutopilotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockAutopilotService = new(MockAutopilotService)

	cfg := config.Autopilot{
		Provider:              "internal_ledger",
		AutoExecuteOnApproval: true,
		PrepareDaysAhead:      7,
		DefaultCurrency:       "INR",
	}
	autopilot := suite.router.Group("/api/v1/autopilot")
	handlers.RegisterAutopilotRoutes(autopilot, suite.mockAutopilotService, cfg)
}

func TestAutopilotHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AutopilotHandlerTestSuite))
}

func approvedOrder() *domain.PaymentOrder {
	return &domain.PaymentOrder{
		ID:               "order-1",
		UserID:           "user-1",
		SourceType:       domain.SourceBill,
		SourceID:         "bill-1",
		Title:            "Electricity",
		Amount:           decimal.NewFromInt(1200),
		Currency:         "INR",
		DueOn:            time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		Status:           domain.OrderApproved,
		ApprovalRequired: true,
		Provider:         "internal_ledger",
	}
}

func (suite *AutopilotHandlerTestSuite) postApprove(body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/autopilot/payments/order-1/approve", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-1"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

// --- Test Cases ---

func (suite *AutopilotHandlerTestSuite) TestApproveEmptyBodyDefaultsToExecuteNow() {
	suite.mockAutopilotService.
		On("ApproveOrder", mock.Anything, "user-1", "order-1", true).
		Return(approvedOrder(), nil).Once()

	rec := suite.postApprove(nil)

	suite.Equal(http.StatusOK, rec.Code)
	var body map[string]dto.PaymentOrderResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal("order-1", body["item"].ID)
	suite.mockAutopilotService.AssertExpectations(suite.T())
}

func (suite *AutopilotHandlerTestSuite) TestApproveOmittedFieldDefaultsToExecuteNow() {
	suite.mockAutopilotService.
		On("ApproveOrder", mock.Anything, "user-1", "order-1", true).
		Return(approvedOrder(), nil).Once()

	rec := suite.postApprove([]byte(`{}`))

	suite.Equal(http.StatusOK, rec.Code)
	suite.mockAutopilotService.AssertExpectations(suite.T())
}

func (suite *AutopilotHandlerTestSuite) TestApproveExplicitFalseDefersExecution() {
	suite.mockAutopilotService.
		On("ApproveOrder", mock.Anything, "user-1", "order-1", false).
		Return(approvedOrder(), nil).Once()

	rec := suite.postApprove([]byte(`{"execute_now": false}`))

	suite.Equal(http.StatusOK, rec.Code)
	suite.mockAutopilotService.AssertExpectations(suite.T())
}

func (suite *AutopilotHandlerTestSuite) TestApproveWithoutTokenUnauthorized() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/autopilot/payments/order-1/approve", nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	suite.Equal(http.StatusUnauthorized, rec.Code)
	suite.mockAutopilotService.AssertNotCalled(suite.T(), "ApproveOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
