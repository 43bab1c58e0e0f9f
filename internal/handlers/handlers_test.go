package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/SscSPs/vizinhomais/internal/core/domain"
	portssvc "github.com/SscSPs/vizinhomais/internal/core/ports/services"
	"github.com/SscSPs/vizinhomais/internal/dto"
	"github.com/SscSPs/vizinhomais/internal/handlers"
	"github.com/SscSPs/vizinhomais/internal/middleware"
	"github.com/SscSPs/vizinhomais/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/swaggo/swag"
)

// --- Mock services ---

type MockRedemptionService struct {
	mock.Mock
}

func (m *MockRedemptionService) Submit(ctx context.Context, principal domain.Principal, req dto.SubmitMovementRequest) (*domain.Movement, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

var _ portssvc.RedemptionSvc = (*MockRedemptionService)(nil)

type MockLedgerReader struct {
	mock.Mock
}

func (m *MockLedgerReader) ListMovements(ctx context.Context, principal domain.Principal, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	args := m.Called(ctx, principal, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListMovementsResponse), args.Error(1)
}

var _ portssvc.LedgerReaderSvc = (*MockLedgerReader)(nil)

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetCustomerBalances(ctx context.Context, principal domain.Principal, customerID string) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, principal, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceResponse), args.Error(1)
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) CreateStore(ctx context.Context, principal domain.Principal, req dto.CreateStoreRequest) (*domain.Store, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}
func (m *MockDirectoryService) GetStore(ctx context.Context, principal domain.Principal, storeID string) (*domain.Store, error) {
	args := m.Called(ctx, principal, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}
func (m *MockDirectoryService) UpdateStore(ctx context.Context, principal domain.Principal, storeID string, req dto.UpdateStoreRequest) (*domain.Store, error) {
	args := m.Called(ctx, principal, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}
func (m *MockDirectoryService) CreateOperator(ctx context.Context, principal domain.Principal, storeID string, req dto.CreateOperatorRequest) (*domain.Operator, error) {
	args := m.Called(ctx, principal, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}
func (m *MockDirectoryService) RevokeOperator(ctx context.Context, principal domain.Principal, storeID string, operatorID string) error {
	args := m.Called(ctx, principal, storeID, operatorID)
	return args.Error(0)
}
func (m *MockDirectoryService) EnrollCustomer(ctx context.Context, principal domain.Principal, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockDirectoryService) GetCustomer(ctx context.Context, principal domain.Principal, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, principal, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockDirectoryService) GetCustomerByCardNumber(ctx context.Context, principal domain.Principal, cardNumber string) (*domain.Customer, error) {
	args := m.Called(ctx, principal, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockDirectoryService) UpdateCustomer(ctx context.Context, principal domain.Principal, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error) {
	args := m.Called(ctx, principal, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

var _ portssvc.DirectorySvcFacade = (*MockDirectoryService)(nil)

// --- Test Suite ---

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "vizinhomais-test"
)

type HandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	redemption *MockRedemptionService
	ledger     *MockLedgerReader
	balance    *MockBalanceService
	directory  *MockDirectoryService
}

func (suite *HandlerTestSuite) token(role domain.Role, storeID, customerID string) string {
	claims := middleware.PrincipalClaims{
		Role:       string(role),
		StoreID:    storeID,
		CustomerID: customerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := utils.GenerateJWT(claims, testSecret)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) buildRouter(submitMiddleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1", middleware.AuthMiddleware(testSecret, testIssuer))
	handlers.RegisterMovementRoutes(v1, suite.redemption, suite.ledger, submitMiddleware...)
	handlers.RegisterCustomerRoutes(v1, suite.directory, suite.balance)
	handlers.RegisterStoreRoutes(v1, suite.directory)
	return router
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())

	suite.redemption = new(MockRedemptionService)
	suite.ledger = new(MockLedgerReader)
	suite.balance = new(MockBalanceService)
	suite.directory = new(MockDirectoryService)
	suite.router = suite.buildRouter()
}

func (suite *HandlerTestSuite) do(router *gin.Engine, method, url, token string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func submitBody(kind domain.MovementKind, amount, code string) map[string]any {
	return map[string]any{
		"kind":         kind,
		"customerID":   "cust-1",
		"storeID":      "store-1",
		"amount":       amount,
		"operatorCode": code,
	}
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestSubmitMovement_Created() {
	operatorName := "Ana"
	committed := &domain.Movement{
		MovementID:     uuid.NewString(),
		Kind:           domain.Earn,
		SaleAmount:     decimal.RequireFromString("50.00"),
		CashbackAmount: decimal.RequireFromString("5.00"),
		CustomerID:     "cust-1",
		StoreID:        "store-1",
		StoreName:      "Padaria",
		OccurredAt:     time.Now().UTC(),
		OperatorName:   &operatorName,
	}
	suite.redemption.On("Submit", mock.Anything,
		mock.MatchedBy(func(p domain.Principal) bool {
			sp, ok := p.(domain.StorePrincipal)
			return ok && sp.StoreID == "store-1"
		}),
		mock.MatchedBy(func(r dto.SubmitMovementRequest) bool {
			return r.Kind == domain.Earn && r.Amount.Equal(decimal.RequireFromString("50")) && r.OperatorCode == "12345"
		}),
	).Return(committed, nil).Once()

	w := suite.do(suite.router, http.MethodPost, "/api/v1/movements", suite.token(domain.RoleStore, "store-1", ""), submitBody(domain.Earn, "50.00", "12345"))

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.MovementResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(committed.MovementID, resp.MovementID)
	suite.Equal(domain.Pending, resp.Status)
	suite.True(resp.CashbackAmount.Equal(decimal.RequireFromString("5")))
	suite.redemption.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSubmitMovement_ErrorMapping() {
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{apperrors.ErrInvariant, http.StatusUnprocessableEntity},
		{apperrors.ErrInvalidCredential, http.StatusUnauthorized},
		{apperrors.ErrStoreSuspended, http.StatusForbidden},
		{apperrors.ErrRedemptionBusy, http.StatusConflict},
		{apperrors.ErrTransient, http.StatusServiceUnavailable},
		{apperrors.ErrNotFound, http.StatusNotFound},
	}
	token := suite.token(domain.RoleStore, "store-1", "")
	for _, tc := range cases {
		suite.redemption.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err).Once()
		w := suite.do(suite.router, http.MethodPost, "/api/v1/movements", token, submitBody(domain.Redeem, "6.00", "12345"))
		suite.Equal(tc.status, w.Code, tc.err.Error())
	}
	suite.redemption.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSubmitMovement_RejectsMalformedRequests() {
	token := suite.token(domain.RoleStore, "store-1", "")

	w := suite.do(suite.router, http.MethodPost, "/api/v1/movements", token, submitBody(domain.Earn, "10.00", "12a45"))
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(suite.router, http.MethodPost, "/api/v1/movements", token, submitBody("REFUND", "10.00", "12345"))
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(suite.router, http.MethodPost, "/api/v1/movements", "", submitBody(domain.Earn, "10.00", "12345"))
	suite.Equal(http.StatusUnauthorized, w.Code)

	suite.redemption.AssertNotCalled(suite.T(), "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestSubmitMovement_RateLimited() {
	limiter, err := middleware.NewMemoryLimiter("1-M")
	suite.Require().NoError(err)
	router := suite.buildRouter(middleware.RateLimit(limiter))
	token := suite.token(domain.RoleStore, "store-1", "")

	suite.redemption.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrInsufficientBalance).Once()
	w := suite.do(router, http.MethodPost, "/api/v1/movements", token, submitBody(domain.Redeem, "1.00", "12345"))
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.do(router, http.MethodPost, "/api/v1/movements", token, submitBody(domain.Redeem, "1.00", "12345"))
	suite.Equal(http.StatusTooManyRequests, w.Code)
	suite.redemption.AssertNumberOfCalls(suite.T(), "Submit", 1)
}

func (suite *HandlerTestSuite) TestListMovements() {
	next := "opaque"
	suite.ledger.On("ListMovements", mock.Anything,
		mock.MatchedBy(func(p domain.Principal) bool { return p.Role() == domain.RoleCustomer }),
		mock.MatchedBy(func(p dto.ListMovementsParams) bool { return p.Limit == 10 && p.CustomerID == "cust-1" }),
	).Return(&dto.ListMovementsResponse{Movements: []dto.MovementResponse{{MovementID: "m1"}}, NextToken: &next}, nil).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/v1/movements?customerID=cust-1&limit=10", suite.token(domain.RoleCustomer, "", "cust-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListMovementsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Movements, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)

	w = suite.do(suite.router, http.MethodGet, "/api/v1/movements?limit=1000", suite.token(domain.RoleAdmin, "", ""), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetBalance() {
	suite.balance.On("GetCustomerBalances", mock.Anything, mock.Anything, "cust-1").Return(&dto.BalanceResponse{
		CustomerID: "cust-1",
		Total:      decimal.RequireFromString("3.00"),
		Available:  decimal.Zero,
		Pending:    decimal.RequireFromString("3.00"),
	}, nil).Once()
	suite.balance.On("GetCustomerBalances", mock.Anything, mock.Anything, "cust-2").Return(nil, apperrors.ErrForbidden).Once()

	token := suite.token(domain.RoleCustomer, "", "cust-1")
	w := suite.do(suite.router, http.MethodGet, "/api/v1/customers/cust-1/balance", token, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BalanceResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Total.Equal(decimal.RequireFromString("3")))
	suite.Nil(resp.Anomalous)

	w = suite.do(suite.router, http.MethodGet, "/api/v1/customers/cust-2/balance", token, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.balance.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestStoreAdministration_RequiresAdmin() {
	body := map[string]any{"name": "Talho", "taxID": "500000002", "cashbackPercent": "5"}

	w := suite.do(suite.router, http.MethodPost, "/api/v1/stores", suite.token(domain.RoleStore, "store-1", ""), body)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.directory.AssertNotCalled(suite.T(), "CreateStore", mock.Anything, mock.Anything, mock.Anything)

	suite.directory.On("CreateStore", mock.Anything, mock.Anything, mock.MatchedBy(func(r dto.CreateStoreRequest) bool {
		return r.Name == "Talho" && r.CashbackPercent.Equal(decimal.NewFromInt(5))
	})).Return(&domain.Store{StoreID: "store-2", Name: "Talho", TaxID: "500000002", CashbackPercent: decimal.NewFromInt(5), IsActive: true}, nil).Once()

	w = suite.do(suite.router, http.MethodPost, "/api/v1/stores", suite.token(domain.RoleAdmin, "", ""), body)
	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.StoreResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("store-2", resp.StoreID)
	suite.directory.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestOperatorLifecycle() {
	admin := suite.token(domain.RoleAdmin, "", "")
	suite.directory.On("CreateOperator", mock.Anything, mock.Anything, "store-1", dto.CreateOperatorRequest{Name: "Ana", Code: "12345"}).
		Return(&domain.Operator{OperatorID: "op-1", StoreID: "store-1", Name: "Ana", CredentialHash: "secret-hash", IsActive: true}, nil).Once()
	suite.directory.On("CreateOperator", mock.Anything, mock.Anything, "store-1", dto.CreateOperatorRequest{Name: "Rui", Code: "12345"}).
		Return(nil, apperrors.ErrDuplicate).Once()
	suite.directory.On("RevokeOperator", mock.Anything, mock.Anything, "store-1", "op-1").Return(nil).Once()

	w := suite.do(suite.router, http.MethodPost, "/api/v1/stores/store-1/operators", admin, map[string]any{"name": "Ana", "code": "12345"})
	suite.Equal(http.StatusCreated, w.Code)
	suite.NotContains(w.Body.String(), "secret-hash")

	w = suite.do(suite.router, http.MethodPost, "/api/v1/stores/store-1/operators", admin, map[string]any{"name": "Rui", "code": "12345"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(suite.router, http.MethodPost, "/api/v1/stores/store-1/operators", admin, map[string]any{"name": "Eva", "code": "1234"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.NotContains(w.Body.String(), "1234\"")

	w = suite.do(suite.router, http.MethodDelete, "/api/v1/stores/store-1/operators/op-1", admin, nil)
	suite.Equal(http.StatusNoContent, w.Code)
	suite.directory.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCustomerLookup() {
	token := suite.token(domain.RoleStore, "store-1", "")
	suite.directory.On("GetCustomerByCardNumber", mock.Anything, mock.Anything, "0000000001").
		Return(&domain.Customer{CustomerID: "cust-1", CardNumber: "0000000001", IsActive: true}, nil).Once()

	w := suite.do(suite.router, http.MethodGet, "/api/v1/customers?cardNumber=0000000001", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(suite.router, http.MethodGet, "/api/v1/customers", token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(suite.router, http.MethodPatch, "/api/v1/customers/cust-1", token, map[string]any{"isActive": false})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.directory.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSwaggerDocumentsEveryRoute() {
	raw, err := swag.ReadDoc()
	suite.Require().NoError(err)

	var doc struct {
		BasePath string                               `json:"basePath"`
		Paths    map[string]map[string]map[string]any `json:"paths"`
	}
	suite.Require().NoError(json.Unmarshal([]byte(raw), &doc))
	suite.Equal("/api/v1", doc.BasePath)

	for _, route := range suite.router.Routes() {
		// "/api/v1/stores/:storeID" -> "/stores/{storeID}"
		segments := strings.Split(strings.TrimPrefix(route.Path, doc.BasePath), "/")
		for i, seg := range segments {
			if strings.HasPrefix(seg, ":") {
				segments[i] = "{" + seg[1:] + "}"
			}
		}
		path := strings.Join(segments, "/")
		suite.Contains(doc.Paths[path], strings.ToLower(route.Method), "%s %s is not documented", route.Method, path)
	}
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
