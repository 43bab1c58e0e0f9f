package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	portssvc "github.com/SscSPs/vizinhomais/internal/core/ports/services"
	"github.com/SscSPs/vizinhomais/internal/core/services"
	"github.com/SscSPs/vizinhomais/internal/dto"
	"github.com/SscSPs/vizinhomais/internal/repositories/database/memory"
	"github.com/SscSPs/vizinhomais/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type DirectoryServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *fakeClock
	store   *memory.Store
	service portssvc.DirectorySvcFacade
}

func (suite *DirectoryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = newFakeClock()
	suite.store = memory.New()
	suite.service = services.NewDirectoryService(suite.store, suite.clock.Now)
}

func TestDirectoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DirectoryServiceTestSuite))
}

func (suite *DirectoryServiceTestSuite) createStore() string {
	st, err := suite.service.CreateStore(suite.ctx, admin, dto.CreateStoreRequest{Name: "Talho", TaxID: "500000009", CashbackPercent: decimal.NewFromInt(3)})
	suite.Require().NoError(err)
	return st.StoreID
}

func (suite *DirectoryServiceTestSuite) TestCreateStore() {
	st, err := suite.service.CreateStore(suite.ctx, admin, dto.CreateStoreRequest{Name: "Talho", TaxID: "500000009", CashbackPercent: decimal.RequireFromString("7.5")})
	suite.Require().NoError(err)
	suite.NotEmpty(st.StoreID)
	suite.True(st.IsActive)
	suite.Equal("admin", st.CreatedBy)
	suite.True(suite.clock.Now().Equal(st.CreatedAt))

	_, err = suite.service.CreateStore(suite.ctx, admin, dto.CreateStoreRequest{Name: "Bad", TaxID: "500000008", CashbackPercent: decimal.NewFromInt(101)})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateStore(suite.ctx, storeTerminal, dto.CreateStoreRequest{Name: "Nope", TaxID: "500000007"})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *DirectoryServiceTestSuite) TestUpdateStore_Suspend() {
	id := suite.createStore()
	inactive := false
	pct := decimal.NewFromInt(12)

	st, err := suite.service.UpdateStore(suite.ctx, admin, id, dto.UpdateStoreRequest{IsActive: &inactive, CashbackPercent: &pct})
	suite.Require().NoError(err)
	suite.False(st.IsActive)
	suite.True(pct.Equal(st.CashbackPercent))

	stored, err := suite.store.FindStoreByID(suite.ctx, id)
	suite.Require().NoError(err)
	suite.False(stored.IsActive)
}

func (suite *DirectoryServiceTestSuite) TestCreateOperator_HashesAndRejectsDuplicateCodes() {
	id := suite.createStore()

	op, err := suite.service.CreateOperator(suite.ctx, admin, id, dto.CreateOperatorRequest{Name: "Ana", Code: "24680"})
	suite.Require().NoError(err)
	suite.NotEqual("24680", op.CredentialHash)
	suite.True(utils.CheckCredentialHash("24680", op.CredentialHash))

	_, err = suite.service.CreateOperator(suite.ctx, admin, id, dto.CreateOperatorRequest{Name: "Bea", Code: "24680"})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	// Once revoked, the code is free again.
	suite.Require().NoError(suite.service.RevokeOperator(suite.ctx, admin, id, op.OperatorID))
	_, err = suite.service.CreateOperator(suite.ctx, admin, id, dto.CreateOperatorRequest{Name: "Bea", Code: "24680"})
	suite.NoError(err)

	_, err = suite.service.CreateOperator(suite.ctx, admin, "missing", dto.CreateOperatorRequest{Name: "X", Code: "11111"})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DirectoryServiceTestSuite) TestRevokeOperator_WrongStore() {
	id := suite.createStore()
	op, err := suite.service.CreateOperator(suite.ctx, admin, id, dto.CreateOperatorRequest{Name: "Ana", Code: "24680"})
	suite.Require().NoError(err)

	err = suite.service.RevokeOperator(suite.ctx, admin, "another-store", op.OperatorID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DirectoryServiceTestSuite) TestEnrollCustomer() {
	c, err := suite.service.EnrollCustomer(suite.ctx, storeTerminal, dto.CreateCustomerRequest{Name: "Rui", TaxID: "200000001"})
	suite.Require().NoError(err)
	suite.Len(c.CardNumber, 10)
	suite.True(c.IsActive)

	found, err := suite.service.GetCustomerByCardNumber(suite.ctx, storeTerminal, c.CardNumber)
	suite.Require().NoError(err)
	suite.Equal(c.CustomerID, found.CustomerID)

	_, err = suite.service.EnrollCustomer(suite.ctx, admin, dto.CreateCustomerRequest{Name: "Rui again", TaxID: "200000001"})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = suite.service.EnrollCustomer(suite.ctx, shopper, dto.CreateCustomerRequest{Name: "Self", TaxID: "200000002"})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *DirectoryServiceTestSuite) TestCustomerVisibility() {
	c, err := suite.service.EnrollCustomer(suite.ctx, admin, dto.CreateCustomerRequest{Name: "Rui", TaxID: "200000001", CardNumber: "1234567890"})
	suite.Require().NoError(err)
	suite.Equal("1234567890", c.CardNumber)

	_, err = suite.service.GetCustomer(suite.ctx, shopper, c.CustomerID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.GetCustomer(suite.ctx, storeTerminal, c.CustomerID)
	suite.NoError(err)

	inactive := false
	_, err = suite.service.UpdateCustomer(suite.ctx, storeTerminal, c.CustomerID, dto.UpdateCustomerRequest{IsActive: &inactive})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	updated, err := suite.service.UpdateCustomer(suite.ctx, admin, c.CustomerID, dto.UpdateCustomerRequest{IsActive: &inactive})
	suite.Require().NoError(err)
	suite.False(updated.IsActive)
}
