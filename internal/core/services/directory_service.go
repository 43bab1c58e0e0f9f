package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/SscSPs/vizinhomais/internal/core/domain"
	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vizinhomais/internal/core/ports/services"
	"github.com/SscSPs/vizinhomais/internal/dto"
	"github.com/SscSPs/vizinhomais/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	cardNumberDigits      = 10
	cardNumberMaxAttempts = 5
)

var hundredPercent = decimal.NewFromInt(100)

type directoryService struct {
	BaseService
	repo portsrepo.DirectoryRepositoryFacade
	now  Clock
}

// NewDirectoryService creates the service managing stores, operators and customers.
func NewDirectoryService(repo portsrepo.DirectoryRepositoryFacade, clock Clock) portssvc.DirectorySvcFacade {
	if clock == nil {
		clock = systemClock
	}
	return &directoryService{repo: repo, now: clock}
}

var _ portssvc.DirectorySvcFacade = (*directoryService)(nil)

func validatePercent(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundredPercent) {
		return fmt.Errorf("%w: cashback percent must be between 0 and 100, got %s", apperrors.ErrValidation, p)
	}
	return nil
}

func (s *directoryService) audit(principal domain.Principal) domain.AuditFields {
	now := s.now()
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     principal.Subject(),
		LastUpdatedAt: now,
		LastUpdatedBy: principal.Subject(),
	}
}

func requireAdmin(principal domain.Principal) error {
	if !principal.CanManageDirectory() {
		return fmt.Errorf("%w: directory changes require an administrator", apperrors.ErrForbidden)
	}
	return nil
}

// --- stores ---

func (s *directoryService) CreateStore(ctx context.Context, principal domain.Principal, req dto.CreateStoreRequest) (*domain.Store, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := validatePercent(req.CashbackPercent); err != nil {
		return nil, err
	}

	store := domain.Store{
		StoreID:         uuid.NewString(),
		Name:            req.Name,
		TaxID:           req.TaxID,
		CashbackPercent: req.CashbackPercent,
		IsActive:        true,
		AuditFields:     s.audit(principal),
	}
	if err := s.repo.SaveStore(ctx, store); err != nil {
		s.LogError(ctx, err, "Failed to save store", slog.String("store_id", store.StoreID))
		return nil, err
	}

	s.LogInfo(ctx, "Store created", slog.String("store_id", store.StoreID))
	return &store, nil
}

func (s *directoryService) GetStore(ctx context.Context, principal domain.Principal, storeID string) (*domain.Store, error) {
	if !principal.CanQueryStore(storeID) {
		return nil, fmt.Errorf("%w: store %s", apperrors.ErrForbidden, storeID)
	}
	return s.repo.FindStoreByID(ctx, storeID)
}

func (s *directoryService) UpdateStore(ctx context.Context, principal domain.Principal, storeID string, req dto.UpdateStoreRequest) (*domain.Store, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	store, err := s.repo.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if req.CashbackPercent != nil {
		if err := validatePercent(*req.CashbackPercent); err != nil {
			return nil, err
		}
		store.CashbackPercent = *req.CashbackPercent
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}
	store.LastUpdatedAt = s.now()
	store.LastUpdatedBy = principal.Subject()

	if err := s.repo.UpdateStore(ctx, *store); err != nil {
		s.LogError(ctx, err, "Failed to update store", slog.String("store_id", storeID))
		return nil, err
	}
	s.LogInfo(ctx, "Store updated",
		slog.String("store_id", storeID),
		slog.Bool("is_active", store.IsActive),
		slog.String("cashback_percent", store.CashbackPercent.String()))
	return store, nil
}

// CreateOperator adds an operator whose code must not collide with another active operator of the store,
// otherwise the gate could no longer tell them apart.
func (s *directoryService) CreateOperator(ctx context.Context, principal domain.Principal, storeID string, req dto.CreateOperatorRequest) (*domain.Operator, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if !utils.IsCredentialFormat(req.Code) {
		return nil, fmt.Errorf("%w: operator code must be exactly 5 digits", apperrors.ErrValidation)
	}
	if _, err := s.repo.FindStoreByID(ctx, storeID); err != nil {
		return nil, err
	}

	active, err := s.repo.ListActiveOperatorsByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	for _, op := range active {
		if utils.CheckCredentialHash(req.Code, op.CredentialHash) {
			return nil, fmt.Errorf("%w: code already in use at store %s", apperrors.ErrDuplicate, storeID)
		}
	}

	hash, err := utils.HashCredential(req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to hash operator code: %w", err)
	}
	operator := domain.Operator{
		OperatorID:     uuid.NewString(),
		StoreID:        storeID,
		Name:           req.Name,
		CredentialHash: hash,
		IsActive:       true,
		AuditFields:    s.audit(principal),
	}
	if err := s.repo.SaveOperator(ctx, operator); err != nil {
		s.LogError(ctx, err, "Failed to save operator", slog.String("store_id", storeID))
		return nil, err
	}

	s.LogInfo(ctx, "Operator created", slog.String("store_id", storeID), slog.String("operator_id", operator.OperatorID))
	return &operator, nil
}

func (s *directoryService) RevokeOperator(ctx context.Context, principal domain.Principal, storeID string, operatorID string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	operator, err := s.repo.FindOperatorByID(ctx, operatorID)
	if err != nil {
		return err
	}
	if operator.StoreID != storeID {
		return fmt.Errorf("%w: operator %s at store %s", apperrors.ErrNotFound, operatorID, storeID)
	}
	if !operator.IsActive {
		return nil
	}

	operator.IsActive = false
	operator.LastUpdatedAt = s.now()
	operator.LastUpdatedBy = principal.Subject()
	if err := s.repo.UpdateOperator(ctx, *operator); err != nil {
		s.LogError(ctx, err, "Failed to revoke operator", slog.String("operator_id", operatorID))
		return err
	}
	s.LogInfo(ctx, "Operator revoked", slog.String("store_id", storeID), slog.String("operator_id", operatorID))
	return nil
}

// --- customers ---

func (s *directoryService) EnrollCustomer(ctx context.Context, principal domain.Principal, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	if !principal.CanEnrollCustomers() {
		return nil, fmt.Errorf("%w: cannot enroll customers", apperrors.ErrForbidden)
	}

	cardNumber := req.CardNumber
	if cardNumber == "" {
		generated, err := s.freeCardNumber(ctx)
		if err != nil {
			return nil, err
		}
		cardNumber = generated
	}

	customer := domain.Customer{
		CustomerID:  uuid.NewString(),
		Name:        req.Name,
		TaxID:       req.TaxID,
		CardNumber:  cardNumber,
		IsActive:    true,
		AuditFields: s.audit(principal),
	}
	if err := s.repo.SaveCustomer(ctx, customer); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save customer", slog.String("customer_id", customer.CustomerID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Customer enrolled", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

func (s *directoryService) freeCardNumber(ctx context.Context) (string, error) {
	for i := 0; i < cardNumberMaxAttempts; i++ {
		candidate, err := utils.GenerateNumericCode(cardNumberDigits)
		if err != nil {
			return "", err
		}
		_, err = s.repo.FindCustomerByCardNumber(ctx, candidate)
		if errors.Is(err, apperrors.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: could not generate a free card number", apperrors.ErrDuplicate)
}

func (s *directoryService) GetCustomer(ctx context.Context, principal domain.Principal, customerID string) (*domain.Customer, error) {
	if !principal.CanViewCustomer(customerID) {
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrForbidden, customerID)
	}
	return s.repo.FindCustomerByID(ctx, customerID)
}

func (s *directoryService) GetCustomerByCardNumber(ctx context.Context, principal domain.Principal, cardNumber string) (*domain.Customer, error) {
	customer, err := s.repo.FindCustomerByCardNumber(ctx, cardNumber)
	if err != nil {
		return nil, err
	}
	if !principal.CanViewCustomer(customer.CustomerID) {
		return nil, fmt.Errorf("%w: card %s", apperrors.ErrForbidden, cardNumber)
	}
	return customer, nil
}

func (s *directoryService) UpdateCustomer(ctx context.Context, principal domain.Principal, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	customer, err := s.repo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	customer.LastUpdatedAt = s.now()
	customer.LastUpdatedBy = principal.Subject()

	if err := s.repo.UpdateCustomer(ctx, *customer); err != nil {
		s.LogError(ctx, err, "Failed to update customer", slog.String("customer_id", customerID))
		return nil, err
	}
	s.LogInfo(ctx, "Customer updated", slog.String("customer_id", customerID), slog.Bool("is_active", customer.IsActive))
	return customer, nil
}
