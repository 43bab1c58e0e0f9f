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
	"github.com/SscSPs/vizinhomais/internal/utils"
)

type authorizationGate struct {
	BaseService
	storeRepo    portsrepo.StoreReader
	operatorRepo portsrepo.OperatorReader
}

// NewAuthorizationGate creates the operator credential gate.
func NewAuthorizationGate(storeRepo portsrepo.StoreReader, operatorRepo portsrepo.OperatorReader) portssvc.AuthorizationGateSvc {
	return &authorizationGate{storeRepo: storeRepo, operatorRepo: operatorRepo}
}

var _ portssvc.AuthorizationGateSvc = (*authorizationGate)(nil)

// Authorize checks suspension before the credential, so no code, valid or malformed, bypasses it.
func (g *authorizationGate) Authorize(ctx context.Context, storeID string, credentialCode string) (*domain.Operator, error) {
	store, err := g.storeRepo.FindStoreByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown store %s", apperrors.ErrInvalidCredential, storeID)
		}
		return nil, err
	}
	if !store.IsActive {
		g.LogInfo(ctx, "Rejected movement for suspended store", slog.String("store_id", storeID))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrStoreSuspended, storeID)
	}
	if !utils.IsCredentialFormat(credentialCode) {
		return nil, fmt.Errorf("%w: malformed code", apperrors.ErrInvalidCredential)
	}

	operators, err := g.operatorRepo.ListActiveOperatorsByStore(ctx, storeID)
	if err != nil {
		g.LogError(ctx, err, "Failed to list operators", slog.String("store_id", storeID))
		return nil, err
	}

	var match *domain.Operator
	matches := 0
	for i := range operators {
		if utils.CheckCredentialHash(credentialCode, operators[i].CredentialHash) {
			match = &operators[i]
			matches++
		}
	}
	if matches != 1 {
		if matches > 1 {
			g.LogWarn(ctx, "Credential matches more than one active operator", slog.String("store_id", storeID))
		}
		return nil, fmt.Errorf("%w: store %s", apperrors.ErrInvalidCredential, storeID)
	}
	return match, nil
}
