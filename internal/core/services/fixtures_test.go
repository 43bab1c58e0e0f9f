package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/core/services"
	"github.com/SscSPs/vizinhomais/internal/repositories/database/memory"
	"github.com/SscSPs/vizinhomais/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	storeID      = "store-1"
	otherStoreID = "store-2"
	customerID   = "customer-1"
	operatorID   = "operator-1"
	operatorCode = "12345"
)

var (
	admin         = domain.AdminPrincipal{SubjectID: "admin"}
	storeTerminal = domain.StorePrincipal{SubjectID: "terminal-1", StoreID: storeID}
	shopper       = domain.CustomerPrincipal{SubjectID: "shopper", CustomerID: customerID}
	fastRetry     = services.RetryConfig{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
)

// fakeClock is a settable clock shared by the store and the services.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingAnalytics collects enqueued events.
type recordingAnalytics struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingAnalytics) Enqueue(_ string, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAnalytics) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// seedDirectory creates an active store at 10% with one operator, a second store and an active customer.
func seedDirectory(ctx context.Context, store *memory.Store) error {
	hash, err := utils.HashCredential(operatorCode)
	if err != nil {
		return err
	}
	if err := store.SaveStore(ctx, domain.Store{StoreID: storeID, Name: "Padaria Central", TaxID: "500000001", CashbackPercent: decimal.NewFromInt(10), IsActive: true}); err != nil {
		return err
	}
	if err := store.SaveStore(ctx, domain.Store{StoreID: otherStoreID, Name: "Farmacia Nova", TaxID: "500000002", CashbackPercent: decimal.NewFromInt(5), IsActive: true}); err != nil {
		return err
	}
	if err := store.SaveOperator(ctx, domain.Operator{OperatorID: operatorID, StoreID: storeID, Name: "Ana", CredentialHash: hash, IsActive: true}); err != nil {
		return err
	}
	return store.SaveCustomer(ctx, domain.Customer{CustomerID: customerID, Name: "Rui", TaxID: "200000001", CardNumber: "0000000001", IsActive: true})
}
