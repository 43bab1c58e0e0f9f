package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/SscSPs/vizinhomais/internal/core/domain"
	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	"github.com/SscSPs/vizinhomais/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func earn(customerID string) domain.Movement {
	return domain.Movement{
		Kind:           domain.Earn,
		SaleAmount:     decimal.NewFromInt(10),
		CashbackAmount: decimal.NewFromInt(1),
		CustomerID:     customerID,
		StoreID:        "store-1",
	}
}

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func TestAppendMovement_AssignsIDAndTime(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 123456789, time.UTC)
	store := memory.New(memory.WithClock(func() time.Time { return at }))

	m, err := store.AppendMovement(context.Background(), earn("c1"))
	require.NoError(t, err)
	assert.NotEmpty(t, m.MovementID)
	assert.True(t, at.Truncate(time.Microsecond).Equal(m.OccurredAt))
}

func TestAppendMovement_IsIdempotentPerID(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	m := earn("c1")
	m.MovementID = "fixed"
	first, err := store.AppendMovement(ctx, m)
	require.NoError(t, err)
	second, err := store.AppendMovement(ctx, m)
	require.NoError(t, err)

	assert.Equal(t, first.OccurredAt, second.OccurredAt)
	all, err := store.ListCustomerMovements(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestQueryMovements_FiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.New(memory.WithClock(steppingClock(start, time.Minute)))

	for i := 0; i < 5; i++ {
		_, err := store.AppendMovement(ctx, earn("c1"))
		require.NoError(t, err)
	}
	_, err := store.AppendMovement(ctx, earn("c2"))
	require.NoError(t, err)

	c1 := "c1"
	var seen []domain.Movement
	var token *string
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5)
		page, next, err := store.QueryMovements(ctx, portsrepo.MovementQuery{CustomerID: &c1, Limit: 2, NextToken: token})
		require.NoError(t, err)
		seen = append(seen, page...)
		if next == nil {
			break
		}
		token = next
	}
	require.Len(t, seen, 5)
	for i := 1; i < len(seen); i++ {
		assert.True(t, seen[i-1].OccurredAt.After(seen[i].OccurredAt))
	}

	since := start.Add(3 * time.Minute)
	recent, _, err := store.QueryMovements(ctx, portsrepo.MovementQuery{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	bad := "!!!"
	_, _, err = store.QueryMovements(ctx, portsrepo.MovementQuery{NextToken: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestWithCustomerScope_CommitsOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	boom := errors.New("rejected")
	err := store.WithCustomerScope(ctx, "c1", func(ctx context.Context, scope portsrepo.CustomerScope) error {
		_, err := scope.AppendMovement(ctx, earn("c1"))
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	all, err := store.ListCustomerMovements(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, all)

	var committed *domain.Movement
	err = store.WithCustomerScope(ctx, "c1", func(ctx context.Context, scope portsrepo.CustomerScope) error {
		var err error
		committed, err = scope.AppendMovement(ctx, earn("c1"))
		return err
	})
	require.NoError(t, err)
	assert.False(t, committed.OccurredAt.IsZero())
	all, err = store.ListCustomerMovements(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWithCustomerScope_RejectsOtherCustomers(t *testing.T) {
	err := memory.New().WithCustomerScope(context.Background(), "c1", func(ctx context.Context, scope portsrepo.CustomerScope) error {
		_, err := scope.AppendMovement(ctx, earn("c2"))
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrInvariant)
}

func TestWithCustomerScope_BoundedWait(t *testing.T) {
	ctx := context.Background()
	store := memory.New(memory.WithLockTimeout(10 * time.Millisecond))

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.WithCustomerScope(ctx, "c1", func(context.Context, portsrepo.CustomerScope) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := store.WithCustomerScope(ctx, "c1", func(context.Context, portsrepo.CustomerScope) error { return nil })
	assert.ErrorIs(t, err, apperrors.ErrRedemptionBusy)

	// Other customers are unaffected.
	assert.NoError(t, store.WithCustomerScope(ctx, "c2", func(context.Context, portsrepo.CustomerScope) error { return nil }))

	close(release)
	assert.NoError(t, <-done)
}

func TestDirectory_Duplicates(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.SaveCustomer(ctx, domain.Customer{CustomerID: "a", TaxID: "1", CardNumber: "10"}))
	assert.ErrorIs(t, store.SaveCustomer(ctx, domain.Customer{CustomerID: "b", TaxID: "1", CardNumber: "20"}), apperrors.ErrDuplicate)
	assert.ErrorIs(t, store.SaveCustomer(ctx, domain.Customer{CustomerID: "c", TaxID: "3", CardNumber: "10"}), apperrors.ErrDuplicate)

	_, err := store.FindCustomerByCardNumber(ctx, "99")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
