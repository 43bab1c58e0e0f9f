package accounting_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func mov(kind domain.MovementKind, amount string, age time.Duration) domain.Movement {
	return domain.Movement{
		Kind:           kind,
		CashbackAmount: decimal.RequireFromString(amount),
		OccurredAt:     now.Add(-age),
	}
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name          string
		movements     []domain.Movement
		wantTotal     string
		wantAvailable string
	}{
		{
			name:          "no movements",
			wantTotal:     "0",
			wantAvailable: "0",
		},
		{
			name: "matured and pending earnings",
			movements: []domain.Movement{
				mov(domain.Earn, "5.00", 72*time.Hour),
				mov(domain.Earn, "3.00", time.Hour),
			},
			wantTotal:     "8.00",
			wantAvailable: "5.00",
		},
		{
			name: "earning exactly at the window boundary is available",
			movements: []domain.Movement{
				mov(domain.Earn, "2.50", domain.MaturationWindow),
			},
			wantTotal:     "2.50",
			wantAvailable: "2.50",
		},
		{
			name: "redeem lands on both figures immediately",
			movements: []domain.Movement{
				mov(domain.Earn, "5.00", 72*time.Hour),
				mov(domain.Earn, "3.00", time.Hour),
				mov(domain.Redeem, "5.00", 0),
			},
			wantTotal:     "3.00",
			wantAvailable: "0.00",
		},
		{
			name: "reverse of a pending earning drives available negative",
			movements: []domain.Movement{
				mov(domain.Earn, "4.00", time.Hour),
				mov(domain.Reverse, "4.00", time.Minute),
			},
			wantTotal:     "0.00",
			wantAvailable: "-4.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.ComputeBalances(tt.movements, domain.MaturationWindow, now)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(got.Total), "total: got %s", got.Total)
			assert.True(t, decimal.RequireFromString(tt.wantAvailable).Equal(got.Available), "available: got %s", got.Available)
		})
	}
}

func TestComputeBalances_OrderIndependent(t *testing.T) {
	movements := []domain.Movement{
		mov(domain.Earn, "10.00", 100*time.Hour),
		mov(domain.Earn, "1.25", 2*time.Hour),
		mov(domain.Redeem, "3.10", 10*time.Hour),
		mov(domain.Reverse, "0.40", 5*time.Hour),
		mov(domain.Earn, "7.77", 49*time.Hour),
		mov(domain.Redeem, "2.00", time.Minute),
	}
	want := accounting.ComputeBalances(movements, domain.MaturationWindow, now)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.Movement(nil), movements...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := accounting.ComputeBalances(shuffled, domain.MaturationWindow, now)
		assert.True(t, want.Total.Equal(got.Total))
		assert.True(t, want.Available.Equal(got.Available))
	}
	assert.True(t, decimal.RequireFromString("13.52").Equal(want.Total))
}

func TestComputeBalances_PendingEarningsOnlyInTotal(t *testing.T) {
	for _, age := range []time.Duration{0, time.Second, time.Hour, 47 * time.Hour, domain.MaturationWindow - time.Nanosecond} {
		got := accounting.ComputeBalances([]domain.Movement{mov(domain.Earn, "1.00", age)}, domain.MaturationWindow, now)
		assert.True(t, decimal.NewFromInt(1).Equal(got.Total), "age %s", age)
		assert.True(t, got.Available.IsZero(), "age %s", age)
	}
}

func TestCalculateCashback(t *testing.T) {
	tests := []struct {
		name    string
		sale    string
		percent string
		want    string
		wantErr bool
	}{
		{name: "ten percent", sale: "50.00", percent: "10", want: "5.00"},
		{name: "rounds half up to cents", sale: "10.05", percent: "5", want: "0.50"},
		{name: "fractional percent", sale: "33.33", percent: "2.5", want: "0.83"},
		{name: "zero percent", sale: "99.99", percent: "0", want: "0"},
		{name: "percent above 100", sale: "1", percent: "101", wantErr: true},
		{name: "negative sale", sale: "-1", percent: "10", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.CalculateCashback(decimal.RequireFromString(tt.sale), decimal.RequireFromString(tt.percent))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}
