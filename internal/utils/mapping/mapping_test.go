package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementMapping_OptionalFields(t *testing.T) {
	doc := "FT 2026/17"
	withDoc := domain.Movement{
		MovementID:     "m1",
		Kind:           domain.Earn,
		SaleAmount:     decimal.NewFromInt(10),
		CashbackAmount: decimal.NewFromInt(1),
		CustomerID:     "c1",
		StoreID:        "s1",
		OccurredAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		OriginDocument: &doc,
	}

	row := mapping.ToModelMovement(withDoc)
	assert.True(t, row.OriginDocument.Valid)
	assert.False(t, row.OperatorID.Valid)

	back := mapping.ToDomainMovement(row)
	require.NotNil(t, back.OriginDocument)
	assert.Equal(t, doc, *back.OriginDocument)
	assert.Nil(t, back.OperatorID)
	assert.Nil(t, back.OperatorName)
	assert.Equal(t, domain.Earn, back.Kind)
}

func TestMovementMapping_NormalizesToUTC(t *testing.T) {
	lisbonSummer := time.FixedZone("WEST", 3600)
	row := mapping.ToModelMovement(domain.Movement{OccurredAt: time.Date(2026, 7, 1, 13, 0, 0, 0, lisbonSummer)})
	got := mapping.ToDomainMovement(row)
	assert.Equal(t, time.UTC, got.OccurredAt.Location())
	assert.Equal(t, 12, got.OccurredAt.Hour())
}
