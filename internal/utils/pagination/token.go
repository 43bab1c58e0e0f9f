package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor is the position of the last movement of a page, in (occurredAt, movementID) order.
type Cursor struct {
	OccurredAt time.Time
	MovementID string
}

// EncodeToken creates a base64 encoded token from a movement's occurrence time and id.
// This is used for consistent pagination across the ledger store implementations.
func EncodeToken(occurredAt time.Time, movementID string) string {
	tokenStr := fmt.Sprintf("%s|%s", occurredAt.UTC().Format(timeFormat), movementID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	occurredAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (occurred_at parse): %w", err)
	}

	return Cursor{OccurredAt: occurredAt, MovementID: parts[1]}, nil
}

// Before reports whether a movement sorts strictly after the cursor in descending order,
// i.e. whether it belongs to a later page.
func (c Cursor) Before(occurredAt time.Time, movementID string) bool {
	if occurredAt.Equal(c.OccurredAt) {
		return movementID < c.MovementID
	}
	return occurredAt.Before(c.OccurredAt)
}

// NormalizeLimit clamps a requested page size to [1, max], using def when unset.
func NormalizeLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
