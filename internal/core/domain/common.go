package domain

import "time"

// AuditFields holds standard audit information for directory entities.
// Movements do not embed it: they are never updated and carry their own OccurredAt.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Principal subject
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // Principal subject
}
