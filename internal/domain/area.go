package domain

import (
	"github.com/google/uuid"
)

// PaymentZone is a numbered paid-parking zone. Zones of a domain may
// overlap geometrically; the number encodes nesting, with more specific
// zones carrying higher numbers.
type PaymentZone struct {
	ID       uuid.UUID `json:"id" db:"id"`
	DomainID uuid.UUID `json:"domain_id" db:"domain_id"`
	Code     string    `json:"code" db:"code"`
	Number   int       `json:"number" db:"number"`
	Name     string    `json:"name" db:"name"`
}

// PermitArea is a polygon within which permits referencing its
// identifier grant parking rights.
type PermitArea struct {
	ID         uuid.UUID `json:"id" db:"id"`
	DomainID   uuid.UUID `json:"domain_id" db:"domain_id"`
	Identifier string    `json:"identifier" db:"identifier"`
	Name       string    `json:"name" db:"name"`
}

// ParkingArea is a mapped on-street parking area. Event areas keep a
// derived link to every parking area their polygon intersects.
type ParkingArea struct {
	ID               uuid.UUID `json:"id" db:"id"`
	DomainID         uuid.UUID `json:"domain_id" db:"domain_id"`
	CapacityEstimate *int      `json:"capacity_estimate,omitempty" db:"capacity_estimate"`
}
