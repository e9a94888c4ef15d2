package domain

import (
	"github.com/google/uuid"
)

// EnforcementDomain is the jurisdiction scoping unit. Every zone, area,
// parking and permit belongs to exactly one domain.
type EnforcementDomain struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Code string    `json:"code" db:"code"`
	Name string    `json:"name" db:"name"`
}

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}
