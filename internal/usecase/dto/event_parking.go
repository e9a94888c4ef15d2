package dto

import (
	"time"

	"github.com/google/uuid"
)

// EventParkingRequest is the operator payload for creating or updating
// an event parking. EventAreaID may be omitted; the closest event area
// within the configured distance is assigned instead.
type EventParkingRequest struct {
	RegistrationNumber string        `json:"registration_number" validate:"required,max=20"`
	Location           CheckLocation `json:"location"`
	TimeStart          time.Time     `json:"time_start" validate:"required"`
	TimeEnd            *time.Time    `json:"time_end"`
	EventAreaID        *uuid.UUID    `json:"event_area_id"`

	// Supplied by the operator gate, not the request body.
	DomainID   uuid.UUID `json:"-"`
	OperatorID uuid.UUID `json:"-"`
}
