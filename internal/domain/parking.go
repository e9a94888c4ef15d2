package domain

import (
	"time"

	"github.com/google/uuid"
)

// Parking is a paid parking record tied to a payment zone.
// A nil TimeEnd means the parking is open-ended and still running.
type Parking struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	DomainID         uuid.UUID  `json:"domain_id" db:"domain_id"`
	OperatorID       uuid.UUID  `json:"operator_id" db:"operator_id"`
	OperatorName     string     `json:"operator_name" db:"operator_name"`
	ZoneID           uuid.UUID  `json:"zone_id" db:"zone_id"`
	ZoneNumber       int        `json:"zone_number" db:"zone_number"`
	RegistrationNum  string     `json:"registration_number" db:"registration_number"`
	NormalizedRegNum string     `json:"normalized_reg_num" db:"normalized_reg_num"`
	Location         Point      `json:"location" db:"-"`
	TimeStart        time.Time  `json:"time_start" db:"time_start"`
	TimeEnd          *time.Time `json:"time_end" db:"time_end"`
}

// ValidAt reports whether the parking covers the given instant.
func (p *Parking) ValidAt(t time.Time) bool {
	return validAt(p.TimeStart, p.TimeEnd, t)
}

// EventParking is a parking record tied to an event area instead of a
// payment zone. The area reference is nullable: areas can be deleted
// while their historical parkings remain.
type EventParking struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	DomainID         uuid.UUID  `json:"domain_id" db:"domain_id"`
	OperatorID       uuid.UUID  `json:"operator_id" db:"operator_id"`
	OperatorName     string     `json:"operator_name" db:"operator_name"`
	EventAreaID      *uuid.UUID `json:"event_area_id" db:"event_area_id"`
	RegistrationNum  string     `json:"registration_number" db:"registration_number"`
	NormalizedRegNum string     `json:"normalized_reg_num" db:"normalized_reg_num"`
	Location         Point      `json:"location" db:"-"`
	TimeStart        time.Time  `json:"time_start" db:"time_start"`
	TimeEnd          *time.Time `json:"time_end" db:"time_end"`
}

// ValidAt reports whether the event parking covers the given instant.
func (p *EventParking) ValidAt(t time.Time) bool {
	return validAt(p.TimeStart, p.TimeEnd, t)
}

func validAt(start time.Time, end *time.Time, t time.Time) bool {
	if start.After(t) {
		return false
	}
	return end == nil || !end.Before(t)
}
