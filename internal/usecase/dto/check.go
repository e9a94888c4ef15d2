package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CheckLocation is the WGS84 point under enforcement.
type CheckLocation struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// CheckRequest is the parsed input of one compliance check. Time is nil
// when the caller did not override it; the transport layer guarantees a
// present value carries an explicit UTC offset.
type CheckRequest struct {
	RegistrationNumber string        `json:"registration_number" validate:"required,max=20"`
	Location           CheckLocation `json:"location"`
	Time               *time.Time    `json:"-"`
	Details            []string      `json:"-"`

	// Supplied by the capability gate, not the request body.
	DomainID  uuid.UUID `json:"-"`
	Performer string    `json:"-"`
}

// RequestedDetails reports which optional detail fields were asked for.
func (r *CheckRequest) RequestedDetails() (operator, timeStart, permissions bool) {
	for _, d := range r.Details {
		switch strings.ToLower(d) {
		case "operator":
			operator = true
		case "time_start":
			timeStart = true
		case "permissions":
			permissions = true
		}
	}
	return operator, timeStart, permissions
}
