package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CheckLocation describes where the checked point resolved to.
// All three are nullable: an unresolved zone or area is a normal
// outcome, not an error.
type CheckLocation struct {
	PaymentZone *int       `json:"payment_zone"`
	PermitArea  *string    `json:"permit_area"`
	EventArea   *uuid.UUID `json:"event_area"`
}

// PermitSummary is the per-lookup-item view of the owning permit used
// in permission summaries.
type PermitSummary struct {
	ExternalID string           `json:"external_id"`
	Subjects   []PermitSubject  `json:"subjects"`
	Areas      []PermitAreaSpan `json:"areas"`
}

// PermissionSummary lists every authorization the plate currently
// holds in the domain, independent of whether any of them matched the
// checked location.
type PermissionSummary struct {
	Zones      []int           `json:"zones"`
	Permits    []PermitSummary `json:"permits"`
	EventAreas []uuid.UUID     `json:"event_areas"`
}

// CheckResult is the verdict payload returned to the enforcer and
// persisted verbatim into the audit trail. The optional detail fields
// appear in the serialized form only when the caller requested them.
type CheckResult struct {
	Allowed  bool          `json:"allowed"`
	EndTime  *time.Time    `json:"end_time"`
	Location CheckLocation `json:"location"`
	Time     time.Time     `json:"time"`

	Operator    *string            `json:"-"`
	TimeStart   *time.Time         `json:"-"`
	Permissions *PermissionSummary `json:"-"`

	// Which detail fields were requested; a requested field serializes
	// even when its value is null.
	HasOperator    bool `json:"-"`
	HasTimeStart   bool `json:"-"`
	HasPermissions bool `json:"-"`
}

func (r CheckResult) MarshalJSON() ([]byte, error) {
	payload := map[string]interface{}{
		"allowed":  r.Allowed,
		"end_time": r.EndTime,
		"location": r.Location,
		"time":     r.Time,
	}
	if r.HasOperator {
		payload["operator"] = r.Operator
	}
	if r.HasTimeStart {
		payload["time_start"] = r.TimeStart
	}
	if r.HasPermissions {
		payload["permissions"] = r.Permissions
	}
	return json.Marshal(payload)
}

// ParkingCheck is the immutable audit record of one compliance check.
// Rows are insert-only; they are never updated or deleted.
type ParkingCheck struct {
	ID                 uuid.UUID   `json:"id" db:"id"`
	Time               time.Time   `json:"time" db:"time"`
	TimeOverridden     bool        `json:"time_overridden" db:"time_overridden"`
	RegistrationNumber string      `json:"registration_number" db:"registration_number"`
	Location           Point       `json:"location" db:"-"`
	Performer          string      `json:"performer" db:"performer"`
	Result             CheckResult `json:"result" db:"-"`
	Allowed            bool        `json:"allowed" db:"allowed"`
	FoundParkingID     *uuid.UUID  `json:"found_parking_id" db:"found_parking_id"`
	FoundEventParking  *uuid.UUID  `json:"found_event_parking_id" db:"found_event_parking_id"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
}
