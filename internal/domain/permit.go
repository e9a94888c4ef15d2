package domain

import (
	"time"

	"github.com/google/uuid"
)

// PermitSeries groups permits issued by one owner. Only an active
// series contributes to enforcement matching; keeping at most one
// series active per owner is the issuing workflow's responsibility.
type PermitSeries struct {
	ID      uuid.UUID `json:"id" db:"id"`
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`
	Active  bool      `json:"active" db:"active"`
}

// PermitSubject grants a plate a validity window within the permit.
type PermitSubject struct {
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	RegistrationNumber string    `json:"registration_number"`
}

// PermitAreaSpan grants the permit a validity window within one permit
// area, referenced by its identifier.
type PermitAreaSpan struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Area      string    `json:"area"`
}

// Permit is the operator-submitted grant: a set of subjects crossed
// with a set of areas.
type Permit struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	DomainID   uuid.UUID        `json:"domain_id" db:"domain_id"`
	SeriesID   uuid.UUID        `json:"series_id" db:"series_id"`
	ExternalID string           `json:"external_id" db:"external_id"`
	Subjects   []PermitSubject  `json:"subjects" db:"-"`
	Areas      []PermitAreaSpan `json:"areas" db:"-"`
}

// PermitLookupItem is the denormalized row materialized from each
// (subject, area) pair of a permit. It exists purely to make "is this
// plate permitted in this area at this time" an indexable query. An
// item is active when its owning series is active and the queried time
// falls inside the item's own window.
type PermitLookupItem struct {
	ID               uuid.UUID `json:"id" db:"id"`
	PermitID         uuid.UUID `json:"permit_id" db:"permit_id"`
	SeriesID         uuid.UUID `json:"series_id" db:"series_id"`
	ExternalID       string    `json:"external_id" db:"external_id"`
	NormalizedRegNum string    `json:"normalized_reg_num" db:"normalized_reg_num"`
	AreaIdentifier   string    `json:"area_identifier" db:"area_identifier"`
	StartTime        time.Time `json:"start_time" db:"start_time"`
	EndTime          time.Time `json:"end_time" db:"end_time"`

	// Denormalized copies of the owning permit's grants, carried so a
	// permission summary needs no second query.
	Subjects []PermitSubject  `json:"subjects" db:"-"`
	Areas    []PermitAreaSpan `json:"areas" db:"-"`
}
