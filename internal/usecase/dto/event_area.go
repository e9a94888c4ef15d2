package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventAreaRequest carries one event area definition, geometry as raw
// GeoJSON in WGS84.
type EventAreaRequest struct {
	ID                   *uuid.UUID       `json:"id"`
	TimeStart            time.Time        `json:"time_start" validate:"required"`
	TimeEnd              time.Time        `json:"time_end" validate:"required"`
	Geometry             json.RawMessage  `json:"geometry" validate:"required"`
	Price                *decimal.Decimal `json:"price"`
	PriceUnitLength      *int             `json:"price_unit_length"`
	TimePeriodTimeStart  *string          `json:"time_period_time_start"`
	TimePeriodTimeEnd    *string          `json:"time_period_time_end"`
	TimePeriodDaysOfWeek []int64          `json:"time_period_days_of_week"`
	BusStopNumbers       []int64          `json:"bus_stop_numbers"`
	Description          *string          `json:"description"`
	IsTestEventArea      bool             `json:"is_test_event_area"`

	DomainID uuid.UUID `json:"-"`
}
