package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventArea is a temporary parking area with its own pricing, active
// between TimeStart and TimeEnd and optionally only within a weekly
// recurrence window (time of day plus ISO weekdays).
type EventArea struct {
	ID       uuid.UUID `json:"id" db:"id"`
	DomainID uuid.UUID `json:"domain_id" db:"domain_id"`

	TimeStart time.Time `json:"time_start" db:"time_start"`
	TimeEnd   time.Time `json:"time_end" db:"time_end"`

	// Price per billable unit and the unit length in hours. Either both
	// are set or neither; without them the area is not chargeable.
	Price           *decimal.Decimal `json:"price,omitempty" db:"price"`
	PriceUnitLength *int             `json:"price_unit_length,omitempty" db:"price_unit_length"`

	// Weekly recurrence window, "15:04:05" wall-clock strings and ISO
	// weekdays (1 = Monday .. 7 = Sunday). All three are set together.
	TimePeriodTimeStart  *string `json:"time_period_time_start,omitempty" db:"time_period_time_start"`
	TimePeriodTimeEnd    *string `json:"time_period_time_end,omitempty" db:"time_period_time_end"`
	TimePeriodDaysOfWeek []int64 `json:"time_period_days_of_week,omitempty" db:"-"`

	BusStopNumbers []int64 `json:"bus_stop_numbers,omitempty" db:"-"`
	Description    *string `json:"description,omitempty" db:"description"`

	// Test areas are ignored in statistics retention: deleting a test
	// area cascades to its statistics row.
	IsTestEventArea bool `json:"is_test_event_area" db:"is_test_event_area"`
}

// ISOWeekday maps time.Weekday onto ISO-8601 numbering (Monday=1 .. Sunday=7).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsActive reports whether the area is active at the given instant:
// inside the event window and, when a recurrence window is configured,
// inside the time-of-day window on an allowed weekday.
func (a *EventArea) IsActive(at time.Time) bool {
	active := !a.TimeStart.After(at) && !a.TimeEnd.Before(at)
	if a.TimePeriodTimeStart != nil && a.TimePeriodTimeEnd != nil {
		periodStart, err1 := minutesOfDay(*a.TimePeriodTimeStart)
		periodEnd, err2 := minutesOfDay(*a.TimePeriodTimeEnd)
		if err1 != nil || err2 != nil {
			return false
		}
		now := at.Hour()*60 + at.Minute()
		inPeriod := periodStart <= now && now <= periodEnd && containsInt64(a.TimePeriodDaysOfWeek, int64(ISOWeekday(at)))
		active = active && inPeriod
	}
	return active
}

// Validate enforces the time-period and pricing rules before save.
func (a *EventArea) Validate() error {
	hasPeriod := a.TimePeriodTimeStart != nil || a.TimePeriodTimeEnd != nil || len(a.TimePeriodDaysOfWeek) > 0

	if hasPeriod &&
		!(a.TimePeriodTimeStart != nil && a.TimePeriodTimeEnd != nil && len(a.TimePeriodDaysOfWeek) > 0) {
		return fmt.Errorf(`provide "start time", "end time" and "days of week" for the time period`)
	}

	if a.TimeStart.After(a.TimeEnd) {
		return fmt.Errorf(`"time_start" cannot be after "time_end"`)
	}

	var periodStart, periodEnd int
	if a.TimePeriodTimeStart != nil && a.TimePeriodTimeEnd != nil {
		var err error
		if periodStart, err = minutesOfDay(*a.TimePeriodTimeStart); err != nil {
			return fmt.Errorf("invalid time period start: %w", err)
		}
		if periodEnd, err = minutesOfDay(*a.TimePeriodTimeEnd); err != nil {
			return fmt.Errorf("invalid time period end: %w", err)
		}
		if periodStart > periodEnd {
			return fmt.Errorf(`"time_period_time_start" cannot be after "time_period_time_end"`)
		}
	}

	if (a.Price == nil) != (a.PriceUnitLength == nil) {
		return fmt.Errorf(`if chargeable, both "price" and "price unit length" must be set`)
	}

	if a.Price != nil && a.Price.IsNegative() {
		return fmt.Errorf(`"price" cannot be negative`)
	}

	// A recurrence window shorter than the price unit would make the
	// unit length unreachable.
	if a.PriceUnitLength != nil && hasPeriod {
		if (periodEnd-periodStart)/60 < *a.PriceUnitLength {
			return fmt.Errorf(`time period is shorter than "price unit length"`)
		}
	}

	return nil
}

func minutesOfDay(s string) (int, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid wall-clock time %q", s)
}

func containsInt64(values []int64, v int64) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// EventAreaStatistics accumulates historical usage totals for one event
// area. The back-reference is nullable: it survives deletion of a real
// area and only cascades for test areas.
type EventAreaStatistics struct {
	ID                  uuid.UUID       `json:"id" db:"id"`
	EventAreaID         *uuid.UUID      `json:"event_area_id" db:"event_area_id"`
	TotalParkingCount   int             `json:"total_parking_count" db:"total_parking_count"`
	TotalParkingCharges int             `json:"total_parking_charges" db:"total_parking_charges"`
	TotalParkingIncome  decimal.Decimal `json:"total_parking_income" db:"total_parking_income"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	ModifiedAt          time.Time       `json:"modified_at" db:"modified_at"`
}
