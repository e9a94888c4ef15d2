package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrNaiveTimestamp = New(
		"NAIVE_TIMESTAMP",
		"Timestamp must carry an explicit UTC offset",
		http.StatusBadRequest,
	)

	ErrInvalidRegistrationNumber = New(
		"INVALID_REGISTRATION_NUMBER",
		"Registration number is blank or too long",
		http.StatusBadRequest,
	)

	ErrInvalidTimeRange = New(
		"INVALID_TIME_RANGE",
		"Start time cannot be after end time",
		http.StatusBadRequest,
	)

	ErrEventAreaNotFound = New(
		"EVENT_AREA_NOT_FOUND",
		"Event area not found",
		http.StatusNotFound,
	)

	ErrEventParkingNotFound = New(
		"EVENT_PARKING_NOT_FOUND",
		"Event parking not found",
		http.StatusNotFound,
	)

	ErrStatisticsNotFound = New(
		"STATISTICS_NOT_FOUND",
		"Statistics not found for event area",
		http.StatusNotFound,
	)

	ErrForbiddenDomain = New(
		"FORBIDDEN_DOMAIN",
		"Caller is not an enforcer for the requested domain",
		http.StatusForbidden,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
