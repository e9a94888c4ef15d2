package repository

import (
	"context"

	"github.com/markushhgo/parkkihubi/internal/domain"
)

// CheckRepository is the audit trail: insert-only, one immutable row
// per performed check. There are deliberately no update or delete
// methods.
type CheckRepository interface {
	Create(ctx context.Context, check *domain.ParkingCheck) error
}
