package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/pkg/clock"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
	"github.com/markushhgo/parkkihubi/internal/usecase"
	"github.com/markushhgo/parkkihubi/internal/usecase/dto"
)

var (
	testDomainID = uuid.MustParse("6f1c1b36-31ba-41f7-9e5c-ab9626cdd74d")
	testNow      = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
)

type checkFixture struct {
	areaRepo         *MockAreaRepository
	parkingRepo      *MockParkingRepository
	permitRepo       *MockPermitRepository
	eventParkingRepo *MockEventParkingRepository
	checkRepo        *MockCheckRepository
	uc               *usecase.CheckUseCase
}

func newCheckFixture() *checkFixture {
	f := &checkFixture{
		areaRepo:         &MockAreaRepository{},
		parkingRepo:      &MockParkingRepository{},
		permitRepo:       &MockPermitRepository{},
		eventParkingRepo: &MockEventParkingRepository{},
		checkRepo:        &MockCheckRepository{},
	}
	f.uc = usecase.NewCheckUseCase(
		f.areaRepo, f.parkingRepo, f.permitRepo, f.eventParkingRepo, f.checkRepo,
		zap.NewNop(), 15*time.Minute, clock.Fixed(testNow),
	)
	return f
}

func (f *checkFixture) expectResolvers(zone *domain.PaymentZone, permitArea *domain.PermitArea, eventArea *domain.EventArea) {
	f.areaRepo.On("ResolveZone", mock.Anything, mock.Anything, testDomainID).Return(zone, nil)
	f.areaRepo.On("ResolvePermitArea", mock.Anything, mock.Anything, testDomainID).Return(permitArea, nil)
	f.areaRepo.On("ResolveEventArea", mock.Anything, mock.Anything, testDomainID, mock.Anything).Return(eventArea, nil)
}

func (f *checkFixture) expectSourcesAt(at time.Time, parkings []*domain.Parking, permits []*domain.PermitLookupItem, eventParkings []*domain.EventParking) {
	f.parkingRepo.On("ActiveParkings", mock.Anything, testDomainID, "ABC123", at).Return(parkings, nil)
	f.permitRepo.On("ActiveLookupItems", mock.Anything, testDomainID, "ABC123", at).Return(permits, nil)
	f.eventParkingRepo.On("ActiveEventParkings", mock.Anything, testDomainID, "ABC123", at).Return(eventParkings, nil)
}

func checkRequest() dto.CheckRequest {
	return dto.CheckRequest{
		RegistrationNumber: "abc-123",
		Location:           dto.CheckLocation{Latitude: 60.17, Longitude: 24.94},
		DomainID:           testDomainID,
		Performer:          "enforcer-1",
	}
}

func TestCheckUseCase_ZoneNesting(t *testing.T) {
	zone1 := &domain.PaymentZone{ID: uuid.New(), Number: 1}
	zone2 := &domain.PaymentZone{ID: uuid.New(), Number: 2}
	end := testNow.Add(time.Hour)

	parkingInZone := func(number int) []*domain.Parking {
		return []*domain.Parking{{
			ID:         uuid.New(),
			ZoneNumber: number,
			TimeStart:  testNow.Add(-time.Hour),
			TimeEnd:    &end,
		}}
	}

	t.Run("parking in inner zone is valid in outer zone", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(zone2, nil, nil)
		f.expectSourcesAt(testNow, parkingInZone(1), nil, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := f.uc.Check(context.Background(), checkRequest())

		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, end, *result.EndTime)
		assert.Equal(t, 2, *result.Location.PaymentZone)
	})

	t.Run("parking in outer zone is not valid in inner zone", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(zone1, nil, nil)
		f.expectSourcesAt(testNow, parkingInZone(2), nil, nil)
		f.expectSourcesAt(testNow.Add(-15*time.Minute), parkingInZone(2), nil, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := f.uc.Check(context.Background(), checkRequest())

		require.NoError(t, err)
		assert.False(t, result.Allowed)
	})

	t.Run("unresolved zone matches any parking", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(nil, nil, nil)
		f.expectSourcesAt(testNow, parkingInZone(3), nil, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := f.uc.Check(context.Background(), checkRequest())

		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Nil(t, result.Location.PaymentZone)
	})
}

func TestCheckUseCase_GraceRetry(t *testing.T) {
	zone := &domain.PaymentZone{ID: uuid.New(), Number: 1}
	expiredEnd := testNow.Add(-10 * time.Minute)
	expired := []*domain.Parking{{
		ID:         uuid.New(),
		ZoneNumber: 1,
		TimeStart:  testNow.Add(-2 * time.Hour),
		TimeEnd:    &expiredEnd,
	}}

	t.Run("just expired parking surfaces its end time but stays denied", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(zone, nil, nil)
		f.expectSourcesAt(testNow, nil, nil, nil)
		f.expectSourcesAt(testNow.Add(-15*time.Minute), expired, nil, nil)

		var recorded *domain.ParkingCheck
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*domain.ParkingCheck)
		}).Return(nil)

		result, err := f.uc.Check(context.Background(), checkRequest())

		require.NoError(t, err)
		assert.False(t, result.Allowed)
		require.NotNil(t, result.EndTime)
		assert.Equal(t, expiredEnd, *result.EndTime)

		// The audit row references the retry's match even though the
		// verdict stayed negative.
		require.NotNil(t, recorded)
		assert.False(t, recorded.Allowed)
		require.NotNil(t, recorded.FoundParkingID)
		assert.Equal(t, expired[0].ID, *recorded.FoundParkingID)
	})

	t.Run("long expired parking yields nothing", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(zone, nil, nil)
		f.expectSourcesAt(testNow, nil, nil, nil)
		f.expectSourcesAt(testNow.Add(-15*time.Minute), nil, nil, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := f.uc.Check(context.Background(), checkRequest())

		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Nil(t, result.EndTime)
	})
}

func TestCheckUseCase_PermitVerdict(t *testing.T) {
	permitArea := &domain.PermitArea{ID: uuid.New(), Identifier: "A"}
	earlyEnd := testNow.Add(30 * time.Minute)
	lateEnd := testNow.Add(2 * time.Hour)

	items := []*domain.PermitLookupItem{
		{ID: uuid.New(), AreaIdentifier: "B", EndTime: testNow.Add(10 * time.Minute)},
		{ID: uuid.New(), AreaIdentifier: "A", EndTime: earlyEnd},
		{ID: uuid.New(), AreaIdentifier: "A", EndTime: lateEnd},
	}

	f := newCheckFixture()
	f.expectResolvers(nil, permitArea, nil)
	f.expectSourcesAt(testNow, nil, items, nil)
	f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.uc.Check(context.Background(), checkRequest())

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	// Items outside the resolved permit area never grant, and among the
	// matching ones the earliest-ending wins.
	require.NotNil(t, result.EndTime)
	assert.Equal(t, earlyEnd, *result.EndTime)
	assert.Equal(t, "A", *result.Location.PermitArea)
}

func TestCheckUseCase_EventParkingVerdict(t *testing.T) {
	areaID := uuid.New()
	otherAreaID := uuid.New()
	eventArea := &domain.EventArea{ID: areaID, TimeStart: testNow.Add(-time.Hour), TimeEnd: testNow.Add(time.Hour)}
	end := testNow.Add(45 * time.Minute)

	t.Run("event parking in the resolved area grants", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(nil, nil, eventArea)
		f.expectSourcesAt(testNow, nil, nil, []*domain.EventParking{
			{ID: uuid.New(), EventAreaID: &otherAreaID, TimeStart: testNow.Add(-time.Hour), TimeEnd: &end},
			{ID: uuid.New(), EventAreaID: &areaID, TimeStart: testNow.Add(-time.Hour), TimeEnd: &end},
		})

		var recorded *domain.ParkingCheck
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*domain.ParkingCheck)
		}).Return(nil)

		result, err := f.uc.Check(context.Background(), checkRequest())

		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, end, *result.EndTime)
		assert.Equal(t, areaID, *result.Location.EventArea)
		require.NotNil(t, recorded.FoundEventParking)
		assert.Nil(t, recorded.FoundParkingID)
	})

	t.Run("event parking without area reference never grants", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(nil, nil, eventArea)
		f.expectSourcesAt(testNow, nil, nil, []*domain.EventParking{
			{ID: uuid.New(), EventAreaID: nil, TimeStart: testNow.Add(-time.Hour), TimeEnd: &end},
		})
		f.expectSourcesAt(testNow.Add(-15*time.Minute), nil, nil, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := f.uc.Check(context.Background(), checkRequest())

		require.NoError(t, err)
		assert.False(t, result.Allowed)
	})
}

func TestCheckUseCase_VerdictPrecedence(t *testing.T) {
	zone := &domain.PaymentZone{ID: uuid.New(), Number: 2}
	permitArea := &domain.PermitArea{ID: uuid.New(), Identifier: "A"}
	parkingEnd := testNow.Add(time.Hour)
	permitEnd := testNow.Add(3 * time.Hour)

	f := newCheckFixture()
	f.expectResolvers(zone, permitArea, nil)
	f.expectSourcesAt(testNow,
		[]*domain.Parking{{ID: uuid.New(), ZoneNumber: 1, TimeStart: testNow.Add(-time.Hour), TimeEnd: &parkingEnd}},
		[]*domain.PermitLookupItem{{ID: uuid.New(), AreaIdentifier: "A", EndTime: permitEnd}},
		nil)
	f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := f.uc.Check(context.Background(), checkRequest())

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	// Paid parking outranks the permit even when the permit lasts longer.
	assert.Equal(t, parkingEnd, *result.EndTime)
}

func TestCheckUseCase_Details(t *testing.T) {
	zone := &domain.PaymentZone{ID: uuid.New(), Number: 1}
	start := testNow.Add(-time.Hour)
	end := testNow.Add(time.Hour)
	parkings := []*domain.Parking{{
		ID:           uuid.New(),
		OperatorName: "ParkCo",
		ZoneNumber:   1,
		TimeStart:    start,
		TimeEnd:      &end,
	}}

	t.Run("operator and time_start filled on allowed match", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(zone, nil, nil)
		f.expectSourcesAt(testNow, parkings, nil, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		req := checkRequest()
		req.Details = []string{"operator", "time_start"}
		result, err := f.uc.Check(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, result.HasOperator)
		assert.Equal(t, "ParkCo", *result.Operator)
		assert.True(t, result.HasTimeStart)
		assert.Equal(t, start, *result.TimeStart)
		assert.False(t, result.HasPermissions)
	})

	t.Run("requested details stay null on denial", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(zone, nil, nil)
		f.expectSourcesAt(testNow, nil, nil, nil)
		f.expectSourcesAt(testNow.Add(-15*time.Minute), parkings, nil, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		req := checkRequest()
		req.Details = []string{"operator", "time_start"}
		result, err := f.uc.Check(context.Background(), req)

		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.True(t, result.HasOperator)
		assert.Nil(t, result.Operator)
		assert.True(t, result.HasTimeStart)
		assert.Nil(t, result.TimeStart)
	})
}

func TestCheckUseCase_Permissions(t *testing.T) {
	areaID := uuid.New()
	end := testNow.Add(time.Hour)
	parkings := []*domain.Parking{
		{ID: uuid.New(), ZoneNumber: 1, TimeStart: testNow.Add(-time.Hour), TimeEnd: &end},
		{ID: uuid.New(), ZoneNumber: 2, TimeStart: testNow.Add(-time.Hour), TimeEnd: &end},
		{ID: uuid.New(), ZoneNumber: 1, TimeStart: testNow.Add(-30 * time.Minute), TimeEnd: &end},
	}
	items := []*domain.PermitLookupItem{
		{ID: uuid.New(), ExternalID: "P-1", AreaIdentifier: "A", EndTime: end},
		{ID: uuid.New(), ExternalID: "P-1", AreaIdentifier: "B", EndTime: end},
	}
	eventParkings := []*domain.EventParking{
		{ID: uuid.New(), EventAreaID: &areaID, TimeStart: testNow.Add(-time.Hour), TimeEnd: &end},
		{ID: uuid.New(), EventAreaID: &areaID, TimeStart: testNow.Add(-30 * time.Minute), TimeEnd: &end},
	}

	t.Run("zones and event areas dedupe, permits repeat per item", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(nil, nil, nil)
		f.expectSourcesAt(testNow, parkings, items, eventParkings)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		req := checkRequest()
		req.Details = []string{"permissions"}
		result, err := f.uc.Check(context.Background(), req)

		require.NoError(t, err)
		require.True(t, result.HasPermissions)
		assert.Equal(t, []int{1, 2}, result.Permissions.Zones)
		assert.Len(t, result.Permissions.Permits, 2)
		assert.Equal(t, []uuid.UUID{areaID}, result.Permissions.EventAreas)
	})

	t.Run("empty summary has empty slices, not nulls", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(nil, nil, nil)
		f.expectSourcesAt(testNow, nil, nil, nil)
		f.expectSourcesAt(testNow.Add(-15*time.Minute), nil, nil, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		req := checkRequest()
		req.Details = []string{"permissions"}
		result, err := f.uc.Check(context.Background(), req)

		require.NoError(t, err)
		require.True(t, result.HasPermissions)
		assert.NotNil(t, result.Permissions.Zones)
		assert.NotNil(t, result.Permissions.Permits)
		assert.NotNil(t, result.Permissions.EventAreas)
		assert.Empty(t, result.Permissions.Zones)
	})
}

func TestCheckUseCase_Audit(t *testing.T) {
	t.Run("time override is recorded", func(t *testing.T) {
		overridden := testNow.Add(-24 * time.Hour)

		f := newCheckFixture()
		f.expectResolvers(nil, nil, nil)
		f.expectSourcesAt(overridden, nil, nil, nil)
		f.expectSourcesAt(overridden.Add(-15*time.Minute), nil, nil, nil)

		var recorded *domain.ParkingCheck
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*domain.ParkingCheck)
		}).Return(nil)

		req := checkRequest()
		req.Time = &overridden
		_, err := f.uc.Check(context.Background(), req)

		require.NoError(t, err)
		require.NotNil(t, recorded)
		assert.True(t, recorded.TimeOverridden)
		assert.Equal(t, overridden, recorded.Time)
		assert.Equal(t, "abc-123", recorded.RegistrationNumber)
		assert.Equal(t, "enforcer-1", recorded.Performer)
	})

	t.Run("audit failure fails the check", func(t *testing.T) {
		f := newCheckFixture()
		f.expectResolvers(nil, nil, nil)
		f.expectSourcesAt(testNow, nil, nil, nil)
		f.expectSourcesAt(testNow.Add(-15*time.Minute), nil, nil, nil)
		f.checkRepo.On("Create", mock.Anything, mock.Anything).Return(errors.ErrDatabaseError)

		result, err := f.uc.Check(context.Background(), checkRequest())

		assert.Nil(t, result)
		assert.Equal(t, errors.ErrDatabaseError, err)
	})
}
