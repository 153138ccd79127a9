package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fieldwork/internal/adapters/out/postgres/jobrepo"
	"fieldwork/internal/core/application/usecases/queries"
	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// QueryHandlersTestSuite exercises the read-model handlers against a real
// PostgreSQL instance sharing one container across the query package.
type QueryHandlersTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *jobrepo.GormJobRepository
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&jobrepo.JobDTO{}))
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE jobs").Error)

	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = jobrepo.NewGormJobRepository(suite.db, tracker)
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueryHandlersTestSuite) saveJob(
	workerID kernel.UUID,
	numberValue int,
	sequence *int,
	zipCode string,
	date time.Time,
) *job.Job {
	number, err := job.NewNumber(numberValue)
	suite.Require().NoError(err)

	address, err := job.NewAddress("10 Main St", "Springfield", "IL", zipCode, "USA")
	suite.Require().NoError(err)

	aggregate, err := job.NewJob(
		kernel.NewUUID(),
		&number,
		job.TypeElectricity,
		job.PriorityMedium,
		address,
		nil,
		workerID,
		date,
		sequence,
		"",
	)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(context.Background(), aggregate))
	return aggregate
}

func (suite *QueryHandlersTestSuite) completeJob(
	aggregate *job.Job,
	distanceKm float64,
	noAccess bool,
) {
	evidence := job.Evidence{DistanceTraveled: &distanceKm}
	score := job.Score{Points: 1.0, Award: 5.00}
	if noAccess {
		evidence.NoAccessReason = "locked_gate"
		score = job.Score{Points: 0.5, Award: 2.50, ValidNoAccess: true}
	} else {
		evidence.RegisterValues = []string{"48213"}
	}

	suite.Require().NoError(aggregate.Complete(
		aggregate.AssignedWorker(), false, evidence, score, time.Now()))
	suite.Require().NoError(suite.repository.Update(context.Background(), aggregate))
}

func (suite *QueryHandlersTestSuite) date(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}

func (suite *QueryHandlersTestSuite) TestGetWorkerRoute_OrdersBySequenceThenZip() {
	workerID := kernel.NewUUID()
	seq2, seq1 := 2, 1

	suite.saveJob(workerID, 102, &seq2, "62702", suite.date(2))
	suite.saveJob(workerID, 101, &seq1, "62701", suite.date(2))
	suite.saveJob(workerID, 104, nil, "62799", suite.date(2))
	suite.saveJob(workerID, 103, nil, "62703", suite.date(2))
	// Another day stays out of the route.
	suite.saveJob(workerID, 105, &seq1, "62701", suite.date(3))

	query, err := queries.NewGetWorkerRouteQuery(workerID, suite.date(2))
	suite.Require().NoError(err)

	handler := queries.NewGetWorkerRouteQueryHandler(suite.db)
	stops, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Require().Len(stops, 4)
	suite.Equal("000101", stops[0].Number)
	suite.Equal("000102", stops[1].Number)
	suite.Equal("000103", stops[2].Number)
	suite.Equal("000104", stops[3].Number)
	suite.Require().NotNil(stops[0].Sequence)
	suite.Equal(1, *stops[0].Sequence)
	suite.Nil(stops[2].Sequence)
	suite.Equal("pending", stops[0].Status)
	suite.Equal("62703", stops[2].ZipCode)
}

func (suite *QueryHandlersTestSuite) TestGetWorkerRoute_EmptyDay_ReturnsEmptySlice() {
	query, err := queries.NewGetWorkerRouteQuery(kernel.NewUUID(), suite.date(2))
	suite.Require().NoError(err)

	handler := queries.NewGetWorkerRouteQueryHandler(suite.db)
	stops, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.NotNil(stops)
	suite.Empty(stops)
}

func (suite *QueryHandlersTestSuite) TestWageReport_DefaultRates() {
	workerID := kernel.NewUUID()
	seq1, seq2, seq3 := 1, 2, 3

	reading := suite.saveJob(workerID, 201, &seq1, "62701", suite.date(2))
	noAccess := suite.saveJob(workerID, 202, &seq2, "62702", suite.date(3))
	suite.saveJob(workerID, 203, &seq3, "62703", suite.date(4)) // stays pending

	suite.completeJob(reading, 4.0, false)
	suite.completeJob(noAccess, 6.0, true)

	// Completed but outside the range: filtered at the query boundary.
	outside := suite.saveJob(workerID, 204, &seq1, "62704", suite.date(20))
	suite.completeJob(outside, 50.0, false)

	query, err := queries.NewWageReportQuery(workerID, suite.date(1), suite.date(7), 0, 0)
	suite.Require().NoError(err)

	handler := queries.NewWageReportQueryHandler(suite.db)
	report, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal(2, report.CompletedJobs)
	suite.Equal(1, report.ValidNoAccessJobs)
	suite.InDelta(1.5, report.TotalPoints, 1e-9)
	suite.InDelta(7.50, report.TotalAwards, 1e-9)
	suite.InDelta(10.0, report.TotalDistanceKm, 1e-9)
	// 10 km * 0.50 + 2 jobs * 2.00
	suite.InDelta(9.0, report.Wage, 1e-9)
}

func (suite *QueryHandlersTestSuite) TestWageReport_NoJobs_ZeroTotals() {
	query, err := queries.NewWageReportQuery(
		kernel.NewUUID(), suite.date(1), suite.date(7), 0, 0)
	suite.Require().NoError(err)

	handler := queries.NewWageReportQueryHandler(suite.db)
	report, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal(0, report.CompletedJobs)
	suite.InDelta(0, report.Wage, 0)
}

func (suite *QueryHandlersTestSuite) TestMileageReport_GroupsByDay() {
	workerID := kernel.NewUUID()
	seq1, seq2 := 1, 2

	dayOneA := suite.saveJob(workerID, 301, &seq1, "62701", suite.date(2))
	dayOneB := suite.saveJob(workerID, 302, &seq2, "62702", suite.date(2))
	dayTwo := suite.saveJob(workerID, 303, &seq1, "62703", suite.date(3))

	suite.completeJob(dayOneA, 4.0, false)
	suite.completeJob(dayOneB, 6.0, true)
	suite.completeJob(dayTwo, 5.0, false)

	query, err := queries.NewMileageReportQuery(workerID, suite.date(1), suite.date(7), 0)
	suite.Require().NoError(err)

	handler := queries.NewMileageReportQueryHandler(suite.db)
	report, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Require().Len(report.Days, 2)
	suite.Equal(suite.date(2), report.Days[0].Date.UTC())
	suite.InDelta(10.0, report.Days[0].DistanceKm, 1e-9)
	suite.InDelta(5.0, report.Days[1].DistanceKm, 1e-9)
	suite.InDelta(15.0, report.TotalDistanceKm, 1e-9)
	suite.InDelta(kernel.KilometersToMiles(15.0), report.TotalMiles, 1e-9)
	suite.InDelta(kernel.KilometersToMiles(15.0)*queries.DefaultPayoutRatePerMile,
		report.Payment, 1e-9)
}

func (suite *QueryHandlersTestSuite) TestMileageReport_NoJobs_ZeroTotals() {
	query, err := queries.NewMileageReportQuery(
		kernel.NewUUID(), suite.date(1), suite.date(7), 0)
	suite.Require().NoError(err)

	handler := queries.NewMileageReportQueryHandler(suite.db)
	report, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Empty(report.Days)
	suite.InDelta(0, report.Payment, 0)
}

func TestQueryHandlersTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(QueryHandlersTestSuite))
}
