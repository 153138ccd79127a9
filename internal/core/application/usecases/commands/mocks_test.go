package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldwork/internal/core/application/usecases/commands"
	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/core/domain/model/worker"
	"fieldwork/internal/core/ports"
)

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) AddBatch(ctx context.Context, aggregates []*job.Job) error {
	args := m.Called(ctx, aggregates)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) Remove(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepository) GetFirstBlocking(
	ctx context.Context,
	workerID kernel.UUID,
	date time.Time,
	beforeSequence int,
	statuses []job.Status,
) (*job.Job, error) {
	args := m.Called(ctx, workerID, date, beforeSequence, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) GetMaxNumber(ctx context.Context) (*job.Number, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Number), args.Error(1)
}

func (m *MockJobRepository) CountOutstanding(ctx context.Context, workerID kernel.UUID, date time.Time) (int, error) {
	args := m.Called(ctx, workerID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockJobRepository) GetDaySummary(
	ctx context.Context,
	workerID kernel.UUID,
	date time.Time,
) (ports.DaySummary, error) {
	args := m.Called(ctx, workerID, date)
	return args.Get(0).(ports.DaySummary), args.Error(1)
}

func (m *MockJobRepository) CountCompletionWindow(
	ctx context.Context,
	workerID kernel.UUID,
	date time.Time,
) (int, int, error) {
	args := m.Called(ctx, workerID, date)
	return args.Int(0), args.Int(1), args.Error(2)
}

type MockWorkerRepository struct{ mock.Mock }

func (m *MockWorkerRepository) Add(ctx context.Context, aggregate *worker.Worker) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockWorkerRepository) Update(ctx context.Context, aggregate *worker.Worker) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockWorkerRepository) Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*worker.Worker), args.Error(1)
}

func (m *MockWorkerRepository) GetAllAssignable(_ context.Context) ([]*worker.Worker, error) {
	return nil, errors.New("not implemented in mock")
}

type MockJobUoW struct{ mock.Mock }

func (m *MockJobUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

type MockJobUoWFactory struct{ mock.Mock }

func (m *MockJobUoWFactory) Create() commands.JobUoW {
	args := m.Called()
	return args.Get(0).(commands.JobUoW)
}

type MockWorkerUoW struct{ mock.Mock }

func (m *MockWorkerUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkerUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkerUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkerUoW) WorkerRepository() ports.WorkerRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkerRepository)
}

type MockWorkerUoWFactory struct{ mock.Mock }

func (m *MockWorkerUoWFactory) Create() commands.WorkerUoW {
	args := m.Called()
	return args.Get(0).(commands.WorkerUoW)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

func (m *MockUoW) WorkerRepository() ports.WorkerRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkerRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Geocode(ctx context.Context, address job.Address) (*ports.GeocodedLocation, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.GeocodedLocation), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Publish(ctx context.Context, topic string, payload any) {
	m.Called(ctx, topic, payload)
}

func testAddress(t *testing.T) job.Address {
	t.Helper()

	address, err := job.NewAddress("10 Main St", "Springfield", "IL", "62701", "USA")
	require.NoError(t, err)

	return address
}

func testDate() time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

// restoreJob builds a persisted-looking job in the given status with the
// given sequence slot.
func restoreJob(
	t *testing.T,
	workerID kernel.UUID,
	numberValue int,
	sequence int,
	status job.Status,
) *job.Job {
	t.Helper()

	number, err := job.NewNumber(numberValue)
	require.NoError(t, err)

	aggregate, err := job.RestoreJob(
		kernel.NewUUID(),
		&number,
		job.TypeElectricity,
		job.PriorityMedium,
		testAddress(t),
		nil,
		workerID,
		testDate(),
		&sequence,
		status,
		"",
		nil,
		nil,
		nil,
		nil,
		job.Score{},
		nil,
	)
	require.NoError(t, err)

	return aggregate
}
