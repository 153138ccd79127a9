package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldwork/internal/core/application/usecases/commands"
	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/core/domain/model/worker"
	"fieldwork/internal/core/domain/services"
	"fieldwork/internal/core/ports"
	"fieldwork/internal/pkg/errs"
)

func testWorker(t *testing.T, id kernel.UUID) *worker.Worker {
	t.Helper()

	w, err := worker.NewWorker(id, "Pat Reed", "field")
	require.NoError(t, err)

	return w
}

func TestCompleteJobCommandHandler_Handle_FullReading(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	aggregate := restoreJob(t, workerID, 10, 1, job.InProgress)
	assignedWorker := testWorker(t, workerID)

	evidence := job.Evidence{RegisterValues: []string{"48213"}}
	cmd, _ := commands.NewCompleteJobCommand(aggregate.ID(), workerID, false, evidence)

	repo := new(MockJobRepository)
	workerRepo := new(MockWorkerRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("GetFirstBlocking", mock.Anything, workerID, aggregate.ScheduledDate(), 1,
			[]job.Status{job.Pending, job.InProgress}).Return(nil, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		workerRepo.On("Get", mock.Anything, workerID).Return(assignedWorker, nil).Once(),
		repo.On("CountCompletionWindow", mock.Anything, workerID, aggregate.ScheduledDate()).
			Return(3, 4, nil).Once(),
		workerRepo.On("Update", mock.Anything, assignedWorker).Return(nil).Once(),
		repo.On("CountOutstanding", mock.Anything, workerID, aggregate.ScheduledDate()).
			Return(2, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)

	h := commands.NewCompleteJobCommandHandler(factory, notifier)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, job.Completed, aggregate.Status())
	assert.InDelta(t, services.PointsFullReading, aggregate.Points(), 1e-9)
	assert.InDelta(t, services.AwardFullReading, aggregate.Award(), 1e-9)
	assert.False(t, aggregate.ValidNoAccess())
	assert.NotNil(t, aggregate.CompletedDate())
	assert.Equal(t, 75, assignedWorker.CompletionRate())

	// Two jobs still outstanding: no day summary yet.
	notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	workerRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteJobCommandHandler_Handle_LastJobPublishesDaySummary(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	aggregate := restoreJob(t, workerID, 11, 3, job.InProgress)
	assignedWorker := testWorker(t, workerID)

	evidence := job.Evidence{NoAccessReason: "locked_gate"}
	cmd, _ := commands.NewCompleteJobCommand(aggregate.ID(), workerID, false, evidence)

	repo := new(MockJobRepository)
	workerRepo := new(MockWorkerRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("GetFirstBlocking", mock.Anything, workerID, aggregate.ScheduledDate(), 3,
			[]job.Status{job.Pending, job.InProgress}).Return(nil, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		workerRepo.On("Get", mock.Anything, workerID).Return(assignedWorker, nil).Once(),
		repo.On("CountCompletionWindow", mock.Anything, workerID, aggregate.ScheduledDate()).
			Return(4, 4, nil).Once(),
		workerRepo.On("Update", mock.Anything, assignedWorker).Return(nil).Once(),
		repo.On("CountOutstanding", mock.Anything, workerID, aggregate.ScheduledDate()).
			Return(0, nil).Once(),
		repo.On("GetDaySummary", mock.Anything, workerID, aggregate.ScheduledDate()).
			Return(ports.DaySummary{
				CompletedJobs:    4,
				JobsWithEvidence: 3,
				NoAccessJobs:     1,
				TotalPoints:      3.5,
				TotalAwards:      17.50,
				TotalDistanceKm:  12.4,
			}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Publish", mock.Anything, ports.TopicDaySummary,
		mock.MatchedBy(func(payload commands.DaySummaryPayload) bool {
			return payload.WorkerID == workerID.String() &&
				payload.CompletedJobs == 4 &&
				payload.NoAccessJobs == 1 &&
				payload.TotalPoints == 3.5
		})).Once()

	h := commands.NewCompleteJobCommandHandler(factory, notifier)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, aggregate.ValidNoAccess())
	assert.InDelta(t, services.PointsValidNoAccess, aggregate.Points(), 1e-9)
	assert.InDelta(t, services.AwardValidNoAccess, aggregate.Award(), 1e-9)
	notifier.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCompleteJobCommandHandler_Handle_BlockedByEarlierJob(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	aggregate := restoreJob(t, workerID, 12, 2, job.Pending)
	blocking := restoreJob(t, workerID, 9, 1, job.InProgress)

	cmd, _ := commands.NewCompleteJobCommand(aggregate.ID(), workerID, false, job.Evidence{})

	repo := new(MockJobRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		uow.On("WorkerRepository").Return(new(MockWorkerRepository)).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("GetFirstBlocking", mock.Anything, workerID, aggregate.ScheduledDate(), 2,
			[]job.Status{job.Pending, job.InProgress}).Return(blocking, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCompleteJobCommandHandler(factory, new(MockNotifier))
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrSequencingViolation)

	var violation *errs.SequencingViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "000009", violation.BlockingNumber)
	assert.Equal(t, 1, violation.BlockingSequence)
}

func TestCompleteJobCommandHandler_Handle_MissingWorkerIsTolerated(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	aggregate := restoreJob(t, workerID, 13, 1, job.Pending)

	cmd, _ := commands.NewCompleteJobCommand(aggregate.ID(), workerID, false,
		job.Evidence{RegisterValues: []string{"700"}})

	repo := new(MockJobRepository)
	workerRepo := new(MockWorkerRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("GetFirstBlocking", mock.Anything, workerID, aggregate.ScheduledDate(), 1,
			[]job.Status{job.Pending, job.InProgress}).Return(nil, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		workerRepo.On("Get", mock.Anything, workerID).
			Return(nil, errs.NewObjectNotFoundError("worker", workerID)).Once(),
		repo.On("CountOutstanding", mock.Anything, workerID, aggregate.ScheduledDate()).
			Return(1, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCompleteJobCommandHandler(factory, new(MockNotifier))
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, job.Completed, aggregate.Status())
}

func TestCompleteJobCommandHandler_Handle_WrongWorker(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	// Sequence 2 with stop 1 still pending: the actor error must win over
	// the ordering guard so strangers learn nothing about the route.
	aggregate := restoreJob(t, workerID, 15, 2, job.Pending)

	cmd, _ := commands.NewCompleteJobCommand(aggregate.ID(), kernel.NewUUID(), false, job.Evidence{})

	repo := new(MockJobRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		uow.On("WorkerRepository").Return(new(MockWorkerRepository)).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCompleteJobCommandHandler(factory, new(MockNotifier))
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, job.ErrActorNotAllowed)
	require.NotErrorIs(t, err, errs.ErrSequencingViolation)
	repo.AssertNotCalled(t, "GetFirstBlocking",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteJobCommandHandler_Handle_AlreadyCompleted(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	aggregate := restoreJob(t, workerID, 14, 1, job.Completed)

	cmd, _ := commands.NewCompleteJobCommand(aggregate.ID(), workerID, false, job.Evidence{})

	repo := new(MockJobRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		uow.On("WorkerRepository").Return(new(MockWorkerRepository)).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)

	h := commands.NewCompleteJobCommandHandler(factory, notifier)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "GetFirstBlocking",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
