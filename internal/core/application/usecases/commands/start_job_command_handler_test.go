package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldwork/internal/core/application/usecases/commands"
	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/errs"
)

func TestStartJobCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	aggregate := restoreJob(t, workerID, 2, 2, job.Pending)

	cmd, _ := commands.NewStartJobCommand(aggregate.ID(), workerID, false, nil)

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("GetFirstBlocking", mock.Anything, workerID, aggregate.ScheduledDate(), 2,
			[]job.Status{job.Pending}).Return(nil, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, job.InProgress, aggregate.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestStartJobCommandHandler_Handle_BlockedByEarlierPendingJob(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	aggregate := restoreJob(t, workerID, 7, 2, job.Pending)
	blocking := restoreJob(t, workerID, 6, 1, job.Pending)

	cmd, _ := commands.NewStartJobCommand(aggregate.ID(), workerID, false, nil)

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("GetFirstBlocking", mock.Anything, workerID, aggregate.ScheduledDate(), 2,
			[]job.Status{job.Pending}).Return(blocking, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrSequencingViolation)

	var violation *errs.SequencingViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "000006", violation.BlockingNumber)
	assert.Equal(t, 1, violation.BlockingSequence)
	assert.Equal(t, job.Pending, aggregate.Status())
}

func TestStartJobCommandHandler_Handle_AdminOverrideSkipsOrderGuard(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	aggregate := restoreJob(t, workerID, 7, 2, job.Pending)

	cmd, _ := commands.NewStartJobCommand(aggregate.ID(), kernel.UUID{}, true, nil)

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "GetFirstBlocking", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStartJobCommandHandler_Handle_WrongWorker(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	// Sequence 2 with stop 1 still pending: the actor error must win over
	// the ordering guard so strangers learn nothing about the route.
	aggregate := restoreJob(t, workerID, 7, 2, job.Pending)

	cmd, _ := commands.NewStartJobCommand(aggregate.ID(), kernel.NewUUID(), false, nil)

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, job.ErrActorNotAllowed)
	require.NotErrorIs(t, err, errs.ErrSequencingViolation)
	repo.AssertNotCalled(t, "GetFirstBlocking",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStartJobCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewStartJobCommand(kernel.NewUUID(), kernel.NewUUID(), false, nil)

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, cmd.JobID()).
			Return(nil, errs.NewObjectNotFoundError("job", cmd.JobID())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestStartJobCommandHandler_Handle_AlreadyCompleted(t *testing.T) {
	ctx := t.Context()
	workerID := kernel.NewUUID()
	aggregate := restoreJob(t, workerID, 3, 1, job.Completed)

	cmd, _ := commands.NewStartJobCommand(aggregate.ID(), workerID, false, nil)

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	repo.AssertNotCalled(t, "GetFirstBlocking",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
