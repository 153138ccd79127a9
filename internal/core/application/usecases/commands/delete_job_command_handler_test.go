package commands_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldwork/internal/core/application/usecases/commands"
	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
)

func TestDeleteJobCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := restoreJob(t, kernel.NewUUID(), 30, 1, job.Pending)

	cmd, _ := commands.NewDeleteJobCommand(aggregate.ID())

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Remove", mock.Anything, aggregate.ID()).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeleteJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteJobCommandHandler_Handle_CompletedJobIsProtected(t *testing.T) {
	ctx := t.Context()
	aggregate := restoreJob(t, kernel.NewUUID(), 31, 1, job.Completed)

	cmd, _ := commands.NewDeleteJobCommand(aggregate.ID())

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

	h := commands.NewDeleteJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrJobAlreadyCompleted)
	repo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}
