package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReprocessFailedOrdersCommandHandler_Handle_RecoversOrders(t *testing.T) {
	ctx := t.Context()
	first := fixtureOrderInStatus(t, order.Failed)
	second := fixtureOrderInStatus(t, order.Failed)
	cmd := commands.NewReprocessFailedOrdersCommand()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetStuckSince", mock.Anything, []order.Status{order.Failed, order.Pending}, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{first, second}, nil).Once()
	orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Twice()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	enqueuer := new(MockEnqueuer)
	enqueuer.On("Enqueue", mock.Anything, commands.QueueOrderProcessing, commands.JobTypeProcessOrder,
		mock.AnythingOfType("commands.ProcessOrderPayload")).
		Return(&queue.Job{}, nil).Twice()

	h := commands.NewReprocessFailedOrdersCommandHandler(factory, enqueuer, 30*time.Minute)
	require.NoError(t, h.Handle(ctx, cmd))

	// Recovered orders are Pending again with no supplier, so routing
	// starts from scratch and may pick someone else.
	assert.Equal(t, order.Pending, first.Status())
	assert.Nil(t, first.Supplier())
	assert.Equal(t, order.Pending, second.Status())
	enqueuer.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestReprocessFailedOrdersCommandHandler_Handle_NothingToRecover(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewReprocessFailedOrdersCommand()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetStuckSince", mock.Anything, []order.Status{order.Failed, order.Pending}, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{}, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	enqueuer := new(MockEnqueuer)

	h := commands.NewReprocessFailedOrdersCommandHandler(factory, enqueuer, 30*time.Minute)
	require.NoError(t, h.Handle(ctx, cmd))
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	enqueuer.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReprocessFailedOrdersCommandHandler_Handle_RequeuesStalledPendingOrders(t *testing.T) {
	ctx := t.Context()
	unrouted := fixtureOrder(t)
	routed := fixtureOrder(t)
	require.NoError(t, routed.AssignSupplier(kernel.NewUUID()))
	cmd := commands.NewReprocessFailedOrdersCommand()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetStuckSince", mock.Anything, []order.Status{order.Failed, order.Pending}, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{unrouted, routed}, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	// Only the unassigned order is routed again; the assigned one is the
	// dispatch queue's problem, not the router's.
	enqueuer := new(MockEnqueuer)
	enqueuer.On("Enqueue", mock.Anything, commands.QueueOrderProcessing, commands.JobTypeProcessOrder,
		commands.ProcessOrderPayload{
			OrderID:         unrouted.ID().String(),
			ExternalOrderID: unrouted.ExternalOrderID(),
			CustomerID:      unrouted.CustomerID().String(),
		}).
		Return(&queue.Job{}, nil).Once()

	h := commands.NewReprocessFailedOrdersCommandHandler(factory, enqueuer, 30*time.Minute)
	require.NoError(t, h.Handle(ctx, cmd))

	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	enqueuer.AssertExpectations(t)
}
