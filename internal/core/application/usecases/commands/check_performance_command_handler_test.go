package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/queue"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// checkPerformanceHarness wires the handler against mock repositories. The
// order lists and comm-log counts parameterize the computed rates.
type checkPerformanceHarness struct {
	handler   commands.CheckPerformanceCommandHandler
	orderRepo *MockOrderRepository
	commLog   *MockCommunicationLogRepository
	alerts    *MockAlertNotifier
}

func newCheckPerformanceHarness(
	t *testing.T,
	stats queue.StatsReader,
	thresholds commands.PerformanceThresholds,
	delivered, failed, late []*order.Order,
	succeededCalls, failedCalls int64,
) *checkPerformanceHarness {
	t.Helper()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetAllInStatus", mock.Anything, order.Delivered).Return(delivered, nil).Once()
	orderRepo.On("GetAllInStatus", mock.Anything, order.Failed).Return(failed, nil).Once()
	orderRepo.On("GetStuckSince", mock.Anything,
		[]order.Status{order.SentToSupplier, order.Processing, order.Shipped}, mock.Anything).
		Return(late, nil).Once()

	commLog := new(MockCommunicationLogRepository)
	commLog.On("CountOutcomes", mock.Anything, mock.Anything).
		Return(succeededCalls, failedCalls, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CommunicationLogRepository").Return(commLog)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	alerts := new(MockAlertNotifier)

	handler := commands.NewCheckPerformanceCommandHandler(factory, stats, alerts, thresholds,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &checkPerformanceHarness{
		handler:   handler,
		orderRepo: orderRepo,
		commLog:   commLog,
		alerts:    alerts,
	}
}

func healthyThresholds() commands.PerformanceThresholds {
	return commands.PerformanceThresholds{
		MaxWaitingJobs:        100,
		MaxFailedJobs:         10,
		MinOnTimeDeliveryRate: 0.95,
		MinSendSuccessRate:    0.90,
		DeliveryWindow:        24 * time.Hour,
		ObservationWindow:     24 * time.Hour,
	}
}

func TestCheckPerformanceCommandHandler_Handle_Healthy(t *testing.T) {
	ctx := t.Context()
	store := queue.NewMemStore()
	fabric := queue.New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := fabric.Enqueue(ctx, commands.QueueOrderProcessing, commands.JobTypeProcessOrder, nil)
	require.NoError(t, err)

	delivered := []*order.Order{
		fixtureOrderInStatus(t, order.Delivered),
		fixtureOrderInStatus(t, order.Delivered),
	}
	h := newCheckPerformanceHarness(t, fabric, healthyThresholds(),
		delivered, nil, nil, 19, 1)

	require.NoError(t, h.handler.Handle(ctx, commands.NewCheckPerformanceCommand()))

	h.alerts.AssertNotCalled(t, "OperationsAlert", mock.Anything, mock.Anything, mock.Anything)
	h.orderRepo.AssertExpectations(t)
	h.commLog.AssertExpectations(t)
}

func TestCheckPerformanceCommandHandler_Handle_AlertsOnLowOnTimeDeliveryRate(t *testing.T) {
	ctx := t.Context()
	fabric := queue.New(queue.NewMemStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	// 1 delivered against 2 failed and 1 overdue: rate 0.25.
	delivered := []*order.Order{fixtureOrderInStatus(t, order.Delivered)}
	failed := []*order.Order{
		fixtureOrderInStatus(t, order.Failed),
		fixtureOrderInStatus(t, order.Failed),
	}
	late := []*order.Order{fixtureOrderInStatus(t, order.Shipped)}

	h := newCheckPerformanceHarness(t, fabric, healthyThresholds(),
		delivered, failed, late, 10, 0)
	h.alerts.On("OperationsAlert", mock.Anything, "on-time delivery rate below threshold",
		mock.MatchedBy(func(details map[string]string) bool {
			return details["rate"] == "0.250" && details["late"] == "1"
		})).Return(nil).Once()

	require.NoError(t, h.handler.Handle(ctx, commands.NewCheckPerformanceCommand()))
	h.alerts.AssertExpectations(t)
}

func TestCheckPerformanceCommandHandler_Handle_AlertsOnLowSendSuccessRate(t *testing.T) {
	ctx := t.Context()
	fabric := queue.New(queue.NewMemStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	delivered := []*order.Order{fixtureOrderInStatus(t, order.Delivered)}
	h := newCheckPerformanceHarness(t, fabric, healthyThresholds(),
		delivered, nil, nil, 1, 3)
	h.alerts.On("OperationsAlert", mock.Anything, "supplier send success rate below threshold",
		mock.MatchedBy(func(details map[string]string) bool {
			return details["rate"] == "0.250" && details["succeeded"] == "1" && details["failed"] == "3"
		})).Return(nil).Once()

	require.NoError(t, h.handler.Handle(ctx, commands.NewCheckPerformanceCommand()))
	h.alerts.AssertExpectations(t)
}

func TestCheckPerformanceCommandHandler_Handle_AlertsOnQueueBacklog(t *testing.T) {
	ctx := t.Context()
	store := queue.NewMemStore()
	fabric := queue.New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := fabric.Enqueue(ctx, commands.QueueOrderProcessing, commands.JobTypeProcessOrder, nil)
	require.NoError(t, err)

	thresholds := healthyThresholds()
	thresholds.MaxWaitingJobs = 0

	h := newCheckPerformanceHarness(t, fabric, thresholds,
		[]*order.Order{fixtureOrderInStatus(t, order.Delivered)}, nil, nil, 10, 0)
	h.alerts.On("OperationsAlert", mock.Anything, "queue backlog above threshold",
		mock.MatchedBy(func(details map[string]string) bool {
			return details["queue"] == commands.QueueOrderProcessing && details["waiting"] == "1"
		})).Return(nil).Once()

	require.NoError(t, h.handler.Handle(ctx, commands.NewCheckPerformanceCommand()))
	h.alerts.AssertExpectations(t)
}

func TestCheckPerformanceCommandHandler_Handle_NoOrdersSkipsRateChecks(t *testing.T) {
	ctx := t.Context()
	fabric := queue.New(queue.NewMemStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	h := newCheckPerformanceHarness(t, fabric, healthyThresholds(), nil, nil, nil, 0, 0)

	require.NoError(t, h.handler.Handle(ctx, commands.NewCheckPerformanceCommand()))
	h.alerts.AssertNotCalled(t, "OperationsAlert", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckPerformanceCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CheckPerformanceCommand{} // not constructed properly

	h := commands.NewCheckPerformanceCommandHandler(new(MockUoWFactory), nil, nil,
		commands.PerformanceThresholds{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, h.Handle(ctx, cmd))
}
