package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/comms"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/queue"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByExternalID(ctx context.Context, externalOrderID string) (*order.Order, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetStuckSince(
	ctx context.Context, statuses []order.Status, cutoff time.Time,
) ([]*order.Order, error) {
	args := m.Called(ctx, statuses, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockSupplierRepository struct{ mock.Mock }

func (m *MockSupplierRepository) Add(ctx context.Context, s *supplier.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSupplierRepository) Update(ctx context.Context, s *supplier.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSupplierRepository) Get(ctx context.Context, id kernel.UUID) (*supplier.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplier.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetAllActive(ctx context.Context) ([]*supplier.Supplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*supplier.Supplier), args.Error(1)
}

type MockCommunicationLogRepository struct{ mock.Mock }

func (m *MockCommunicationLogRepository) Append(ctx context.Context, record *comms.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCommunicationLogRepository) ListByOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]*comms.Record, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*comms.Record), args.Error(1)
}

func (m *MockCommunicationLogRepository) CountOutcomes(
	ctx context.Context, since time.Time,
) (int64, int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
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

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) SupplierRepository() ports.SupplierRepository {
	args := m.Called()
	return args.Get(0).(ports.SupplierRepository)
}

func (m *MockUoW) CommunicationLogRepository() ports.CommunicationLogRepository {
	args := m.Called()
	return args.Get(0).(ports.CommunicationLogRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockEnqueuer struct{ mock.Mock }

func (m *MockEnqueuer) Enqueue(
	ctx context.Context, queueName, jobType string, payload any, opts ...queue.Option,
) (*queue.Job, error) {
	args := m.Called(ctx, queueName, jobType, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Job), args.Error(1)
}

type MockSupplierGateway struct{ mock.Mock }

func (m *MockSupplierGateway) SendOrder(
	ctx context.Context, o *order.Order, s *supplier.Supplier,
) (*ports.SendResult, error) {
	args := m.Called(ctx, o, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.SendResult), args.Error(1)
}

func (m *MockSupplierGateway) RequestTracking(
	ctx context.Context, o *order.Order, s *supplier.Supplier,
) (*ports.TrackingResult, error) {
	args := m.Called(ctx, o, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TrackingResult), args.Error(1)
}

func (m *MockSupplierGateway) CancelOrder(ctx context.Context, o *order.Order, s *supplier.Supplier) error {
	args := m.Called(ctx, o, s)
	return args.Error(0)
}

type MockOrderNotifier struct{ mock.Mock }

func (m *MockOrderNotifier) OrderConfirmed(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderNotifier) OrderProcessing(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderNotifier) OrderShipped(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderNotifier) OrderDelivered(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderNotifier) OrderCancelled(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderNotifier) OrderFailed(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderNotifier) OrderDelayed(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockAlertNotifier struct{ mock.Mock }

func (m *MockAlertNotifier) OperationsAlert(ctx context.Context, reason string, details map[string]string) error {
	args := m.Called(ctx, reason, details)
	return args.Error(0)
}
