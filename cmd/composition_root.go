package cmd

import (
	"log/slog"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/idempotency"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/commlogrepo"
	"fulfillment/internal/adapters/out/postgres/jobstore"
	"fulfillment/internal/adapters/out/supplierapi"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/notification"
	"fulfillment/internal/queue"

	"gorm.io/gorm"
)

// Default tuning applied when the corresponding config field is empty.
const (
	DefaultReprocessCooldown = 30 * time.Minute
	DefaultDelayThreshold    = 24 * time.Hour
	DefaultMaxWaitingJobs    = 500
	DefaultMaxFailedJobs     = 50

	DefaultMinOnTimeDeliveryRate = 0.95
	DefaultMinSendSuccessRate    = 0.90
	DefaultObservationWindow     = 24 * time.Hour
)

// CompositionRoot wires every adapter and handler of the application.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	store      queue.Store
	fabric     *queue.Queue
	gateway    ports.SupplierGateway
	notifier   commands.OrderNotifier
	alerts     commands.AlertNotifier
	logger     *slog.Logger
}

// NewCompositionRoot builds the shared infrastructure once: the durable job
// store, the queue fabric, the supplier gateway, and the notification
// dispatcher. Handlers are created per call from these.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	store := jobstore.NewGormJobStore(gormDB)
	fabric := queue.New(store, logger)

	idemStore, err := idempotency.NewStore(config.RedisURL, logger)
	if err != nil {
		return nil, err
	}

	gateway := supplierapi.NewHTTPSupplierGateway(
		commlogrepo.NewGormCommunicationLogRepository(gormDB),
		idemStore,
		nil,
		logger,
		supplierapi.WithRetryDelay(Duration(config.SupplierRetryDelay, 2*time.Second)),
	)

	dispatcher := notification.NewDispatcher(fabric, nil, logger)

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		store:      store,
		fabric:     fabric,
		gateway:    gateway,
		notifier:   dispatcher,
		alerts:     dispatcher,
		logger:     logger,
	}, nil
}

// Store exposes the durable job store for worker pools and cleanup.
func (c *CompositionRoot) Store() queue.Store {
	return c.store
}

// Fabric exposes the queue facade for enqueuing and stats.
func (c *CompositionRoot) Fabric() *queue.Queue {
	return c.fabric
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.fabric)
}

func (c *CompositionRoot) CreateAssignSupplierCommandHandler() commands.AssignSupplierCommandHandler {
	return commands.NewAssignSupplierCommandHandler(
		c.fullUoWFactory(), services.NewOrderRouter(), c.fabric)
}

func (c *CompositionRoot) CreateSendOrderToSupplierCommandHandler() commands.SendOrderToSupplierCommandHandler {
	return commands.NewSendOrderToSupplierCommandHandler(c.fullUoWFactory(), c.gateway, c.notifier)
}

func (c *CompositionRoot) CreateRequestTrackingCommandHandler() commands.RequestTrackingCommandHandler {
	return commands.NewRequestTrackingCommandHandler(c.fullUoWFactory(), c.gateway, c.notifier, c.fabric)
}

func (c *CompositionRoot) CreateSyncTrackingCommandHandler() commands.SyncTrackingCommandHandler {
	return commands.NewSyncTrackingCommandHandler(c.orderUoWFactory(), c.fabric)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.fabric, c.notifier)
}

func (c *CompositionRoot) CreateCancelAtSupplierCommandHandler() commands.CancelAtSupplierCommandHandler {
	return commands.NewCancelAtSupplierCommandHandler(c.fullUoWFactory(), c.gateway)
}

func (c *CompositionRoot) CreateMarkOrderDeliveredCommandHandler() commands.MarkOrderDeliveredCommandHandler {
	return commands.NewMarkOrderDeliveredCommandHandler(c.orderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateReprocessFailedOrdersCommandHandler() commands.ReprocessFailedOrdersCommandHandler {
	return commands.NewReprocessFailedOrdersCommandHandler(
		c.orderUoWFactory(), c.fabric,
		Duration(c.config.ReprocessCooldown, DefaultReprocessCooldown))
}

func (c *CompositionRoot) CreateDetectDelayedOrdersCommandHandler() commands.DetectDelayedOrdersCommandHandler {
	return commands.NewDetectDelayedOrdersCommandHandler(
		c.orderUoWFactory(), c.notifier,
		Duration(c.config.DelayThreshold, DefaultDelayThreshold))
}

func (c *CompositionRoot) CreateCheckPerformanceCommandHandler() commands.CheckPerformanceCommandHandler {
	return commands.NewCheckPerformanceCommandHandler(
		c.fullUoWFactory(), c.fabric, c.alerts,
		commands.PerformanceThresholds{
			MaxWaitingJobs:        Int(c.config.MaxWaitingJobs, DefaultMaxWaitingJobs),
			MaxFailedJobs:         Int(c.config.MaxFailedJobs, DefaultMaxFailedJobs),
			MinOnTimeDeliveryRate: Float(c.config.MinOnTimeDeliveryRate, DefaultMinOnTimeDeliveryRate),
			MinSendSuccessRate:    Float(c.config.MinSendSuccessRate, DefaultMinSendSuccessRate),
			DeliveryWindow:        Duration(c.config.DelayThreshold, DefaultDelayThreshold),
			ObservationWindow:     DefaultObservationWindow,
		},
		c.logger)
}

func (c *CompositionRoot) CreateGetQueueStatsQueryHandler() queries.GetQueueStatsQueryHandler {
	return queries.NewGetQueueStatsQueryHandler(c.fabric)
}

func (c *CompositionRoot) CreateGetOrdersByStatusQueryHandler() queries.GetOrdersByStatusQueryHandler {
	return queries.NewGetOrdersByStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCommunicationLogQueryHandler() queries.GetCommunicationLogQueryHandler {
	return queries.NewGetCommunicationLogQueryHandler(c.gormDB)
}

// CreateHTTPServer wires the inbound HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateMarkOrderDeliveredCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateGetQueueStatsQueryHandler(),
		c.CreateGetOrdersByStatusQueryHandler(),
		c.CreateGetCommunicationLogQueryHandler(),
		c.logger,
	)
}

// CreateJobManager wires the scheduled job coordinator.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSyncTrackingCommandHandler(),
		c.CreateDetectDelayedOrdersCommandHandler(),
		c.CreateCheckPerformanceCommandHandler(),
		c.CreateReprocessFailedOrdersCommandHandler(),
		c.store,
		jobs.Schedules{
			TrackingSync:     c.config.ScheduleTrackingSync,
			DelayedOrders:    c.config.ScheduleDelayedOrders,
			Cleanup:          c.config.ScheduleCleanup,
			PerformanceCheck: c.config.SchedulePerformanceCheck,
			Reprocess:        c.config.ScheduleReprocess,
		},
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
