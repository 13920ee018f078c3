package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/commlogrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/supplierrepo"
	"fulfillment/internal/core/domain/model/comms"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM-based unit of work against
// a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite starts the PostgreSQL container and migrates the schema once for
// the whole suite.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&supplierrepo.SupplierDTO{},
		&supplierrepo.SupplierSKUDTO{},
		&commlogrepo.RecordDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest truncates all tables so tests never see each other's rows.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, suppliers, supplier_skus, communication_records").Error
	suite.Require().NoError(err)
}

// TearDownSuite terminates the PostgreSQL container.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.SupplierRepository())
	suite.NotNil(uow1.CommunicationLogRepository())
	suite.NotNil(uow2.OrderRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SingleRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	retrieved, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal(order.Pending, retrieved.Status())
	suite.Len(retrieved.Items(), len(testOrder.Items()))
}

// Covers the supplier-dispatch write pattern: the order transition, the
// supplier update, and the communication record must commit atomically.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_MultiRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder()
	testSupplier := createTestSupplier()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.SupplierRepository().Add(ctx, testSupplier)
	suite.Require().NoError(err)

	err = testOrder.AssignSupplier(testSupplier.ID())
	suite.Require().NoError(err)
	err = testOrder.MarkSentToSupplier()
	suite.Require().NoError(err)
	err = uow.OrderRepository().Update(ctx, testOrder)
	suite.Require().NoError(err)

	record, err := comms.NewRecord(testOrder.ID(), testSupplier.ID(), "send_order", 1, true)
	suite.Require().NoError(err)
	err = uow.CommunicationLogRepository().Append(ctx, record)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	retrievedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.SentToSupplier, retrievedOrder.Status())
	suite.Require().NotNil(retrievedOrder.Supplier())
	suite.Equal(testSupplier.ID(), *retrievedOrder.Supplier())

	records, err := newUow.CommunicationLogRepository().ListByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Equal("send_order", records[0].Action())
	suite.True(records[0].Success())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder()
	testSupplier := createTestSupplier()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.SupplierRepository().Add(ctx, testSupplier)
	suite.Require().NoError(err)

	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	_, err = uow.SupplierRepository().Get(ctx, testSupplier.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	_, err = newUow.SupplierRepository().Get(ctx, testSupplier.ID())
	suite.Require().Error(err, "Supplier should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := createTestOrder()
	order2 := createTestOrder()

	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	err = uow1.OrderRepository().Add(ctx, order1)
	suite.Require().NoError(err)

	err = uow2.OrderRepository().Add(ctx, order2)
	suite.Require().NoError(err)

	_, err = uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "UOW1 should see order1")

	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err, "UOW2 should see order2")

	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder()

	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	retrieved, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())

	newUow := suite.factory.Create()
	retrieved, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
}

// Walks one order through the full lifecycle, persisting every transition the
// way the command handlers do.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_FulfillmentWorkflow() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder()
	testSupplier := createTestSupplier()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)
	err = uow.SupplierRepository().Add(ctx, testSupplier)
	suite.Require().NoError(err)

	err = testOrder.AssignSupplier(testSupplier.ID())
	suite.Require().NoError(err)
	err = testOrder.MarkSentToSupplier()
	suite.Require().NoError(err)
	err = uow.OrderRepository().Update(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Tracking sync moves the order forward in separate transactions,
	// re-reading the current state each time.
	advance := func(mutate func(*order.Order) error) {
		stepUow := suite.factory.Create()
		suite.Require().NoError(stepUow.Begin(ctx))

		current, err := stepUow.OrderRepository().Get(ctx, testOrder.ID())
		suite.Require().NoError(err)
		suite.Require().NoError(mutate(current))
		suite.Require().NoError(stepUow.OrderRepository().Update(ctx, current))
		suite.Require().NoError(stepUow.Commit(ctx))
	}

	advance(func(o *order.Order) error { return o.StartProcessing() })
	advance(func(o *order.Order) error { return o.Ship("TRK-1001", "correios") })
	advance(func(o *order.Order) error { return o.Deliver() })

	finalUow := suite.factory.Create()
	retrieved, err := finalUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Delivered, retrieved.Status())
	suite.Equal("TRK-1001", retrieved.TrackingCode())
	suite.Equal("correios", retrieved.Carrier())
	suite.Require().NotNil(retrieved.Supplier())
	suite.Equal(testSupplier.ID(), *retrieved.Supplier())
}

// Two workers holding the same version of an order race to update it; the
// loser must surface a version conflict, not silently overwrite.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OptimisticLockConflict() {
	ctx := context.Background()

	testOrder := createTestOrder()
	testSupplier := createTestSupplier()

	setupUow := suite.factory.Create()
	suite.Require().NoError(setupUow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(setupUow.SupplierRepository().Add(ctx, testSupplier))

	uow1 := suite.factory.Create()
	copy1, err := uow1.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	uow2 := suite.factory.Create()
	copy2, err := uow2.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(copy1.AssignSupplier(testSupplier.ID()))
	suite.Require().NoError(uow1.OrderRepository().Update(ctx, copy1))

	suite.Require().NoError(copy2.Cancel())
	err = uow2.OrderRepository().Update(ctx, copy2)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid,
		"Stale update should surface a version conflict")

	finalUow := suite.factory.Create()
	retrieved, err := finalUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retrieved.Supplier(), "First writer's assignment should win")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_GetByExternalID() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	retrieved, err := uow.OrderRepository().GetByExternalID(ctx, testOrder.ExternalOrderID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())

	_, err = uow.OrderRepository().GetByExternalID(ctx, "SHOP-DOES-NOT-EXIST")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_StatusQueries() {
	ctx := context.Background()
	uow := suite.factory.Create()

	pending := createTestOrder()
	cancelled := createTestOrder()
	suite.Require().NoError(cancelled.Cancel())

	suite.Require().NoError(uow.OrderRepository().Add(ctx, pending))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, cancelled))

	pendingOrders, err := uow.OrderRepository().GetAllInStatus(ctx, order.Pending)
	suite.Require().NoError(err)
	suite.Require().Len(pendingOrders, 1)
	suite.Equal(pending.ID(), pendingOrders[0].ID())

	// Everything written so far is older than a cutoff in the future.
	stuck, err := uow.OrderRepository().GetStuckSince(ctx,
		[]order.Status{order.Pending}, time.Now().Add(time.Minute))
	suite.Require().NoError(err)
	suite.Require().Len(stuck, 1)
	suite.Equal(pending.ID(), stuck[0].ID())

	// A cutoff in the past matches nothing.
	stuck, err = uow.OrderRepository().GetStuckSince(ctx,
		[]order.Status{order.Pending}, time.Now().Add(-time.Minute))
	suite.Require().NoError(err)
	suite.Empty(stuck)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSupplierRepository_CatalogRoundtrip() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testSupplier := createTestSupplier()
	testSupplier.SetCatalog([]string{"SKU-100", "SKU-200"})
	suite.Require().NoError(uow.SupplierRepository().Add(ctx, testSupplier))

	retrieved, err := uow.SupplierRepository().Get(ctx, testSupplier.ID())
	suite.Require().NoError(err)
	suite.True(retrieved.CanFulfill("SKU-100"))
	suite.True(retrieved.CanFulfill("SKU-200"))
	suite.False(retrieved.CanFulfill("SKU-999"))

	// Update replaces the catalog wholesale.
	retrieved.SetCatalog([]string{"SKU-300"})
	suite.Require().NoError(uow.SupplierRepository().Update(ctx, retrieved))

	reloaded, err := uow.SupplierRepository().Get(ctx, testSupplier.ID())
	suite.Require().NoError(err)
	suite.True(reloaded.CanFulfill("SKU-300"))
	suite.False(reloaded.CanFulfill("SKU-100"))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSupplierRepository_GetAllActive() {
	ctx := context.Background()
	uow := suite.factory.Create()

	active := createTestSupplier()
	suite.Require().NoError(uow.SupplierRepository().Add(ctx, active))

	inactive, err := supplier.NewSupplier(kernel.NewUUID(), "Dormant Supplier",
		3.5, "EU", false, 48, "https://dormant.example.com", "key-2")
	suite.Require().NoError(err)
	suite.Require().NoError(uow.SupplierRepository().Add(ctx, inactive))

	suppliers, err := uow.SupplierRepository().GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(suppliers, 1)
	suite.Equal(active.ID(), suppliers[0].ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommunicationLog_AppendAndListOrdering() {
	ctx := context.Background()
	uow := suite.factory.Create()

	orderID := kernel.NewUUID()
	supplierID := kernel.NewUUID()

	first, err := comms.NewRecord(orderID, supplierID, "send_order", 1, false)
	suite.Require().NoError(err)
	first.WithError("supplier timeout").WithLatency(1200 * time.Millisecond)

	second, err := comms.NewRecord(orderID, supplierID, "send_order", 2, true)
	suite.Require().NoError(err)
	second.WithLatency(240 * time.Millisecond)

	suite.Require().NoError(uow.CommunicationLogRepository().Append(ctx, first))
	suite.Require().NoError(uow.CommunicationLogRepository().Append(ctx, second))

	// A record for another order must not leak into the listing.
	other, err := comms.NewRecord(kernel.NewUUID(), supplierID, "send_order", 1, true)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.CommunicationLogRepository().Append(ctx, other))

	records, err := uow.CommunicationLogRepository().ListByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)

	suite.Equal(1, records[0].Attempt())
	suite.False(records[0].Success())
	suite.Equal("supplier timeout", records[0].ErrMessage())
	suite.Equal(int64(1200), records[0].ResponseTimeMs())

	suite.Equal(2, records[1].Attempt())
	suite.True(records[1].Success())
	suite.Equal(int64(240), records[1].ResponseTimeMs())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommunicationLog_CountOutcomes() {
	ctx := context.Background()
	uow := suite.factory.Create()

	orderID := kernel.NewUUID()
	supplierID := kernel.NewUUID()

	outcomes := []bool{false, true, true}
	for attempt, success := range outcomes {
		record, err := comms.NewRecord(orderID, supplierID, "send_order", attempt+1, success)
		suite.Require().NoError(err)
		suite.Require().NoError(uow.CommunicationLogRepository().Append(ctx, record))
	}

	succeeded, failed, err := uow.CommunicationLogRepository().
		CountOutcomes(ctx, time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Equal(int64(2), succeeded)
	suite.Equal(int64(1), failed)

	// A future cutoff excludes everything just written.
	succeeded, failed, err = uow.CommunicationLogRepository().
		CountOutcomes(ctx, time.Now().UTC().Add(time.Hour))
	suite.Require().NoError(err)
	suite.Zero(succeeded)
	suite.Zero(failed)
}

// createTestOrder creates a valid pending order for testing purposes.
func createTestOrder() *order.Order {
	id := kernel.NewUUID()
	unitPrice, _ := kernel.NewMoney(4990, "BRL")
	item, _ := order.NewItem("SKU-100", 2, unitPrice)
	total, _ := kernel.NewMoney(9980, "BRL")
	contact := order.Contact{Phone: "+5511999990000", Country: "BR"}

	testOrder, _ := order.NewOrder(id, "SHOP-"+id.String()[:8], kernel.NewUUID(),
		[]order.Item{item}, total, contact)
	return testOrder
}

// createTestSupplier creates a valid active supplier for testing purposes.
func createTestSupplier() *supplier.Supplier {
	id := kernel.NewUUID()
	testSupplier, _ := supplier.NewSupplier(id, "Test Supplier", 4.5, "LATAM",
		true, 24, "https://supplier.example.com", "key-1")
	return testSupplier
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
