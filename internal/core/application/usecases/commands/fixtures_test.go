package commands_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"

	"github.com/stretchr/testify/require"
)

func fixtureItems(t *testing.T) []order.Item {
	t.Helper()
	price, err := kernel.NewMoney(4990, "BRL")
	require.NoError(t, err)
	item, err := order.NewItem("SKU-001", 2, price)
	require.NoError(t, err)
	return []order.Item{item}
}

func fixtureOrder(t *testing.T) *order.Order {
	t.Helper()
	total, err := kernel.NewMoney(9980, "BRL")
	require.NoError(t, err)
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"SHOP-1042",
		kernel.NewUUID(),
		fixtureItems(t),
		total,
		order.Contact{Phone: "+5511999990000", Country: "BR"},
	)
	require.NoError(t, err)
	return o
}

func fixtureOrderInStatus(t *testing.T, target order.Status) *order.Order {
	t.Helper()
	o := fixtureOrder(t)
	if target == order.Pending {
		return o
	}

	require.NoError(t, o.AssignSupplier(kernel.NewUUID()))
	steps := []struct {
		status order.Status
		apply  func() error
	}{
		{order.SentToSupplier, o.MarkSentToSupplier},
		{order.Processing, o.StartProcessing},
		{order.Shipped, func() error { return o.Ship("TRK-123", "correios") }},
		{order.Delivered, o.Deliver},
	}
	for _, step := range steps {
		if target == order.Cancelled {
			require.NoError(t, o.Cancel())
			return o
		}
		if target == order.Failed {
			require.NoError(t, o.Fail())
			return o
		}
		require.NoError(t, step.apply())
		if o.Status() == target {
			return o
		}
	}
	require.Equal(t, target, o.Status())
	return o
}

func fixtureSupplier(t *testing.T) *supplier.Supplier {
	t.Helper()
	s, err := supplier.NewSupplier(
		kernel.NewUUID(),
		"Acme Fulfillment",
		4.5,
		"BR",
		true,
		24,
		"https://api.acme.example",
		"key-123",
	)
	require.NoError(t, err)
	return s
}
