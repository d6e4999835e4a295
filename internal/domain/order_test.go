package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_ComputesTotal(t *testing.T) {
	items := []OrderItem{
		{ProductID: "prod-1", Qty: 2, UnitPrice: 10, Tier: PriceTierDealerCash},
		{ProductID: "prod-2", Qty: 1.5, UnitPrice: 8, Tier: PriceTierDealerCash},
	}

	order, err := NewOrder("ORD-000001", "cust-1", items, "user-1")
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, 32.0, order.Total)
	assert.NotEmpty(t, order.ID)
}

func TestNewOrder_EmptyItems(t *testing.T) {
	_, err := NewOrder("ORD-000001", "cust-1", nil, "user-1")
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrder_Deliver(t *testing.T) {
	order, err := NewOrder("ORD-000001", "cust-1", []OrderItem{{Qty: 1, UnitPrice: 5}}, "user-1")
	require.NoError(t, err)

	require.NoError(t, order.Deliver())
	assert.Equal(t, OrderStatusDelivered, order.Status)

	assert.ErrorIs(t, order.Deliver(), ErrOrderDelivered)
	assert.ErrorIs(t, order.Cancel(), ErrOrderDelivered)
}

func TestOrder_Cancel(t *testing.T) {
	order, err := NewOrder("ORD-000001", "cust-1", []OrderItem{{Qty: 1, UnitPrice: 5}}, "user-1")
	require.NoError(t, err)

	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCancelled, order.Status)
}
