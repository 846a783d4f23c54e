package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/asquebay/dreamgirl-boutique/internal/lib/logger"
	"github.com/asquebay/dreamgirl-boutique/internal/model"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(name string) model.OrderFields {
	return model.OrderFields{
		FullName:     name,
		Phone:        "98765 43210",
		Address:      "12 MG Road, Indore",
		ProductName:  "Bridal Lehenga",
		Price:        decimal.RequireFromString("8500"),
		ProductImage: pixel,
	}
}

func newOrders(t *testing.T, store StateStore, opts ...Option) *OrderService {
	t.Helper()
	s, err := NewOrderService(context.Background(), store, logger.Discard(), opts...)
	require.NoError(t, err)
	return s
}

func TestAddOrder(t *testing.T) {
	ctx := context.Background()
	store := cache.NewStore()
	orders := newOrders(t, store, WithClock(stepClock(start, time.Millisecond)), WithLocation(time.UTC))

	first, err := orders.AddOrder(ctx, fields("Asha"))
	require.NoError(t, err)
	second, err := orders.AddOrder(ctx, fields("Meera"))
	require.NoError(t, err)

	assert.Equal(t, start.UnixMilli(), first.ID)
	assert.Equal(t, start.UnixMilli()+1, second.ID)
	assert.Equal(t, "10/18/2026, 5:04:05 PM", first.CreatedAt)
	assert.Equal(t, "9876543210", first.Phone)
	assert.False(t, first.PaymentStatus)

	list := orders.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Asha", list[0].FullName)
	assert.Equal(t, "Meera", list[1].FullName)

	reloaded := newOrders(t, store)
	assert.Equal(t, list, reloaded.List())
}

func TestAddOrderUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	orders := newOrders(t, cache.NewStore(), WithClock(func() time.Time { return start }), WithLocation(ist))

	o, err := orders.AddOrder(context.Background(), fields("Asha"))
	require.NoError(t, err)
	assert.Equal(t, "10/18/2026, 10:34:05 PM", o.CreatedAt)
}

func TestAddOrderRejectsInvalidFields(t *testing.T) {
	store := cache.NewStore()
	orders := newOrders(t, store)

	bad := fields("Asha")
	bad.Phone = "123"
	_, err := orders.AddOrder(context.Background(), bad)

	var errs model.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "phone")
	assert.Empty(t, orders.List())
}

func TestSameMillisecondOrdersShareID(t *testing.T) {
	ctx := context.Background()
	orders := newOrders(t, cache.NewStore(), WithClock(func() time.Time { return start }))

	a, err := orders.AddOrder(ctx, fields("Asha"))
	require.NoError(t, err)
	b, err := orders.AddOrder(ctx, fields("Meera"))
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	deleted, err := orders.DeleteOrder(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, orders.List())
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	store := cache.NewStore()
	orders := newOrders(t, store, WithClock(stepClock(start, time.Millisecond)))

	a, err := orders.AddOrder(ctx, fields("Asha"))
	require.NoError(t, err)
	b, err := orders.AddOrder(ctx, fields("Meera"))
	require.NoError(t, err)

	deleted, err := orders.DeleteOrder(ctx, 42)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, orders.List(), 2)

	deleted, err = orders.DeleteOrder(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	list := newOrders(t, store).List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	_, found := orders.Get(a.ID)
	assert.False(t, found)
}

func TestUpdateOrder(t *testing.T) {
	ctx := context.Background()
	store := cache.NewStore()
	orders := newOrders(t, store, WithClock(stepClock(start, time.Millisecond)))

	var added []model.Order
	for _, name := range []string{"Asha", "Meera", "Kavya"} {
		o, err := orders.AddOrder(ctx, fields(name))
		require.NoError(t, err)
		added = append(added, o)
	}
	target := added[1]

	before := persistedOrders(t, store)

	paid := true
	updated, found, err := orders.UpdateOrder(ctx, target.ID, model.OrderPatch{PaymentStatus: &paid})
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, updated.PaymentStatus)

	after := persistedOrders(t, store)
	require.Len(t, after, 3)

	// соседние заказы не тронуты ни на байт
	assert.Equal(t, string(before[0]), string(after[0]))
	assert.Equal(t, string(before[2]), string(after[2]))

	// у целевого меняется только paymentStatus
	var was, now map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(before[1], &was))
	require.NoError(t, json.Unmarshal(after[1], &now))
	assert.Equal(t, "false", string(was["paymentStatus"]))
	assert.Equal(t, "true", string(now["paymentStatus"]))
	delete(was, "paymentStatus")
	delete(now, "paymentStatus")
	assert.Equal(t, was, now)

	got, ok := newOrders(t, store).Get(target.ID)
	require.True(t, ok)
	assert.True(t, got.PaymentStatus)

	_, found, err = orders.UpdateOrder(ctx, 1, model.OrderPatch{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.False(t, found)
}

// persistedOrders отдаёт сохранённые заказы как есть, по одному на элемент
func persistedOrders(t *testing.T, store StateStore) []json.RawMessage {
	t.Helper()
	raw, err := store.Get(context.Background(), KeyCustomerOrders)
	require.NoError(t, err)

	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &items))
	return items
}

func TestUpdateOrderRevalidates(t *testing.T) {
	ctx := context.Background()
	orders := newOrders(t, cache.NewStore())

	o, err := orders.AddOrder(ctx, fields("Asha"))
	require.NoError(t, err)

	zero := decimal.Zero
	_, found, err := orders.UpdateOrder(ctx, o.ID, model.OrderPatch{Price: &zero})
	assert.True(t, found)

	var errs model.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.ErrorIs(t, errs["price"], model.ErrInvalidFormat)

	got, _ := orders.Get(o.ID)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(8500)))
}

func TestOrdersLoadBrokenLedgerAsEmpty(t *testing.T) {
	store := cache.NewStore()
	store.LoadAll(map[string][]byte{
		KeyCustomerOrders: []byte(`[{"id":1,"fullName":"A","phone":"12","address":"B","productName":"C","price":"5","productImage":"x"}]`),
	})

	orders := newOrders(t, store)
	assert.NotNil(t, orders.List())
	assert.Empty(t, orders.List())
}

func TestOrdersPersistFailure(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	orders := newOrders(t, store, WithClock(stepClock(start, time.Millisecond)))

	o, err := orders.AddOrder(ctx, fields("Asha"))
	require.NoError(t, err)

	store.breakWrites()
	_, err = orders.AddOrder(ctx, fields("Meera"))
	require.ErrorIs(t, err, errDiskFull)

	_, err = orders.DeleteOrder(ctx, o.ID)
	require.ErrorIs(t, err, errDiskFull)

	list := orders.List()
	require.Len(t, list, 1)
	assert.Equal(t, o.ID, list[0].ID)
}
