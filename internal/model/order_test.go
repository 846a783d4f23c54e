package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder(id int64) Order {
	return Order{
		ID: id,
		OrderFields: OrderFields{
			FullName:     "Asha Verma",
			Phone:        "9876543210",
			Address:      "12 MG Road, Indore",
			ProductName:  "Bridal Lehenga",
			Price:        decimal.RequireFromString("8500"),
			ProductImage: pixel,
		},
		CreatedAt: "10/18/2026, 5:04:05 PM",
	}
}

func TestOrderJSONLayout(t *testing.T) {
	raw, err := json.Marshal(sampleOrder(1760000000000))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	assert.EqualValues(t, 1760000000000, m["id"])
	assert.Equal(t, "Asha Verma", m["fullName"])
	assert.Equal(t, "8500", m["price"])
	assert.Equal(t, false, m["paymentStatus"])
	assert.Equal(t, "10/18/2026, 5:04:05 PM", m["createdAt"])
	assert.NotContains(t, m, "OrderFields")
}

func TestOrderAcceptsNumericPrice(t *testing.T) {
	raw := `[{"id":1,"fullName":"A","phone":"9876543210","address":"B","productName":"C","price":250,"paymentStatus":true,"productImage":"data:,x","createdAt":""}]`

	var orders Orders
	require.NoError(t, json.Unmarshal([]byte(raw), &orders))
	require.NoError(t, orders.Validate())
	assert.True(t, orders[0].Price.Equal(decimal.NewFromInt(250)))
}

func TestOrderPriceDropsTrailingZeros(t *testing.T) {
	raw := `{"id":1,"fullName":"A","phone":"9876543210","address":"B","productName":"C","price":"1499.90","paymentStatus":false,"productImage":"data:,x","createdAt":""}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(raw), &o))
	assert.True(t, o.Price.Equal(decimal.RequireFromString("1499.9")))

	out, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"price":"1499.9"`)
}

func TestOrdersValidateRejectsBrokenRecords(t *testing.T) {
	bad := sampleOrder(2)
	bad.Phone = "123"

	assert.Error(t, Orders{sampleOrder(1), bad}.Validate())
	assert.NoError(t, Orders{sampleOrder(1), sampleOrder(1)}.Validate())
	assert.Error(t, Orders{sampleOrder(0)}.Validate())
	assert.NoError(t, Orders{sampleOrder(1), sampleOrder(2)}.Validate())
}

func TestOrderPatchApply(t *testing.T) {
	paid := true
	phone := "98765-43210"
	name := "  Asha V.  "

	orig := sampleOrder(7)
	orig.Phone = "1111111111"

	got := OrderPatch{PaymentStatus: &paid, Phone: &phone, FullName: &name}.Apply(orig)

	assert.True(t, got.PaymentStatus)
	assert.Equal(t, "9876543210", got.Phone)
	assert.Equal(t, "Asha V.", got.FullName)
	assert.Equal(t, orig.Address, got.Address)
	assert.Equal(t, orig.Price, got.Price)
	// исходный заказ не меняется
	assert.False(t, orig.PaymentStatus)
}

func TestGalleryValidate(t *testing.T) {
	ok := Gallery{{ID: 1.5, Src: pixel}, {ID: 2.25, Src: pixel}}
	assert.NoError(t, ok.Validate())
	assert.Error(t, Gallery{{ID: 1.5, Src: pixel}, {ID: 1.5, Src: pixel}}.Validate())
	assert.Error(t, Gallery{{ID: 1.5}}.Validate())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1.50", FormatSizeKB(1536))
	assert.Equal(t, "0.00", FormatSizeKB(0))

	ts := time.Date(2026, 10, 18, 17, 4, 5, 0, time.UTC)
	assert.Equal(t, "10/18/2026, 5:04:05 PM", FormatLocale(ts))
}
