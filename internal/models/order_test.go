package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOrderRecalculate(t *testing.T) {
	o := &Order{
		Items: []OrderItem{
			{MenuItemID: 1, Quantity: 2, Price: dec("10.00")},
			{MenuItemID: 2, Quantity: 1, Price: dec("5.00")},
		},
	}
	o.Recalculate()

	assert.True(t, dec("25.00").Equal(o.TotalAmount), "total %s", o.TotalAmount)
	assert.True(t, dec("2.50").Equal(o.Tax), "tax %s", o.Tax)
	assert.True(t, dec("27.50").Equal(o.FinalAmount), "final %s", o.FinalAmount)
}

func TestOrderRecalculate_HonorsDiscount(t *testing.T) {
	o := &Order{
		Items:    []OrderItem{{MenuItemID: 1, Quantity: 3, Price: dec("12.40")}},
		Discount: dec("5"),
	}
	o.Recalculate()

	assert.True(t, dec("37.20").Equal(o.TotalAmount))
	assert.True(t, dec("3.72").Equal(o.Tax))
	assert.True(t, o.TotalAmount.Add(o.Tax).Sub(o.Discount).Equal(o.FinalAmount))
	assert.True(t, dec("35.92").Equal(o.FinalAmount))
}

func TestOrderRecalculate_Empty(t *testing.T) {
	o := &Order{}
	o.Recalculate()
	assert.True(t, o.TotalAmount.IsZero())
	assert.True(t, o.FinalAmount.IsZero())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderPreparing, true},
		{OrderPreparing, OrderReady, true},
		{OrderReady, OrderServed, true},
		{OrderServed, OrderCompleted, true},
		{OrderPending, OrderServed, true},
		{OrderServed, OrderServed, true},
		{OrderPending, OrderCancelled, true},
		{OrderServed, OrderCancelled, true},
		{OrderReady, OrderPending, false},
		{OrderCompleted, OrderPending, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderCancelled, OrderPreparing, false},
		{OrderCompleted, OrderCompleted, true},
		{OrderPending, OrderStatus("Eaten"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestResolveTableID(t *testing.T) {
	t.Run("foreign key only", func(t *testing.T) {
		o := &Order{TableID: 4}
		assert.Equal(t, uint(4), o.ResolveTableID())
	})
	t.Run("populated table", func(t *testing.T) {
		o := &Order{Table: &Table{ID: 7, TableNumber: 4}}
		assert.Equal(t, uint(7), o.ResolveTableID())
	})
}

func TestFormatOrderNumber(t *testing.T) {
	now := time.UnixMilli(1718000123456)
	assert.Equal(t, "ORD123456007", FormatOrderNumber(now, 7))

	n := NewOrderNumber(time.Now())
	assert.Regexp(t, regexp.MustCompile(`^ORD\d{9}$`), n)
}

func TestTableRefUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint
	}{
		{"number", `12`, 12},
		{"string", `"12"`, 12},
		{"object", `{"id": 12, "table_number": 4}`, 12},
		{"object with _id", `{"_id": "12"}`, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref TableRef
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ref))
			assert.Equal(t, tt.want, ref.ID())
		})
	}

	var ref TableRef
	err := json.Unmarshal([]byte(`"abc"`), &ref)
	require.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Contains(t, err.Error(), `table reference "abc" is not a valid id`)
	assert.EqualError(t, json.Unmarshal([]byte(`{"number": 4}`), &ref), "table reference: object has no id")
}

func TestOrderJSON_MoneyAsNumbers(t *testing.T) {
	o := Order{TotalAmount: dec("25"), Tax: dec("2.5"), FinalAmount: dec("27.5")}
	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"final_amount":27.5`)
}
