package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalIsExact(t *testing.T) {
	o := Order{Items: []OrderItem{
		{UnitPrice: decimal.RequireFromString("0.10"), Units: 3},
		{UnitPrice: decimal.RequireFromString("8.50"), Units: 2},
	}}
	// 0.30 + 17.00; float accumulation of 0.10*3 would already drift.
	assert.True(t, o.Total().Equal(decimal.RequireFromString("17.30")), "got %s", o.Total())
}

func TestTotalEmptyOrder(t *testing.T) {
	o := Order{}
	assert.True(t, o.Total().IsZero())
}
