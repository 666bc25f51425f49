package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"sales-service/internal/core"
)

func TestDiscountRate_Tiers(t *testing.T) {
	cases := []struct {
		quantity int
		want     string
	}{
		{1, "0"},
		{2, "0"},
		{3, "0"},
		{4, "0.1"},
		{5, "0.1"},
		{9, "0.1"},
		{10, "0.2"},
		{15, "0.2"},
		{20, "0.2"},
	}

	for _, tc := range cases {
		got := core.DiscountRate(tc.quantity)
		want := decimal.RequireFromString(tc.want)
		if !got.Equal(want) {
			t.Errorf("DiscountRate(%d) = %s, want %s", tc.quantity, got, want)
		}
	}
}
