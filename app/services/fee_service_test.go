package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemainingBalance(t *testing.T) {
	cases := []struct {
		name                           string
		amount, paid, discount, expect string
	}{
		{"untouched fee", "500.00", "0", "0", "500.00"},
		{"partly paid", "500.00", "200.00", "0", "300.00"},
		{"paid with discount", "500.00", "400.00", "50.00", "50.00"},
		{"exactly settled", "500.00", "450.00", "50.00", "0"},
		{"overpaid clamps to zero", "500.00", "600.00", "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RemainingBalance(money(tc.amount), money(tc.paid), money(tc.discount))
			assert.True(t, got.Equal(money(tc.expect)), "got %s, want %s", got, tc.expect)
		})
	}
}

func TestIsFineID(t *testing.T) {
	id, ok := IsFineID("fine_42")
	assert.True(t, ok)
	assert.Equal(t, "42", id)

	_, ok = IsFineID("fee-42")
	assert.False(t, ok)

	// The bare prefix is not a fine reference.
	_, ok = IsFineID("fine_")
	assert.False(t, ok)

	_, ok = IsFineID(CarryForwardID)
	assert.False(t, ok)
}
