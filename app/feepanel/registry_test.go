package feepanel

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, name, amount string) FeeRecord {
	return FeeRecord{ID: id, DisplayName: name, Amount: decimal.RequireFromString(amount)}
}

func TestLoadDefaultsAndOrder(t *testing.T) {
	registry, err := Load([]FeeRecord{
		record("1", "Tuition - Term 1", "500.00"),
		record("2", "Library Fee", "300.00"),
		record("fine_7", "Fine: Late Return", "25.00"),
	})
	require.NoError(t, err)
	require.Equal(t, 3, registry.Len())

	snapshot := registry.Snapshot()
	assert.Equal(t, []string{"1", "2", "fine_7"}, []string{snapshot[0].ID, snapshot[1].ID, snapshot[2].ID})
	for _, item := range snapshot {
		assert.False(t, item.Selected)
		assert.True(t, item.Discount.IsZero())
	}
}

func TestLoadRejectsMalformedRecords(t *testing.T) {
	cases := []struct {
		name    string
		records []FeeRecord
	}{
		{"missing id", []FeeRecord{{DisplayName: "Tuition", Amount: decimal.NewFromInt(100)}}},
		{"blank id", []FeeRecord{record("  ", "Tuition", "100")}},
		{"duplicate id", []FeeRecord{record("1", "Tuition", "100"), record("1", "Library", "50")}},
		{"negative amount", []FeeRecord{record("1", "Tuition", "-0.01")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			registry, err := Load(tc.records)
			assert.Nil(t, registry)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestSetSelectedUnknownIDIsNoOp(t *testing.T) {
	registry, err := Load([]FeeRecord{record("1", "Tuition", "500.00")})
	require.NoError(t, err)

	registry.SetSelected("missing", true)

	snapshot := registry.Snapshot()
	assert.False(t, snapshot[0].Selected)
}

func TestSetDiscountClampsToAmount(t *testing.T) {
	registry, err := Load([]FeeRecord{record("1", "Tuition", "100.00")})
	require.NoError(t, err)

	notice := registry.SetDiscount("1", "150")
	require.NotNil(t, notice)
	assert.Equal(t, "1", notice.ItemID)
	assert.True(t, notice.Clamped.Equal(decimal.RequireFromString("100.00")))

	item := registry.Snapshot()[0]
	assert.True(t, item.Discount.Equal(decimal.RequireFromString("100.00")))
}

func TestSetDiscountParseFailureCountsAsZero(t *testing.T) {
	registry, err := Load([]FeeRecord{record("1", "Tuition", "100.00")})
	require.NoError(t, err)
	registry.SetDiscount("1", "30")

	for _, raw := range []string{"", "abc", "12.3.4", "-5"} {
		notice := registry.SetDiscount("1", raw)
		assert.Nil(t, notice, "raw %q", raw)
		assert.True(t, registry.Snapshot()[0].Discount.IsZero(), "raw %q", raw)
	}
}

func TestSetDiscountUnknownIDIsNoOp(t *testing.T) {
	registry, err := Load([]FeeRecord{record("1", "Tuition", "100.00")})
	require.NoError(t, err)

	notice := registry.SetDiscount("missing", "50")
	assert.Nil(t, notice)
	assert.True(t, registry.Snapshot()[0].Discount.IsZero())
}

// After any sequence of writes, 0 <= discount <= amount must hold on
// every item.
func TestDiscountInvariantHoldsAfterMutations(t *testing.T) {
	registry, err := Load([]FeeRecord{
		record("1", "Tuition", "500.00"),
		record("2", "Library", "300.00"),
	})
	require.NoError(t, err)

	edits := []struct{ id, raw string }{
		{"1", "9999"}, {"1", "-3"}, {"2", "300.01"}, {"2", "299.99"},
		{"1", "0"}, {"2", "garbage"}, {"1", "500.00"},
	}
	for _, edit := range edits {
		registry.SetDiscount(edit.id, edit.raw)
		for _, item := range registry.Snapshot() {
			assert.False(t, item.Discount.IsNegative(), "discount below zero on %s", item.ID)
			assert.False(t, item.Discount.GreaterThan(item.Amount), "discount above amount on %s", item.ID)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	registry, err := Load([]FeeRecord{record("1", "Tuition", "500.00")})
	require.NoError(t, err)

	snapshot := registry.Snapshot()
	snapshot[0].Selected = true
	snapshot[0].Discount = decimal.NewFromInt(400)

	fresh := registry.Snapshot()
	assert.False(t, fresh[0].Selected)
	assert.True(t, fresh[0].Discount.IsZero())
}
