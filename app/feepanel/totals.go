package feepanel

import "github.com/shopspring/decimal"

// Totals is the derived summary of one registry snapshot.
type Totals struct {
	SelectedTotal decimal.Decimal
	DiscountTotal decimal.Decimal
	PayableTotal  decimal.Decimal
	SelectedCount int
}

// Compute derives the totals over a full snapshot. Unselected items never
// contribute, whatever their stored discount. The discount write clamp
// keeps every term non-negative, so PayableTotal never goes below zero.
func Compute(snapshot []LineItem) Totals {
	t := Totals{
		SelectedTotal: decimal.Zero,
		DiscountTotal: decimal.Zero,
	}
	for _, item := range snapshot {
		if !item.Selected {
			continue
		}
		t.SelectedTotal = t.SelectedTotal.Add(item.Amount)
		t.DiscountTotal = t.DiscountTotal.Add(item.Discount)
		t.SelectedCount++
	}
	t.PayableTotal = t.SelectedTotal.Sub(t.DiscountTotal)
	return t
}
