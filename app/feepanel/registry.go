package feepanel

import (
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

// FeeRecord is one payable item as supplied by the fee aggregation service.
type FeeRecord struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	Amount      decimal.Decimal `json:"amount"`
	IsOverdue   bool            `json:"is_overdue"`
	DueDate     string          `json:"due_date,omitempty"`
}

// LineItem is one fee row held by a panel registry.
type LineItem struct {
	ID          string
	DisplayName string
	Amount      decimal.Decimal
	Discount    decimal.Decimal
	Selected    bool
	IsOverdue   bool
	DueDate     string
}

// Payable returns what this item costs after its discount.
func (li LineItem) Payable() decimal.Decimal {
	return li.Amount.Sub(li.Discount)
}

// ValidationError reports a malformed fee snapshot. The panel must not
// open partially loaded, so loading stops at the first bad record.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid fee snapshot: " + e.Reason
}

// DiscountClamped is raised when a discount entry exceeded the item
// amount and the clamped value was stored instead.
type DiscountClamped struct {
	ItemID  string
	Clamped decimal.Decimal
}

// Registry holds the fee line items of one open panel. Insertion order is
// the display order.
type Registry struct {
	items []*LineItem
	index map[string]*LineItem
}

// Load builds a registry from a server-provided fee snapshot. Every item
// starts unselected with a zero discount.
func Load(records []FeeRecord) (*Registry, error) {
	r := &Registry{index: make(map[string]*LineItem, len(records))}
	for _, rec := range records {
		if strings.TrimSpace(rec.ID) == "" {
			return nil, &ValidationError{Reason: "fee record without id"}
		}
		if _, exists := r.index[rec.ID]; exists {
			return nil, &ValidationError{Reason: "duplicate fee id " + rec.ID}
		}
		if rec.Amount.IsNegative() {
			return nil, &ValidationError{Reason: "negative amount on fee " + rec.ID}
		}
		item := &LineItem{
			ID:          rec.ID,
			DisplayName: rec.DisplayName,
			Amount:      rec.Amount,
			Discount:    decimal.Zero,
			IsOverdue:   rec.IsOverdue,
			DueDate:     rec.DueDate,
		}
		r.items = append(r.items, item)
		r.index[rec.ID] = item
	}
	return r, nil
}

// SetSelected marks one item for inclusion in the payment. Unknown ids
// are tolerated and only logged.
func (r *Registry) SetSelected(id string, selected bool) {
	item, ok := r.index[id]
	if !ok {
		log.Printf("feepanel: select on unknown fee %s ignored", id)
		return
	}
	item.Selected = selected
}

// SetDiscount stores a discount for one item. Input that does not parse
// as a non-negative decimal counts as zero; values above the item amount
// are clamped, never rejected. The returned notice is non-nil only when
// clamping happened.
func (r *Registry) SetDiscount(id string, raw string) *DiscountClamped {
	item, ok := r.index[id]
	if !ok {
		log.Printf("feepanel: discount on unknown fee %s ignored", id)
		return nil
	}
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		value = decimal.Zero
	}
	if value.GreaterThan(item.Amount) {
		item.Discount = item.Amount
		return &DiscountClamped{ItemID: id, Clamped: item.Amount}
	}
	item.Discount = value
	return nil
}

// Snapshot returns a copy of the registry rows in display order.
func (r *Registry) Snapshot() []LineItem {
	out := make([]LineItem, len(r.items))
	for i, item := range r.items {
		out[i] = *item
	}
	return out
}

// Len returns the number of line items.
func (r *Registry) Len() int {
	return len(r.items)
}
