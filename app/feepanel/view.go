package feepanel

import "github.com/shopspring/decimal"

// RowView is the rendered state of one fee row.
type RowView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Amount      string `json:"amount"`
	Discount    string `json:"discount"`
	Payable     string `json:"payable"`
	Selected    bool   `json:"selected"`
	Active      bool   `json:"active"`
	IsOverdue   bool   `json:"is_overdue"`
	DueDate     string `json:"due_date,omitempty"`
}

// PanelView is the rendered state of the whole panel.
type PanelView struct {
	Rows            []RowView `json:"rows"`
	SelectedTotal   string    `json:"total_selected"`
	DiscountTotal   string    `json:"total_discount"`
	PayableTotal    string    `json:"total_payable"`
	SelectedCount   int       `json:"selected_count"`
	SubmitEnabled   bool      `json:"submit_enabled"`
	DiscountEnabled bool      `json:"discount_enabled"`
}

// Render maps totals and a snapshot to a view. Selected rows show amount
// minus discount and are styled active; unselected rows show the full
// amount so staff can see what paying them would cost. Render is pure and
// never touches the registry.
func Render(totals Totals, snapshot []LineItem, currency string) PanelView {
	view := PanelView{
		Rows:          make([]RowView, 0, len(snapshot)),
		SelectedTotal: FormatAmount(currency, totals.SelectedTotal),
		DiscountTotal: FormatAmount(currency, totals.DiscountTotal),
		PayableTotal:  FormatAmount(currency, totals.PayableTotal),
		SelectedCount: totals.SelectedCount,
		SubmitEnabled: totals.SelectedCount > 0,
	}
	for _, item := range snapshot {
		row := RowView{
			ID:          item.ID,
			DisplayName: item.DisplayName,
			Amount:      FormatAmount(currency, item.Amount),
			Discount:    FormatAmount(currency, item.Discount),
			Selected:    item.Selected,
			Active:      item.Selected,
			IsOverdue:   item.IsOverdue,
			DueDate:     item.DueDate,
		}
		if item.Selected {
			row.Payable = FormatAmount(currency, item.Payable())
		} else {
			row.Payable = FormatAmount(currency, item.Amount)
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// FormatAmount renders a monetary value with the currency code and exactly
// two fractional digits. StringFixed rounds half away from zero.
func FormatAmount(currency string, value decimal.Decimal) string {
	return currency + " " + value.StringFixed(2)
}
