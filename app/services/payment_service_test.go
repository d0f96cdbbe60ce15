package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Upmanyu201/SchoolManagementSystem/app/feepanel"
	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
)

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func validDetails() PaymentDetails {
	return PaymentDetails{
		Mode:        models.PaymentModeCash,
		ProcessedBy: "bursar-1",
		DepositDate: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildPaymentWriteRejectsEmptySelection(t *testing.T) {
	_, _, err := BuildPaymentWrite("student-1", nil, validDetails())
	assert.ErrorIs(t, err, ErrNoItemsSelected)
}

func TestBuildPaymentWriteRejectsBadMode(t *testing.T) {
	details := validDetails()
	details.Mode = "Barter"
	items := []feepanel.SelectedItem{{ID: "f1", Amount: money("100")}}
	_, _, err := BuildPaymentWrite("student-1", items, details)
	assert.ErrorIs(t, err, ErrBadPaymentMode)
}

func TestBuildPaymentWriteRejectsMissingProcessor(t *testing.T) {
	details := validDetails()
	details.ProcessedBy = "  "
	items := []feepanel.SelectedItem{{ID: "f1", Amount: money("100")}}
	_, _, err := BuildPaymentWrite("student-1", items, details)
	assert.ErrorIs(t, err, ErrMissingProcessor)
}

func TestBuildPaymentWriteRejectsZeroTotal(t *testing.T) {
	items := []feepanel.SelectedItem{{ID: "f1", Amount: money("0")}}
	_, _, err := BuildPaymentWrite("student-1", items, validDetails())
	assert.ErrorIs(t, err, ErrNothingPayable)
}

func TestBuildPaymentWriteRoutesItemKinds(t *testing.T) {
	items := []feepanel.SelectedItem{
		{ID: CarryForwardID, Amount: money("200.00")},
		{ID: "fee-7", Amount: money("500.00"), Discount: money("50.00")},
		{ID: "fine_9", Amount: money("25.00")},
	}
	write, result, err := BuildPaymentWrite("student-1", items, validDetails())
	require.NoError(t, err)

	assert.True(t, write.SettleCarryForward)
	assert.Equal(t, []string{"fee-7"}, write.SettledFeeIDs)
	assert.Equal(t, []string{"9"}, write.SettledFineIDs)
	require.Len(t, write.Deposits, 3)

	assert.Nil(t, write.Deposits[0].FeeID)
	assert.Equal(t, "Carry Forward Payment", write.Deposits[0].Note)
	assert.Equal(t, "Fee Payment", write.Deposits[1].Note)
	assert.Equal(t, "Fine Payment", write.Deposits[2].Note)

	// 200 + (500 - 50) + 25
	assert.True(t, result.Total.Equal(money("675.00")), "total %s", result.Total)
	assert.Equal(t, 3, result.ItemCount)
	for _, deposit := range write.Deposits {
		assert.Equal(t, result.ReceiptNo, deposit.ReceiptNo)
	}
}

// Even if a caller bypasses the panel clamp, a deposit row must never
// carry discount > amount or a negative paid amount.
func TestBuildPaymentWriteClampsRogueDiscounts(t *testing.T) {
	items := []feepanel.SelectedItem{
		{ID: "fee-1", Amount: money("100.00"), Discount: money("150.00")},
		{ID: "fee-2", Amount: money("80.00"), Discount: money("-5")},
	}
	write, result, err := BuildPaymentWrite("student-1", items, validDetails())
	require.NoError(t, err)

	assert.True(t, write.Deposits[0].Discount.Equal(money("100.00")))
	assert.True(t, write.Deposits[0].PaidAmount.IsZero())
	assert.True(t, write.Deposits[1].Discount.IsZero())
	assert.True(t, write.Deposits[1].PaidAmount.Equal(money("80.00")))
	assert.True(t, result.Total.Equal(money("80.00")))
}

func TestBuildPaymentWriteSkipsZeroAmountItems(t *testing.T) {
	items := []feepanel.SelectedItem{
		{ID: "fee-1", Amount: money("0")},
		{ID: "fee-2", Amount: money("60.00")},
	}
	write, result, err := BuildPaymentWrite("student-1", items, validDetails())
	require.NoError(t, err)
	assert.Len(t, write.Deposits, 1)
	assert.Equal(t, 1, result.ItemCount)
}

func TestNewReceiptNoFormat(t *testing.T) {
	at := time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC)
	receipt := NewReceiptNo(at)
	assert.Regexp(t, regexp.MustCompile(`^RCP-20260827-[0-9A-F]{6}$`), receipt)

	// Two receipts issued the same day must still differ.
	assert.NotEqual(t, receipt, NewReceiptNo(at))
}
