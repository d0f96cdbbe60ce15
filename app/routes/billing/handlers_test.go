package billing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Upmanyu201/SchoolManagementSystem/app/feepanel"
	"github.com/Upmanyu201/SchoolManagementSystem/app/services"
)

type fakeFeeSource struct {
	records map[string][]feepanel.FeeRecord
	err     error
}

func (f *fakeFeeSource) PayableFees(studentID string) ([]feepanel.FeeRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[studentID], nil
}

type fakePaymentProcessor struct {
	lastStudent string
	lastItems   []feepanel.SelectedItem
	result      *services.PaymentResult
	err         error
}

func (f *fakePaymentProcessor) Process(studentID string, items []feepanel.SelectedItem, details services.PaymentDetails) (*services.PaymentResult, error) {
	f.lastStudent = studentID
	f.lastItems = items
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func money(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func studentFees(t *testing.T) []feepanel.FeeRecord {
	t.Helper()
	return []feepanel.FeeRecord{
		{ID: "fee-1", DisplayName: "Tuition Term 1", Amount: money(t, "500")},
		{ID: "fee-2", DisplayName: "Library Fee", Amount: money(t, "120.50"), IsOverdue: true},
	}
}

func newTestAPI(t *testing.T, fees *fakeFeeSource, payments *fakePaymentProcessor) (*API, *fiber.App) {
	t.Helper()
	api := &API{
		Panels:   feepanel.NewManager(),
		Fees:     fees,
		Payments: payments,
		Currency: "UGX",
	}
	app := fiber.New()
	api.Register(app.Group("/api/billing"))
	return api, app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed), "response was not JSON: %s", raw)
	return resp.StatusCode, parsed
}

func openPanel(t *testing.T, app *fiber.App, studentID string, discounts bool) string {
	t.Helper()
	status, resp := doJSON(t, app, http.MethodPost, "/api/billing/panels", fiber.Map{
		"student_id":       studentID,
		"discount_enabled": discounts,
	})
	require.Equal(t, 201, status)
	data := resp["data"].(map[string]interface{})
	panelID := data["panel_id"].(string)
	require.NotEmpty(t, panelID)
	return panelID
}

func panelView(resp map[string]interface{}) map[string]interface{} {
	return resp["data"].(map[string]interface{})
}

func TestOpenPanelReturnsInitialView(t *testing.T) {
	fees := &fakeFeeSource{records: map[string][]feepanel.FeeRecord{"stu-1": studentFees(t)}}
	_, app := newTestAPI(t, fees, &fakePaymentProcessor{})

	status, resp := doJSON(t, app, http.MethodPost, "/api/billing/panels", fiber.Map{
		"student_id": "stu-1",
	})
	require.Equal(t, 201, status)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["panel_id"])

	view := data["view"].(map[string]interface{})
	rows := view["rows"].([]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "UGX 0.00", view["total_payable"])
	assert.Equal(t, false, view["submit_enabled"])
	assert.Equal(t, false, view["discount_enabled"])

	first := rows[0].(map[string]interface{})
	assert.Equal(t, "fee-1", first["id"])
	assert.Equal(t, "UGX 500.00", first["amount"])
	assert.Equal(t, false, first["selected"])
}

func TestOpenPanelRejectsBadSnapshot(t *testing.T) {
	duplicate := []feepanel.FeeRecord{
		{ID: "fee-1", Amount: decimal.NewFromInt(100)},
		{ID: "fee-1", Amount: decimal.NewFromInt(200)},
	}
	fees := &fakeFeeSource{records: map[string][]feepanel.FeeRecord{"stu-1": duplicate}}
	_, app := newTestAPI(t, fees, &fakePaymentProcessor{})

	status, resp := doJSON(t, app, http.MethodPost, "/api/billing/panels", fiber.Map{
		"student_id": "stu-1",
	})
	assert.Equal(t, 422, status)
	assert.Contains(t, resp["error"], "duplicate fee id")
}

func TestOpenPanelRequiresStudent(t *testing.T) {
	_, app := newTestAPI(t, &fakeFeeSource{}, &fakePaymentProcessor{})

	status, _ := doJSON(t, app, http.MethodPost, "/api/billing/panels", fiber.Map{})
	assert.Equal(t, 400, status)
}

func TestGetPanelUnknownID(t *testing.T) {
	_, app := newTestAPI(t, &fakeFeeSource{}, &fakePaymentProcessor{})

	status, resp := doJSON(t, app, http.MethodGet, "/api/billing/panels/missing", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "Panel not found", resp["error"])
}

func TestSelectAndDiscountFlow(t *testing.T) {
	fees := &fakeFeeSource{records: map[string][]feepanel.FeeRecord{"stu-1": studentFees(t)}}
	_, app := newTestAPI(t, fees, &fakePaymentProcessor{})
	panelID := openPanel(t, app, "stu-1", true)

	status, resp := doJSON(t, app, http.MethodPost, "/api/billing/panels/"+panelID+"/select", fiber.Map{
		"fee_id":   "fee-1",
		"selected": true,
	})
	require.Equal(t, 200, status)
	view := panelView(resp)
	assert.Equal(t, true, view["submit_enabled"])
	assert.Equal(t, "UGX 500.00", view["total_payable"])

	status, resp = doJSON(t, app, http.MethodPost, "/api/billing/panels/"+panelID+"/discount", fiber.Map{
		"fee_id": "fee-1",
		"value":  "120.50",
	})
	require.Equal(t, 200, status)
	view = panelView(resp)
	assert.Equal(t, "UGX 120.50", view["total_discount"])
	assert.Equal(t, "UGX 379.50", view["total_payable"])
	_, warned := resp["warning"]
	assert.False(t, warned)
}

func TestDiscountClampWarning(t *testing.T) {
	fees := &fakeFeeSource{records: map[string][]feepanel.FeeRecord{"stu-1": studentFees(t)}}
	_, app := newTestAPI(t, fees, &fakePaymentProcessor{})
	panelID := openPanel(t, app, "stu-1", true)

	status, resp := doJSON(t, app, http.MethodPost, "/api/billing/panels/"+panelID+"/discount", fiber.Map{
		"fee_id": "fee-2",
		"value":  "999",
	})
	require.Equal(t, 200, status)

	warning, ok := resp["warning"].(map[string]interface{})
	require.True(t, ok, "expected a clamp warning")
	assert.Equal(t, "fee-2", warning["fee_id"])
	assert.Equal(t, "120.50", warning["clamped_value"])
}

func TestDiscountDisabledPanel(t *testing.T) {
	fees := &fakeFeeSource{records: map[string][]feepanel.FeeRecord{"stu-1": studentFees(t)}}
	_, app := newTestAPI(t, fees, &fakePaymentProcessor{})
	panelID := openPanel(t, app, "stu-1", false)

	status, resp := doJSON(t, app, http.MethodPost, "/api/billing/panels/"+panelID+"/discount", fiber.Map{
		"fee_id": "fee-1",
		"value":  "50",
	})
	assert.Equal(t, 403, status)
	assert.Contains(t, resp["error"], "not enabled")
}

func TestSubmitPaymentClosesPanel(t *testing.T) {
	fees := &fakeFeeSource{records: map[string][]feepanel.FeeRecord{"stu-1": studentFees(t)}}
	payments := &fakePaymentProcessor{result: &services.PaymentResult{
		ReceiptNo: "RCP-20260827-ABC123",
		Total:     money(t, "379.50"),
		ItemCount: 1,
	}}
	api, app := newTestAPI(t, fees, payments)
	panelID := openPanel(t, app, "stu-1", true)

	_, _ = doJSON(t, app, http.MethodPost, "/api/billing/panels/"+panelID+"/select", fiber.Map{
		"fee_id":   "fee-1",
		"selected": true,
	})
	_, _ = doJSON(t, app, http.MethodPost, "/api/billing/panels/"+panelID+"/discount", fiber.Map{
		"fee_id": "fee-1",
		"value":  "120.50",
	})

	status, resp := doJSON(t, app, http.MethodPost, "/api/billing/panels/"+panelID+"/submit", fiber.Map{
		"payment_mode": "cash",
	})
	require.Equal(t, 200, status)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "RCP-20260827-ABC123", data["receipt_no"])

	assert.Equal(t, "stu-1", payments.lastStudent)
	require.Len(t, payments.lastItems, 1)
	assert.Equal(t, "fee-1", payments.lastItems[0].ID)
	assert.True(t, money(t, "120.50").Equal(payments.lastItems[0].Discount))

	// The panel must be gone once the payment landed.
	assert.Equal(t, 0, api.Panels.Count())
	status, _ = doJSON(t, app, http.MethodGet, "/api/billing/panels/"+panelID, nil)
	assert.Equal(t, 404, status)
}

func TestSubmitPaymentRejectionsKeepPanelOpen(t *testing.T) {
	fees := &fakeFeeSource{records: map[string][]feepanel.FeeRecord{"stu-1": studentFees(t)}}
	payments := &fakePaymentProcessor{err: services.ErrNoItemsSelected}
	api, app := newTestAPI(t, fees, payments)
	panelID := openPanel(t, app, "stu-1", false)

	status, resp := doJSON(t, app, http.MethodPost, "/api/billing/panels/"+panelID+"/submit", fiber.Map{
		"payment_mode": "cash",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, services.ErrNoItemsSelected.Error(), resp["error"])
	assert.Equal(t, 1, api.Panels.Count())
}

func TestClosePanelAPI(t *testing.T) {
	fees := &fakeFeeSource{records: map[string][]feepanel.FeeRecord{"stu-1": studentFees(t)}}
	api, app := newTestAPI(t, fees, &fakePaymentProcessor{})
	panelID := openPanel(t, app, "stu-1", false)

	status, _ := doJSON(t, app, http.MethodDelete, "/api/billing/panels/"+panelID, nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, 0, api.Panels.Count())

	// Closing again is a harmless no-op.
	status, _ = doJSON(t, app, http.MethodDelete, "/api/billing/panels/"+panelID, nil)
	assert.Equal(t, 200, status)
}

func TestGetPayableFeesAPI(t *testing.T) {
	fees := &fakeFeeSource{records: map[string][]feepanel.FeeRecord{"stu-1": studentFees(t)}}
	_, app := newTestAPI(t, fees, &fakePaymentProcessor{})

	status, resp := doJSON(t, app, http.MethodGet, "/api/billing/students/stu-1/payable-fees", nil)
	require.Equal(t, 200, status)
	records := resp["data"].([]interface{})
	assert.Len(t, records, 2)

	// Unknown students simply have nothing payable.
	status, resp = doJSON(t, app, http.MethodGet, "/api/billing/students/ghost/payable-fees", nil)
	require.Equal(t, 200, status)
	assert.Empty(t, resp["data"])
}

func TestGetPayableFeesSourceError(t *testing.T) {
	fees := &fakeFeeSource{err: fmt.Errorf("connection refused")}
	_, app := newTestAPI(t, fees, &fakePaymentProcessor{})

	status, resp := doJSON(t, app, http.MethodGet, "/api/billing/students/stu-1/payable-fees", nil)
	assert.Equal(t, 500, status)
	assert.Equal(t, "Failed to load payable fees", resp["error"])
}
