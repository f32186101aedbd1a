package controllers_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"equiptrack-backend/database"
	"equiptrack-backend/models"
)

// TestDirectSaleReversalLifecycle walks the full happy path: intake, supply
// to the D2C channel, direct sale, reversal, then redistribution to a
// different distributor.
func TestDirectSaleReversalLifecycle(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d2c := d2cDistributor(t)
	other := seedDistributor(t, "Deccan Appliances")

	machineID := createMachine(t, app, model.ID, "TC-001")
	supplyID := createSupply(t, app, machineID, d2c.ID)
	createSale(t, app, machineID, d2c.ID)

	status, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/supplies/%d/reverse-sale", supplyID),
		tokenFor(t, models.RoleDispatch, nil), nil)
	require.Equal(t, http.StatusOK, status, "body: %v", body)

	// The machine looks like one that was never supplied.
	m := reloadMachine(t, machineID)
	assert.Nil(t, m.SupplyID)
	assert.Nil(t, m.SaleID)

	var sales, supplies int64
	require.NoError(t, database.DB.Model(&models.Sale{}).Count(&sales).Error)
	require.NoError(t, database.DB.Model(&models.Supply{}).Count(&supplies).Error)
	assert.Zero(t, sales)
	assert.Zero(t, supplies)

	// It shows up as available again...
	status, body = doJSON(t, app, http.MethodGet, "/api/machines/available", tokenFor(t, models.RoleDispatch, nil), nil)
	require.Equal(t, http.StatusOK, status)
	machines := body["machines"].([]any)
	require.Len(t, machines, 1)
	assert.Equal(t, "TC-001", machines[0].(map[string]any)["serial_number"])

	// ...and a fresh supply to a different distributor succeeds.
	createSupply(t, app, machineID, other.ID)
}

func TestReverseDirectSaleBlockedByWarranty(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d2c := d2cDistributor(t)

	machineID := createMachine(t, app, model.ID, "TC-002")
	supplyID := createSupply(t, app, machineID, d2c.ID)
	createSale(t, app, machineID, d2c.ID)

	status, body := doJSON(t, app, http.MethodPost, "/api/warranty-certificates",
		tokenFor(t, models.RoleDistributor, &d2c.ID), map[string]any{
			"machine_id": machineID,
			"name":       "Asha Rao",
			"address":    "14 Lakeview Road, Pune",
			"zip_code":   "411001",
		})
	require.Equal(t, http.StatusOK, status, "body: %v", body)

	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/supplies/%d/reverse-sale", supplyID),
		tokenFor(t, models.RoleDispatch, nil), nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "dependent records block reversal", body["message"])
	assert.Equal(t, []any{"warranty certificate"}, body["blockers"])

	// Nothing was touched.
	m := reloadMachine(t, machineID)
	assert.NotNil(t, m.SupplyID)
	assert.NotNil(t, m.SaleID)
	assert.NotNil(t, m.CertificateID)
}

func TestReverseDirectSaleWrongChannel(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	retail := seedDistributor(t, "Deccan Appliances")

	machineID := createMachine(t, app, model.ID, "TC-003")
	supplyID := createSupply(t, app, machineID, retail.ID)
	createSale(t, app, machineID, retail.ID)

	status, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/supplies/%d/reverse-sale", supplyID),
		tokenFor(t, models.RoleDispatch, nil), nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "supply is not on the direct sale channel", body["message"])

	m := reloadMachine(t, machineID)
	assert.NotNil(t, m.SaleID)
}

func TestReverseDirectSaleWithoutSale(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d2c := d2cDistributor(t)

	machineID := createMachine(t, app, model.ID, "TC-004")
	supplyID := createSupply(t, app, machineID, d2c.ID)

	status, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/supplies/%d/reverse-sale", supplyID),
		tokenFor(t, models.RoleDispatch, nil), nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "no sale to reverse", body["message"])
}

func TestReverseDirectSaleUnknownSupply(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/supplies/999/reverse-sale",
		tokenFor(t, models.RoleDispatch, nil), nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "supply not found", body["message"])
}

// TestReverseDirectSaleAtomicOnSupplyDeleteFault: when the supply deletion
// fails mid-reversal, the whole reversal rolls back — the sale, the supply
// and both machine links all survive. There is no window where the sale is
// gone but the supply remains.
func TestReverseDirectSaleAtomicOnSupplyDeleteFault(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d2c := d2cDistributor(t)

	machineID := createMachine(t, app, model.ID, "TC-006")
	supplyID := createSupply(t, app, machineID, d2c.ID)
	createSale(t, app, machineID, d2c.ID)

	const faultName = "fail_supplies_delete"
	require.NoError(t, database.DB.Callback().Delete().Before("gorm:delete").
		Register(faultName, func(tx *gorm.DB) {
			if tx.Statement.Table == "supplies" {
				tx.AddError(errors.New("storage failure"))
			}
		}))
	t.Cleanup(func() {
		_ = database.DB.Callback().Delete().Remove(faultName)
	})

	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/supplies/%d/reverse-sale", supplyID),
		tokenFor(t, models.RoleDispatch, nil), nil)
	require.Equal(t, http.StatusInternalServerError, status)

	var sales, supplies int64
	require.NoError(t, database.DB.Model(&models.Sale{}).Count(&sales).Error)
	require.NoError(t, database.DB.Model(&models.Supply{}).Count(&supplies).Error)
	assert.EqualValues(t, 1, sales)
	assert.EqualValues(t, 1, supplies)

	m := reloadMachine(t, machineID)
	assert.NotNil(t, m.SaleID)
	assert.NotNil(t, m.SupplyID)
}

func TestReverseDirectSaleListsAllBlockers(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d2c := d2cDistributor(t)

	machineID := createMachine(t, app, model.ID, "TC-005")
	supplyID := createSupply(t, app, machineID, d2c.ID)
	createSale(t, app, machineID, d2c.ID)

	status, _ := doJSON(t, app, http.MethodPost, "/api/warranty-certificates",
		tokenFor(t, models.RoleDistributor, &d2c.ID), map[string]any{
			"machine_id": machineID,
			"name":       "Asha Rao",
			"address":    "14 Lakeview Road, Pune",
		})
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/service-requests",
		tokenFor(t, models.RoleService, nil), map[string]any{
			"machine_id": machineID,
			"complaint":  "pressure drops under load",
		})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/supplies/%d/reverse-sale", supplyID),
		tokenFor(t, models.RoleDispatch, nil), nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.ElementsMatch(t, []any{"warranty certificate", "service requests"}, body["blockers"])
}
