package controllers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equiptrack-backend/database"
	"equiptrack-backend/mailer"
	"equiptrack-backend/models"
)

type recordingSender struct {
	to      []string
	sendErr error
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.to = append(r.to, to)
	return r.sendErr
}

func TestRegisterWarrantyTwice(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d := seedDistributor(t, "Deccan Appliances")
	machineID := createMachine(t, app, model.ID, "TC-200")
	createSupply(t, app, machineID, d.ID)
	createSale(t, app, machineID, d.ID)

	payload := map[string]any{
		"machine_id": machineID,
		"name":       "  Asha Rao  ",
		"address":    "14 Lakeview Road, Pune",
		"state":      "Maharashtra",
		"zip_code":   "411001",
	}

	status, body := doJSON(t, app, http.MethodPost, "/api/warranty-certificates",
		tokenFor(t, models.RoleDistributor, &d.ID), payload)
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, "India", body["country"])
	assert.Equal(t, "Asha Rao", body["name"])

	status, body = doJSON(t, app, http.MethodPost, "/api/warranty-certificates",
		tokenFor(t, models.RoleDistributor, &d.ID), payload)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "machine not eligible for warranty registration", body["message"])

	var certs int64
	require.NoError(t, database.DB.Model(&models.WarrantyCertificate{}).Count(&certs).Error)
	assert.EqualValues(t, 1, certs)
}

func TestRegisterWarrantyRequiresSale(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d := seedDistributor(t, "Deccan Appliances")
	machineID := createMachine(t, app, model.ID, "TC-201")
	createSupply(t, app, machineID, d.ID)

	status, body := doJSON(t, app, http.MethodPost, "/api/warranty-certificates",
		tokenFor(t, models.RoleDistributor, &d.ID), map[string]any{
			"machine_id": machineID,
			"name":       "Asha Rao",
			"address":    "14 Lakeview Road, Pune",
		})
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "machine not eligible for warranty registration", body["message"])
}

// TestWarrantyMailIsBestEffort pins the availability-over-consistency
// choice: a failing mail transport must not undo or fail the registration.
func TestWarrantyMailIsBestEffort(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d := seedDistributor(t, "Deccan Appliances")
	machineID := createMachine(t, app, model.ID, "TC-202")
	createSupply(t, app, machineID, d.ID)
	createSale(t, app, machineID, d.ID)

	sender := &recordingSender{sendErr: errors.New("smtp unreachable")}
	old := mailer.Default
	mailer.Default = sender
	t.Cleanup(func() { mailer.Default = old })

	status, _ := doJSON(t, app, http.MethodPost, "/api/warranty-certificates",
		tokenFor(t, models.RoleDistributor, &d.ID), map[string]any{
			"machine_id": machineID,
			"name":       "Asha Rao",
			"address":    "14 Lakeview Road, Pune",
		})
	require.Equal(t, http.StatusOK, status)

	// The send was attempted against the sale's email, and the certificate
	// survived its failure.
	assert.Equal(t, []string{"asha@example.com"}, sender.to)
	m := reloadMachine(t, machineID)
	assert.NotNil(t, m.CertificateID)
}

// TestWarrantyMailSkippedOnFailedRegistration: the hook only runs after a
// successful commit, so a refused registration sends nothing.
func TestWarrantyMailSkippedOnFailedRegistration(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d := seedDistributor(t, "Deccan Appliances")
	machineID := createMachine(t, app, model.ID, "TC-203")
	createSupply(t, app, machineID, d.ID)

	sender := &recordingSender{}
	old := mailer.Default
	mailer.Default = sender
	t.Cleanup(func() { mailer.Default = old })

	status, _ := doJSON(t, app, http.MethodPost, "/api/warranty-certificates",
		tokenFor(t, models.RoleDistributor, &d.ID), map[string]any{
			"machine_id": machineID,
			"name":       "Asha Rao",
			"address":    "14 Lakeview Road, Pune",
		})
	require.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, sender.to)
}
