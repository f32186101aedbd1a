package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equiptrack-backend/database"
	"equiptrack-backend/models"
)

func TestServiceRequestRequiresSale(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	machineID := createMachine(t, app, model.ID, "TC-300")

	status, body := doJSON(t, app, http.MethodPost, "/api/service-requests",
		tokenFor(t, models.RoleService, nil), map[string]any{
			"machine_id": machineID,
			"complaint":  "does not start",
		})
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "machine not eligible for service", body["message"])
}

func TestServiceVisitFlow(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d := seedDistributor(t, "Deccan Appliances")
	machineID := createMachine(t, app, model.ID, "TC-301")
	createSupply(t, app, machineID, d.ID)
	createSale(t, app, machineID, d.ID)

	engineer := models.Engineer{Name: "R. Iyer", Phone: "+91-9000000002"}
	require.NoError(t, database.DB.Create(&engineer).Error)

	// A sold machine may accumulate several requests.
	var requestID uint
	for i := 0; i < 2; i++ {
		status, body := doJSON(t, app, http.MethodPost, "/api/service-requests",
			tokenFor(t, models.RoleService, nil), map[string]any{
				"machine_id": machineID,
				"complaint":  fmt.Sprintf("complaint %d", i),
			})
		require.Equal(t, http.StatusOK, status, "body: %v", body)
		requestID = uint(body["id"].(float64))
	}

	// Assign the visit; cost is rounded to two decimals.
	status, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/service-requests/%d/visit", requestID),
		tokenFor(t, models.RoleService, nil), map[string]any{
			"engineer_id": engineer.ID,
			"visit_date":  "2026-02-01T00:00:00Z",
			"issue_type":  "electrical",
			"total_cost":  1499.999,
		})
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, models.VisitStatusPending, body["status"])
	assert.InDelta(t, 1500.00, body["total_cost"].(float64), 0.001)
	visitID := uint(body["id"].(float64))

	// Only one visit per request.
	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/service-requests/%d/visit", requestID),
		tokenFor(t, models.RoleService, nil), map[string]any{
			"engineer_id": engineer.ID,
			"visit_date":  "2026-02-02T00:00:00Z",
		})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "visit already exists for this request", body["message"])

	// PENDING -> COMPLETED is legal...
	status, body = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/service-visits/%d/status", visitID),
		tokenFor(t, models.RoleService, nil), map[string]any{
			"status": models.VisitStatusCompleted,
			"notes":  "replaced the capacitor",
		})
	require.Equal(t, http.StatusOK, status, "body: %v", body)

	// ...but COMPLETED is terminal.
	status, body = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/service-visits/%d/status", visitID),
		tokenFor(t, models.RoleService, nil), map[string]any{
			"status": models.VisitStatusCancelled,
		})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid status transition", body["message"])
}

// TestVisitStatusNotesPatchSemantics: an absent notes field leaves the
// column alone; an explicit empty string clears it.
func TestVisitStatusNotesPatchSemantics(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d := seedDistributor(t, "Deccan Appliances")
	machineID := createMachine(t, app, model.ID, "TC-304")
	createSupply(t, app, machineID, d.ID)
	createSale(t, app, machineID, d.ID)

	engineer := models.Engineer{Name: "R. Iyer"}
	require.NoError(t, database.DB.Create(&engineer).Error)

	newVisit := func(complaint string) uint {
		status, body := doJSON(t, app, http.MethodPost, "/api/service-requests",
			tokenFor(t, models.RoleService, nil), map[string]any{
				"machine_id": machineID,
				"complaint":  complaint,
			})
		require.Equal(t, http.StatusOK, status)
		requestID := uint(body["id"].(float64))

		status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/service-requests/%d/visit", requestID),
			tokenFor(t, models.RoleService, nil), map[string]any{
				"engineer_id": engineer.ID,
				"visit_date":  "2026-02-01T00:00:00Z",
			})
		require.Equal(t, http.StatusOK, status)
		return uint(body["id"].(float64))
	}

	// Absent field: existing notes survive the transition.
	kept := newVisit("noisy bearing")
	require.NoError(t, database.DB.Model(&models.ServiceVisit{}).
		Where("id = ?", kept).Update("notes", "initial diagnosis").Error)
	status, _ := doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/service-visits/%d/status", kept),
		tokenFor(t, models.RoleService, nil), map[string]any{"status": models.VisitStatusCompleted})
	require.Equal(t, http.StatusOK, status)
	var visit models.ServiceVisit
	require.NoError(t, database.DB.First(&visit, kept).Error)
	assert.Equal(t, "initial diagnosis", visit.Notes)

	// Explicit empty string clears them.
	cleared := newVisit("intermittent fault")
	require.NoError(t, database.DB.Model(&models.ServiceVisit{}).
		Where("id = ?", cleared).Update("notes", "draft findings").Error)
	status, _ = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/service-visits/%d/status", cleared),
		tokenFor(t, models.RoleService, nil), map[string]any{
			"status": models.VisitStatusCancelled,
			"notes":  "",
		})
	require.Equal(t, http.StatusOK, status)
	var clearedVisit models.ServiceVisit
	require.NoError(t, database.DB.First(&clearedVisit, cleared).Error)
	assert.Empty(t, clearedVisit.Notes)
}

func TestCompleteVisitForcesClosed(t *testing.T) {
	app := setupApp(t)
	model := seedCatalog(t)
	d := seedDistributor(t, "Deccan Appliances")
	machineID := createMachine(t, app, model.ID, "TC-302")
	createSupply(t, app, machineID, d.ID)
	createSale(t, app, machineID, d.ID)

	engineer := models.Engineer{Name: "R. Iyer"}
	require.NoError(t, database.DB.Create(&engineer).Error)

	status, body := doJSON(t, app, http.MethodPost, "/api/service-requests",
		tokenFor(t, models.RoleService, nil), map[string]any{
			"machine_id": machineID,
			"complaint":  "leaking seal",
		})
	require.Equal(t, http.StatusOK, status)
	requestID := uint(body["id"].(float64))

	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/service-requests/%d/visit", requestID),
		tokenFor(t, models.RoleService, nil), map[string]any{
			"engineer_id": engineer.ID,
			"visit_date":  "2026-02-01T00:00:00Z",
		})
	require.Equal(t, http.StatusOK, status)
	visitID := uint(body["id"].(float64))

	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/service-visits/%d/complete", visitID),
		tokenFor(t, models.RoleService, nil), map[string]any{
			"issue_type": "mechanical",
			"total_cost": 820.50,
		})
	require.Equal(t, http.StatusOK, status, "body: %v", body)

	var visit models.ServiceVisit
	require.NoError(t, database.DB.First(&visit, visitID).Error)
	assert.Equal(t, models.VisitStatusClosed, visit.Status)
	assert.InDelta(t, 820.50, visit.TotalCost, 0.001)
}

func TestVisitCommentsWithAttachments(t *testing.T) {
	app := setupApp(t)
	t.Setenv("MEDIA_BASE_URL", "https://media.example.com/objects")

	model := seedCatalog(t)
	d := seedDistributor(t, "Deccan Appliances")
	machineID := createMachine(t, app, model.ID, "TC-303")
	createSupply(t, app, machineID, d.ID)
	createSale(t, app, machineID, d.ID)

	engineer := models.Engineer{Name: "R. Iyer"}
	require.NoError(t, database.DB.Create(&engineer).Error)

	status, body := doJSON(t, app, http.MethodPost, "/api/service-requests",
		tokenFor(t, models.RoleService, nil), map[string]any{
			"machine_id": machineID,
			"complaint":  "display flicker",
		})
	require.Equal(t, http.StatusOK, status)
	requestID := uint(body["id"].(float64))

	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/service-requests/%d/visit", requestID),
		tokenFor(t, models.RoleService, nil), map[string]any{
			"engineer_id": engineer.ID,
			"visit_date":  "2026-02-01T00:00:00Z",
		})
	require.Equal(t, http.StatusOK, status)
	visitID := uint(body["id"].(float64))

	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/service-visits/%d/comments", visitID),
		tokenFor(t, models.RoleService, nil), map[string]any{
			"text": "photos from the site visit",
			"attachments": []map[string]any{
				{"display_name": "panel.jpg", "object_key": "visits/42/panel.jpg"},
			},
		})
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	attachments := body["attachments"].([]any)
	require.Len(t, attachments, 1)
	att := attachments[0].(map[string]any)
	assert.Equal(t, "panel.jpg", att["display_name"])
	assert.Equal(t, "https://media.example.com/objects/visits/42/panel.jpg", att["url"])

	// The nested read resolves URLs the same way and never returns binary data.
	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/service-requests/%d", requestID),
		tokenFor(t, models.RoleService, nil), nil)
	require.Equal(t, http.StatusOK, status)
	visit := body["visit"].(map[string]any)
	comments := visit["comments"].([]any)
	require.Len(t, comments, 1)
}
