package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OliverSkoczylas/SXM-GO/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type nopStorage struct{}

func (nopStorage) ListUserFiles(userID string) ([]string, error) { return nil, nil }
func (nopStorage) RemoveUserFiles(userID string) error           { return nil }

type nopAuth struct{}

func (nopAuth) AdminDeleteUser(userID string) error { return nil }

func newPrivacyApp(t *testing.T) (*fiber.App, *services.PrivacyService) {
	t.Helper()
	svc := services.NewPrivacyService(setupTestDB(t), nopStorage{}, nopAuth{})
	app := fiber.New()
	SetupPrivacyRoutes(app, svc, stubVerifier{userID: testUser})
	return app, svc
}

func TestConsentRoundTrip(t *testing.T) {
	app, _ := newPrivacyApp(t)

	resp := httpDo(t, app, "POST", "/privacy/consent", fiber.Map{
		"consentType": "analytics",
		"granted":     true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = httpDo(t, app, "GET", "/privacy/consent", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, map[string]any{"analytics": true}, decodeBody(t, resp))
}

func TestConsentMissingType(t *testing.T) {
	app, _ := newPrivacyApp(t)

	resp := httpDo(t, app, "POST", "/privacy/consent", fiber.Map{"granted": true})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteAccountConflict(t *testing.T) {
	app, svc := newPrivacyApp(t)
	seedProfile(t, svc.DB, testUser)

	resp := httpDo(t, app, "POST", "/privacy/delete-account", fiber.Map{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Contains(t, body["message"], "scheduled for deletion")

	resp = httpDo(t, app, "POST", "/privacy/delete-account", fiber.Map{})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCancelDeletionNotFound(t *testing.T) {
	app, _ := newPrivacyApp(t)

	resp := httpDo(t, app, "POST", "/privacy/delete-account/cancel", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportSetsAttachmentHeader(t *testing.T) {
	app, svc := newPrivacyApp(t)
	seedProfile(t, svc.DB, testUser)

	resp := httpDo(t, app, "POST", "/privacy/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	body := decodeBody(t, resp)
	require.Equal(t, testUser, body["user_id"])
}

func TestAdminProcessDeletionsAuth(t *testing.T) {
	t.Setenv("DELETION_WEBHOOK_SECRET", "test-webhook-secret")
	t.Setenv("AUTH_SERVICE_KEY", "")

	svc := services.NewPrivacyService(setupTestDB(t), nopStorage{}, nopAuth{})
	checkins := services.NewCheckInService(svc.DB, services.NewGamifyService(svc.DB))
	app := fiber.New()
	SetupAdminRoutes(app, svc, checkins)

	// No credentials: rejected.
	req := httptest.NewRequest("POST", "/admin/process-deletions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Webhook secret: accepted.
	req = httptest.NewRequest("POST", "/admin/process-deletions", nil)
	req.Header.Set("X-Webhook-Secret", "test-webhook-secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.EqualValues(t, 0, body["processed"])
}

func TestAdminCreateLocation(t *testing.T) {
	t.Setenv("DELETION_WEBHOOK_SECRET", "test-webhook-secret")
	t.Setenv("AUTH_SERVICE_KEY", "")

	svc := services.NewPrivacyService(setupTestDB(t), nopStorage{}, nopAuth{})
	checkins := services.NewCheckInService(svc.DB, services.NewGamifyService(svc.DB))
	app := fiber.New()
	SetupAdminRoutes(app, svc, checkins)

	req := httptest.NewRequest("POST", "/admin/locations", nil)
	req.Header.Set("X-Webhook-Secret", "test-webhook-secret")
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
