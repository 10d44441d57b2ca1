package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OliverSkoczylas/SXM-GO/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newGamifyApp(t *testing.T, verifier stubVerifier) (*fiber.App, *services.GamifyService) {
	t.Helper()
	db := setupTestDB(t)
	svc := services.NewGamifyService(db)
	app := fiber.New()
	SetupGamifyRoutes(app, svc, verifier)
	return app, svc
}

func TestGamifyEventRequiresAuth(t *testing.T) {
	app, _ := newGamifyApp(t, stubVerifier{userID: testUser})

	req := httptest.NewRequest("POST", "/gamify-event", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Missing authorization header", decodeBody(t, resp)["error"])
}

func TestGamifyEventRejectsBadToken(t *testing.T) {
	app, _ := newGamifyApp(t, stubVerifier{err: errors.New("expired")})

	resp := httpDo(t, app, "POST", "/gamify-event", fiber.Map{"eventId": "E1"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid or expired token", decodeBody(t, resp)["error"])
}

func TestGamifyEventMissingEventID(t *testing.T) {
	app, svc := newGamifyApp(t, stubVerifier{userID: testUser})
	seedProfile(t, svc.DB, testUser)

	resp := httpDo(t, app, "POST", "/gamify-event", fiber.Map{"eventType": "checkin"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Missing eventId", decodeBody(t, resp)["error"])
}

func TestGamifyEventSuccessShape(t *testing.T) {
	app, svc := newGamifyApp(t, stubVerifier{userID: testUser})
	seedProfile(t, svc.DB, testUser)

	resp := httpDo(t, app, "POST", "/gamify-event", fiber.Map{
		"eventType": "checkin",
		"eventId":   "E1",
		"meta":      fiber.Map{"category": "beach"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.EqualValues(t, 25, body["pointsAwarded"])
	require.Equal(t, false, body["duplicate"])
	require.EqualValues(t, 25, body["newTotalPoints"])

	// The arrays are always present, empty rather than null.
	require.NotNil(t, body["completedChallenges"])
	require.Empty(t, body["completedChallenges"])
	require.NotNil(t, body["newBadges"])
	require.NotNil(t, body["progressUpdates"])
}

func TestGamifyEventDuplicateIsOK(t *testing.T) {
	app, svc := newGamifyApp(t, stubVerifier{userID: testUser})
	seedProfile(t, svc.DB, testUser)

	resp := httpDo(t, app, "POST", "/gamify-event", fiber.Map{"eventId": "E1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = httpDo(t, app, "POST", "/gamify-event", fiber.Map{"eventId": "E1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["duplicate"])
	require.EqualValues(t, 0, body["pointsAwarded"])
	require.Nil(t, body["newTotalPoints"])
}

func TestGamifyEventProfileMissing(t *testing.T) {
	app, _ := newGamifyApp(t, stubVerifier{userID: testUser})

	resp := httpDo(t, app, "POST", "/gamify-event", fiber.Map{"eventId": "E1"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "Profile not found", decodeBody(t, resp)["error"])
}
