package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OliverSkoczylas/SXM-GO/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testUser = "11111111-1111-1111-1111-111111111111"

// stubVerifier stands in for the identity service.
type stubVerifier struct {
	userID string
	err    error
}

func (s stubVerifier) VerifyToken(token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.userID, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.PointTransaction{},
		&models.Challenge{},
		&models.ChallengeProgress{},
		&models.ChallengeVisitedLocation{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Location{},
		&models.CheckIn{},
		&models.ConsentLog{},
		&models.DeletionRequest{},
	))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Profile{
		ID:          userID,
		DisplayName: "Test User",
	}).Error)
}

// httpDo sends a JSON request with a bearer token through the fiber app.
func httpDo(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer test-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
