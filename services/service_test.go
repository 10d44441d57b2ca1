package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/OliverSkoczylas/SXM-GO/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory database so tests cannot interfere
// with each other. TranslateError matches production: unique-constraint
// violations surface as gorm.ErrDuplicatedKey.
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

func seedChallenge(t *testing.T, db *gorm.DB, goalType string, goalValue int, meta map[string]any) models.Challenge {
	t.Helper()
	ch := models.Challenge{
		ID:        uuid.NewString(),
		Name:      goalType + " challenge",
		GoalType:  goalType,
		GoalValue: goalValue,
		Metadata:  meta,
	}
	require.NoError(t, db.Create(&ch).Error)
	return ch
}

func seedBadge(t *testing.T, db *gorm.DB, tier string, threshold int) models.Badge {
	t.Helper()
	b := models.Badge{
		ID:        uuid.NewString(),
		Name:      tier + " badge",
		Tier:      tier,
		RuleType:  models.BadgeRulePointsThreshold,
		Threshold: threshold,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}
