package services

import (
	"testing"
	"time"

	"github.com/OliverSkoczylas/SXM-GO/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func seedRankedProfile(t *testing.T, s *LeaderboardService, name string, points int) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, s.DB.Create(&models.Profile{
		ID:          id,
		DisplayName: name,
		TotalPoints: points,
	}).Error)
	return id
}

func seedTransaction(t *testing.T, s *LeaderboardService, userID string, points int, createdAt time.Time) {
	t.Helper()
	require.NoError(t, s.DB.Create(&models.PointTransaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventType: "checkin",
		EventID:   uuid.NewString(),
		Points:    points,
		CreatedAt: createdAt,
	}).Error)
}

func TestGlobalLeaderboardOrdering(t *testing.T) {
	s := NewLeaderboardService(setupTestDB(t))

	seedRankedProfile(t, s, "low", 10)
	highID := seedRankedProfile(t, s, "high", 300)
	midID := seedRankedProfile(t, s, "mid", 150)

	entries, err := s.Get(LeaderboardGlobal, 100)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, highID, entries[0].UserID)
	require.Equal(t, 300, entries[0].TotalPoints)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, midID, entries[1].UserID)
	require.Equal(t, 3, entries[2].Rank)
	require.Equal(t, "low", entries[2].DisplayName)
}

func TestGlobalLeaderboardLimit(t *testing.T) {
	s := NewLeaderboardService(setupTestDB(t))
	for i := 0; i < 5; i++ {
		seedRankedProfile(t, s, "user", (i+1)*10)
	}

	entries, err := s.Get(LeaderboardGlobal, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, 50, entries[0].TotalPoints)
}

func TestWeeklyLeaderboardWindow(t *testing.T) {
	s := NewLeaderboardService(setupTestDB(t))

	recentID := seedRankedProfile(t, s, "recent", 25)
	staleID := seedRankedProfile(t, s, "stale", 500)

	now := time.Now()
	seedTransaction(t, s, recentID, 25, now.Add(-2*24*time.Hour))
	// All of the stale user's points predate the window.
	seedTransaction(t, s, staleID, 500, now.Add(-20*24*time.Hour))

	entries, err := s.Get(LeaderboardWeekly, 100)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, recentID, entries[0].UserID)
	require.Equal(t, 25, entries[0].TotalPoints)

	// The monthly window picks both up.
	entries, err = s.Get(LeaderboardMonthly, 100)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, staleID, entries[0].UserID)
}

func TestWeeklyLeaderboardSumsPerUser(t *testing.T) {
	s := NewLeaderboardService(setupTestDB(t))

	id := seedRankedProfile(t, s, "busy", 75)
	now := time.Now()
	for i := 0; i < 3; i++ {
		seedTransaction(t, s, id, 25, now.Add(-time.Duration(i)*time.Hour))
	}

	entries, err := s.Get(LeaderboardWeekly, 100)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 75, entries[0].TotalPoints)
}

func TestUnknownLeaderboardType(t *testing.T) {
	s := NewLeaderboardService(setupTestDB(t))
	_, err := s.Get("yearly", 100)
	require.Error(t, err)
}
