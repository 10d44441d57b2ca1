package services

import (
	"fmt"
	"time"

	"github.com/OliverSkoczylas/SXM-GO/models"

	"gorm.io/gorm"
)

const (
	LeaderboardGlobal  = "global"
	LeaderboardWeekly  = "weekly"
	LeaderboardMonthly = "monthly"

	leaderboardMaxLimit = 100
)

type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	TotalPoints int     `json:"total_points"`
}

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// Get returns the ranked leaderboard for the given type. Weekly and monthly
// are rolling 7/30-day windows summed from the point ledger; global reads
// the denormalized profile totals.
func (s *LeaderboardService) Get(leaderboardType string, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > leaderboardMaxLimit {
		limit = leaderboardMaxLimit
	}

	switch leaderboardType {
	case LeaderboardWeekly:
		return s.window(limit, time.Now().AddDate(0, 0, -7))
	case LeaderboardMonthly:
		return s.window(limit, time.Now().AddDate(0, 0, -30))
	case LeaderboardGlobal, "":
		return s.global(limit)
	default:
		return nil, fmt.Errorf("unknown leaderboard type %q", leaderboardType)
	}
}

func (s *LeaderboardService) global(limit int) ([]LeaderboardEntry, error) {
	var profiles []models.Profile
	err := s.DB.Order("total_points DESC").Limit(limit).Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      p.ID,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
			TotalPoints: p.TotalPoints,
		})
	}
	return entries, nil
}

func (s *LeaderboardService) window(limit int, since time.Time) ([]LeaderboardEntry, error) {
	type row struct {
		UserID      string
		DisplayName string
		AvatarURL   *string
		TotalPoints int
	}
	var rows []row
	err := s.DB.Raw(`
		SELECT p.id AS user_id, p.display_name, p.avatar_url, SUM(t.points) AS total_points
		FROM point_transactions t
		INNER JOIN profiles p ON p.id = t.user_id
		WHERE t.created_at >= ? AND p.deleted_at IS NULL
		GROUP BY p.id, p.display_name, p.avatar_url
		ORDER BY total_points DESC
		LIMIT ?
	`, since, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      r.UserID,
			DisplayName: r.DisplayName,
			AvatarURL:   r.AvatarURL,
			TotalPoints: r.TotalPoints,
		})
	}
	return entries, nil
}
