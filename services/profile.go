package services

import (
	"time"

	"github.com/OliverSkoczylas/SXM-GO/models"

	"gorm.io/gorm"
)

type UserBadgeInfo struct {
	BadgeID   string    `json:"badge_id"`
	Name      string    `json:"name"`
	Tier      string    `json:"tier"`
	IconURL   string    `json:"icon_url"`
	AwardedAt time.Time `json:"awarded_at"`
}

type UserChallengeInfo struct {
	ChallengeID string     `json:"challenge_id"`
	Name        string     `json:"name"`
	GoalType    string     `json:"goal_type"`
	GoalValue   int        `json:"goal_value"`
	Progress    int        `json:"progress"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

func (s *ProfileService) Get(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.First(&profile, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Badges returns the user's awards joined with their definitions.
func (s *ProfileService) Badges(userID string) ([]UserBadgeInfo, error) {
	badges := []UserBadgeInfo{}
	err := s.DB.Raw(`
		SELECT ub.badge_id, b.name, b.tier, b.icon_url, ub.awarded_at
		FROM user_badges ub
		INNER JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = ?
		ORDER BY ub.awarded_at DESC
	`, userID).Scan(&badges).Error
	return badges, err
}

// Challenges returns the user's per-challenge progress joined with the
// challenge definitions.
func (s *ProfileService) Challenges(userID string) ([]UserChallengeInfo, error) {
	challenges := []UserChallengeInfo{}
	err := s.DB.Raw(`
		SELECT c.id AS challenge_id, c.name, c.goal_type, c.goal_value, cp.progress, cp.completed_at
		FROM challenge_progress cp
		INNER JOIN challenges c ON c.id = cp.challenge_id
		WHERE cp.user_id = ?
		ORDER BY cp.updated_at DESC
	`, userID).Scan(&challenges).Error
	return challenges, err
}

func (s *ProfileService) UpdateDisplayName(userID, displayName string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.First(&profile, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	profile.DisplayName = displayName
	if err := s.DB.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) SetAvatarURL(userID, url string) error {
	return s.DB.Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error
}
