package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/OliverSkoczylas/SXM-GO/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointsByEventType maps an event type to the points it awards. Unrecognized
// types award 0 but still get a ledger entry, so the event is recorded
// exactly once either way.
var PointsByEventType = map[string]int{
	"checkin": 25,
}

// DefaultEventType is assumed when a request omits eventType.
const DefaultEventType = "checkin"

var (
	ErrMissingEventID  = errors.New("missing eventId")
	ErrProfileNotFound = errors.New("profile not found")
)

// casRetries bounds the compare-and-swap loop on challenge progress when two
// events for the same user race on the same challenge.
const casRetries = 3

type BadgeAward struct {
	BadgeID string `json:"badgeId"`
	Tier    string `json:"tier"`
}

type ProgressUpdate struct {
	ChallengeID string `json:"challengeId"`
	Progress    int    `json:"progress"`
	Goal        int    `json:"goal"`
}

// EventResult summarizes every side effect of one processed event.
// NewTotalPoints is nil for duplicates (no credit was applied).
type EventResult struct {
	PointsAwarded       int              `json:"pointsAwarded"`
	Duplicate           bool             `json:"duplicate"`
	NewTotalPoints      *int             `json:"newTotalPoints"`
	CompletedChallenges []string         `json:"completedChallenges"`
	NewBadges           []BadgeAward     `json:"newBadges"`
	ProgressUpdates     []ProgressUpdate `json:"progressUpdates"`
}

func newEventResult() *EventResult {
	return &EventResult{
		CompletedChallenges: []string{},
		NewBadges:           []BadgeAward{},
		ProgressUpdates:     []ProgressUpdate{},
	}
}

type GamifyService struct {
	DB *gorm.DB
}

func NewGamifyService(db *gorm.DB) *GamifyService {
	return &GamifyService{DB: db}
}

// ProcessEvent records a points-earning event idempotently, credits the
// profile total, advances challenge progress and awards threshold badges.
//
// There is no multi-table transaction around the whole sequence: the ledger
// insert is the idempotency anchor, and a caller retrying after a partial
// failure gets a duplicate result instead of double credit. A ledger row
// whose profile update failed stays behind unpaid (see DESIGN.md).
func (s *GamifyService) ProcessEvent(userID, eventType, eventID string, meta map[string]any) (*EventResult, error) {
	if eventID == "" {
		return nil, ErrMissingEventID
	}
	if eventType == "" {
		eventType = DefaultEventType
	}
	if meta == nil {
		meta = map[string]any{}
	}

	pointsAwarded := PointsByEventType[eventType]

	// 1) Ledger insert — the composite unique index is the idempotency
	// check, so concurrent duplicates cannot both pass.
	entry := models.PointTransaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventType: eventType,
		EventID:   eventID,
		Points:    pointsAwarded,
		Metadata:  meta,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			res := newEventResult()
			res.Duplicate = true
			return res, nil
		}
		return nil, fmt.Errorf("ledger insert: %w", err)
	}

	// 2) Credit the total with a single atomic UPDATE; concurrent events for
	// the same user cannot drop each other's points.
	upd := s.DB.Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", pointsAwarded))
	if upd.Error != nil {
		return nil, fmt.Errorf("profile update: %w", upd.Error)
	}
	if upd.RowsAffected == 0 {
		return nil, ErrProfileNotFound
	}

	var profile models.Profile
	if err := s.DB.Select("total_points").First(&profile, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("profile reload: %w", err)
	}
	newTotal := profile.TotalPoints

	res := newEventResult()
	res.PointsAwarded = pointsAwarded
	res.NewTotalPoints = &newTotal

	if err := s.evaluateChallenges(userID, eventType, meta, res); err != nil {
		return nil, err
	}
	if err := s.evaluateBadges(userID, newTotal, res); err != nil {
		return nil, err
	}

	log.Printf("🎮 Event processed: user=%s type=%s points=%d total=%d challenges=%d badges=%d",
		userID, eventType, pointsAwarded, newTotal, len(res.ProgressUpdates), len(res.NewBadges))
	return res, nil
}

func (s *GamifyService) evaluateChallenges(userID, eventType string, meta map[string]any, res *EventResult) error {
	var challenges []models.Challenge
	if err := s.DB.Find(&challenges).Error; err != nil {
		return fmt.Errorf("load challenges: %w", err)
	}

	category, _ := meta["category"].(string)
	locationID, _ := meta["locationId"].(string)

	for i := range challenges {
		update, completed, err := s.applyChallenge(userID, &challenges[i], eventType, category, locationID)
		if err != nil {
			return err
		}
		if update == nil {
			continue
		}
		res.ProgressUpdates = append(res.ProgressUpdates, *update)
		if completed {
			res.CompletedChallenges = append(res.CompletedChallenges, challenges[i].ID)
		}
	}
	return nil
}

// applyChallenge decides whether the event counts for ch and, if so,
// advances the progress counter. Returns nil when the event does not count
// or the challenge is already completed.
func (s *GamifyService) applyChallenge(userID string, ch *models.Challenge, eventType, category, locationID string) (*ProgressUpdate, bool, error) {
	var cp models.ChallengeProgress
	err := s.DB.Where("user_id = ? AND challenge_id = ?", userID, ch.ID).First(&cp).Error
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("load progress for challenge %s: %w", ch.ID, err)
	}
	// Completed challenges are immutable: no further increments.
	if exists && cp.CompletedAt != nil {
		return nil, false, nil
	}

	switch ch.GoalType {
	case models.GoalCountByCategory:
		required, _ := ch.Metadata["category"].(string)
		if required == "" || category == "" || required != category {
			return nil, false, nil
		}
	case models.GoalDistinctLocations:
		if eventType != "checkin" || locationID == "" {
			return nil, false, nil
		}
		// Record the visit; the composite PK makes a re-visit a duplicate,
		// which means this location was already counted.
		visit := models.ChallengeVisitedLocation{UserID: userID, ChallengeID: ch.ID, LocationID: locationID}
		if err := s.DB.Create(&visit).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("record visit for challenge %s: %w", ch.ID, err)
		}
	default:
		// Unknown goal types are seeded ahead of the code that evaluates
		// them; never count.
		return nil, false, nil
	}

	return s.incrementProgress(userID, ch, &cp, exists)
}

// incrementProgress advances the counter by 1 with a compare-and-swap
// guarded on the previously read value, so two racing events cannot
// overwrite each other's increment with a stale read.
func (s *GamifyService) incrementProgress(userID string, ch *models.Challenge, cp *models.ChallengeProgress, exists bool) (*ProgressUpdate, bool, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		if !exists {
			fresh := models.ChallengeProgress{UserID: userID, ChallengeID: ch.ID, Progress: 1}
			if fresh.Progress >= ch.GoalValue {
				now := time.Now()
				fresh.CompletedAt = &now
			}
			err := s.DB.Create(&fresh).Error
			if err == nil {
				return &ProgressUpdate{ChallengeID: ch.ID, Progress: 1, Goal: ch.GoalValue}, fresh.CompletedAt != nil, nil
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, false, fmt.Errorf("create progress for challenge %s: %w", ch.ID, err)
			}
			// A concurrent event created the row first; fall through to reload.
		} else {
			next := cp.Progress + 1
			var completedAt *time.Time
			if next >= ch.GoalValue {
				now := time.Now()
				completedAt = &now
			}
			guard := s.DB.Model(&models.ChallengeProgress{}).
				Where("user_id = ? AND challenge_id = ? AND progress = ? AND completed_at IS NULL",
					userID, ch.ID, cp.Progress).
				Updates(map[string]any{"progress": next, "completed_at": completedAt})
			if guard.Error != nil {
				return nil, false, fmt.Errorf("update progress for challenge %s: %w", ch.ID, guard.Error)
			}
			if guard.RowsAffected == 1 {
				return &ProgressUpdate{ChallengeID: ch.ID, Progress: next, Goal: ch.GoalValue}, completedAt != nil, nil
			}
			// Guard missed: another event moved the counter first.
		}

		err := s.DB.Where("user_id = ? AND challenge_id = ?", userID, ch.ID).First(cp).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				exists = false
				continue
			}
			return nil, false, fmt.Errorf("reload progress for challenge %s: %w", ch.ID, err)
		}
		exists = true
		if cp.CompletedAt != nil {
			return nil, false, nil
		}
	}
	return nil, false, fmt.Errorf("challenge %s: progress contention, gave up after %d attempts", ch.ID, casRetries)
}

func (s *GamifyService) evaluateBadges(userID string, newTotal int, res *EventResult) error {
	var badges []models.Badge
	if err := s.DB.Find(&badges).Error; err != nil {
		return fmt.Errorf("load badges: %w", err)
	}

	for _, b := range badges {
		if b.RuleType != models.BadgeRulePointsThreshold {
			continue
		}
		if newTotal < b.Threshold {
			continue
		}
		award := models.UserBadge{UserID: userID, BadgeID: b.ID}
		if err := s.DB.Create(&award).Error; err != nil {
			// Only a duplicate key means "already awarded"; anything else is
			// a real persistence failure and propagates.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return fmt.Errorf("award badge %s: %w", b.ID, err)
		}
		log.Printf("🎖️ Badge awarded: %s (%s) → %s", b.Name, b.Tier, userID)
		res.NewBadges = append(res.NewBadges, BadgeAward{BadgeID: b.ID, Tier: b.Tier})
	}
	return nil
}
