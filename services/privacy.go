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

// DeletionGracePeriod is the GDPR Article 17 grace window during which a
// scheduled deletion can still be cancelled.
const DeletionGracePeriod = 30 * 24 * time.Hour

var ErrDeletionPending = errors.New("a deletion request is already pending")
var ErrNoPendingDeletion = errors.New("no pending deletion request")

// AvatarStorage is the slice of object storage the privacy flows need:
// listing for export, removal for erasure.
type AvatarStorage interface {
	ListUserFiles(userID string) ([]string, error)
	RemoveUserFiles(userID string) error
}

// AuthAdmin deletes a user from the managed identity service.
type AuthAdmin interface {
	AdminDeleteUser(userID string) error
}

type DeletionOutcome struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type PrivacyService struct {
	DB      *gorm.DB
	Storage AvatarStorage
	Auth    AuthAdmin
}

func NewPrivacyService(db *gorm.DB, storage AvatarStorage, auth AuthAdmin) *PrivacyService {
	return &PrivacyService{DB: db, Storage: storage, Auth: auth}
}

// LogConsent appends to the consent log; it never rewrites history.
func (s *PrivacyService) LogConsent(userID, consentType string, granted bool, version string) (*models.ConsentLog, error) {
	if version == "" {
		version = "1.0"
	}
	entry := models.ConsentLog{
		ID:             uuid.NewString(),
		UserID:         userID,
		ConsentType:    consentType,
		Granted:        granted,
		ConsentVersion: version,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ConsentState reduces the log to the most recent decision per consent type.
func (s *PrivacyService) ConsentState(userID string) (map[string]bool, error) {
	var entries []models.ConsentLog
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	state := map[string]bool{}
	for _, e := range entries {
		if _, seen := state[e.ConsentType]; !seen {
			state[e.ConsentType] = e.Granted
		}
	}
	return state, nil
}

// RequestDeletion schedules an account deletion 30 days out, or processes it
// inline when immediate is set. At most one pending request per user.
func (s *PrivacyService) RequestDeletion(userID string, reason *string, immediate bool) (*models.DeletionRequest, error) {
	var existing models.DeletionRequest
	err := s.DB.Where("user_id = ? AND status = ?", userID, models.DeletionPending).
		First(&existing).Error
	if err == nil {
		return nil, ErrDeletionPending
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	req := models.DeletionRequest{
		ID:           uuid.NewString(),
		UserID:       userID,
		Reason:       reason,
		Status:       models.DeletionPending,
		ScheduledFor: now.Add(DeletionGracePeriod),
	}
	if immediate {
		req.Status = models.DeletionProcessing
		req.ScheduledFor = now
	}
	if err := s.DB.Create(&req).Error; err != nil {
		return nil, err
	}

	if immediate {
		if err := s.process(&req, "system"); err != nil {
			return nil, fmt.Errorf("immediate deletion failed: %w", err)
		}
	}
	return &req, nil
}

// CancelDeletion cancels the caller's pending request inside the grace
// period. Requests already processing cannot be cancelled.
func (s *PrivacyService) CancelDeletion(userID string) (*models.DeletionRequest, error) {
	var req models.DeletionRequest
	err := s.DB.Where("user_id = ? AND status = ?", userID, models.DeletionPending).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoPendingDeletion
	}
	if err != nil {
		return nil, err
	}

	req.Status = models.DeletionCancelled
	if err := s.DB.Save(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// PendingDeletion returns the user's pending request, or nil.
func (s *PrivacyService) PendingDeletion(userID string) (*models.DeletionRequest, error) {
	var req models.DeletionRequest
	err := s.DB.Where("user_id = ? AND status = ?", userID, models.DeletionPending).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ExportUserData assembles the GDPR Article 15 document: every row this
// service owns for the user plus the avatar object names.
func (s *PrivacyService) ExportUserData(userID string) (map[string]any, error) {
	var profile models.Profile
	if err := s.DB.First(&profile, "id = ?", userID).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var consents []models.ConsentLog
	if err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&consents).Error; err != nil {
		return nil, err
	}
	var deletions []models.DeletionRequest
	if err := s.DB.Where("user_id = ?", userID).Order("requested_at DESC").Find(&deletions).Error; err != nil {
		return nil, err
	}
	var checkins []models.CheckIn
	if err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&checkins).Error; err != nil {
		return nil, err
	}
	var transactions []models.PointTransaction
	if err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	var progress []models.ChallengeProgress
	if err := s.DB.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return nil, err
	}
	var badges []models.UserBadge
	if err := s.DB.Where("user_id = ?", userID).Find(&badges).Error; err != nil {
		return nil, err
	}

	// The export should not fail because the object store hiccuped; the
	// file list is best-effort, matching the rest of the document.
	avatarFiles, err := s.Storage.ListUserFiles(userID)
	if err != nil {
		log.Printf("⚠️ export: listing avatar files for %s failed: %v", userID, err)
		avatarFiles = nil
	}
	if avatarFiles == nil {
		avatarFiles = []string{}
	}

	return map[string]any{
		"exported_at":        time.Now().UTC(),
		"user_id":            userID,
		"profile":            profile,
		"consent_history":    consents,
		"deletion_requests":  deletions,
		"check_ins":          checkins,
		"point_transactions": transactions,
		"challenge_progress": progress,
		"badges":             badges,
		"storage": map[string]any{
			"avatar_files": avatarFiles,
		},
	}, nil
}

// ProcessExpiredDeletions runs one pass over pending requests whose grace
// period has expired. Failures revert the request to pending so the next
// pass retries it.
func (s *PrivacyService) ProcessExpiredDeletions(processedBy string) ([]DeletionOutcome, error) {
	var pending []models.DeletionRequest
	err := s.DB.Where("status = ? AND scheduled_for <= ?", models.DeletionPending, time.Now()).
		Find(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("fetch pending deletions: %w", err)
	}

	results := make([]DeletionOutcome, 0, len(pending))
	for i := range pending {
		req := &pending[i]
		if err := s.DB.Model(req).Update("status", models.DeletionProcessing).Error; err != nil {
			results = append(results, DeletionOutcome{UserID: req.UserID, Status: "failed", Error: err.Error()})
			continue
		}
		if err := s.process(req, processedBy); err != nil {
			results = append(results, DeletionOutcome{UserID: req.UserID, Status: "failed", Error: err.Error()})
			continue
		}
		results = append(results, DeletionOutcome{UserID: req.UserID, Status: "completed"})
	}
	return results, nil
}

// process performs the erasure for one request already in processing state.
func (s *PrivacyService) process(req *models.DeletionRequest, processedBy string) error {
	// Auth user first: once it is gone the account cannot be used even if a
	// later step fails and leaves rows for the retry pass.
	if err := s.Auth.AdminDeleteUser(req.UserID); err != nil {
		s.DB.Model(req).Update("status", models.DeletionPending)
		return err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.CheckIn{},
			&models.PointTransaction{},
			&models.ChallengeProgress{},
			&models.ChallengeVisitedLocation{},
			&models.UserBadge{},
			&models.ConsentLog{},
		} {
			if err := tx.Where("user_id = ?", req.UserID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&models.Profile{}, "id = ?", req.UserID).Error
	})
	if err != nil {
		s.DB.Model(req).Update("status", models.DeletionPending)
		return fmt.Errorf("erase rows for %s: %w", req.UserID, err)
	}

	if err := s.Storage.RemoveUserFiles(req.UserID); err != nil {
		// Rows are gone; log and keep going so the request closes out.
		log.Printf("⚠️ deletion: removing avatar files for %s failed: %v", req.UserID, err)
	}

	now := time.Now()
	return s.DB.Model(req).Updates(map[string]any{
		"status":       models.DeletionCompleted,
		"completed_at": &now,
		"processed_by": processedBy,
	}).Error
}
