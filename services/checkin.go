package services

import (
	"errors"
	"fmt"

	"github.com/OliverSkoczylas/SXM-GO/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrLocationExists   = errors.New("location already exists")
)

type CheckInService struct {
	DB     *gorm.DB
	Gamify *GamifyService
}

func NewCheckInService(db *gorm.DB, gamify *GamifyService) *CheckInService {
	return &CheckInService{DB: db, Gamify: gamify}
}

// CheckIn records a visit and feeds it through the gamify processor. The
// check-in id is the gamify eventId, so a retried submission of the same
// check-in comes back as a duplicate instead of double-crediting.
func (s *CheckInService) CheckIn(userID, locationID, category string, lat, lng float64) (*models.CheckIn, *EventResult, error) {
	var loc models.Location
	if err := s.DB.First(&loc, "id = ?", locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrLocationNotFound
		}
		return nil, nil, fmt.Errorf("load location: %w", err)
	}
	if category == "" {
		category = loc.Category
	}

	checkin := models.CheckIn{
		ID:         uuid.NewString(),
		UserID:     userID,
		LocationID: locationID,
		Category:   category,
		Latitude:   lat,
		Longitude:  lng,
	}
	if err := s.DB.Create(&checkin).Error; err != nil {
		return nil, nil, fmt.Errorf("create check-in: %w", err)
	}

	result, err := s.Gamify.ProcessEvent(userID, "checkin", checkin.ID, map[string]any{
		"category":   category,
		"locationId": locationID,
	})
	if err != nil {
		// The check-in row stays; resubmitting it is safe (idempotent).
		return nil, nil, err
	}
	return &checkin, result, nil
}

// Recent returns the user's check-ins, newest first, paginated.
func (s *CheckInService) Recent(userID string, page, size int) ([]models.CheckIn, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var total int64
	if err := s.DB.Model(&models.CheckIn{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var checkins []models.CheckIn
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&checkins).Error
	return checkins, total, err
}

// CreateLocation seeds a new check-in destination (admin only).
func (s *CheckInService) CreateLocation(name, category string, lat, lng float64) (*models.Location, error) {
	loc := models.Location{
		ID:        uuid.NewString(),
		Slug:      slug.Make(name),
		Name:      name,
		Category:  category,
		Latitude:  lat,
		Longitude: lng,
	}
	if err := s.DB.Create(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLocationExists
		}
		return nil, err
	}
	return &loc, nil
}
