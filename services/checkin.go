package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/consigliere/consigliere/models"
	"github.com/consigliere/consigliere/utils"
)

const (
	maxNotesLen       = 5000
	defaultHistoryLen = 30
	maxHistoryLen     = 365
)

// CheckInService owns the durable per-user, per-date check-in records and the
// cached streak row kept in step with them.
type CheckInService struct {
	db    *gorm.DB
	clock Clock
}

// NewCheckInService creates a CheckInService.
func NewCheckInService(db *gorm.DB, clock Clock) *CheckInService {
	return &CheckInService{db: db, clock: clock}
}

// Create records today's check-in. The composite unique index on
// (user_id, check_in_date) is the arbiter: a duplicate insert fails with
// ErrConflict and the stored row is left untouched. The streak cache is
// recomputed inside the same transaction, so a read immediately after the
// write never observes a stale streak.
func (s *CheckInService) Create(ctx context.Context, userID uint, pagesRead, videosWatched int, notes string) (*models.CheckIn, error) {
	if pagesRead < 0 || videosWatched < 0 {
		return nil, fmt.Errorf("%w: pages and videos must be non-negative", ErrInvalidArgument)
	}
	// Sanitizing first means the cap applies to what actually gets stored;
	// entity escaping can grow the text past its raw length.
	notes = utils.Sanitize(notes)
	if len(notes) > maxNotesLen {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidArgument, maxNotesLen)
	}

	today := s.clock.Today()
	checkIn := models.CheckIn{
		UserID:        userID,
		CheckInDate:   today,
		PagesRead:     pagesRead,
		VideosWatched: videosWatched,
		Notes:         notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CheckIn
		err := tx.Where("user_id = ? AND check_in_date = ?", userID, today).First(&existing).Error
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&checkIn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return err
		}

		streak, err := loadStreak(tx, userID)
		if err != nil {
			return err
		}
		updated := ApplyCheckIn(streak, today)
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

// GetByDate returns the check-in for a given calendar date, or ErrNotFound.
func (s *CheckInService) GetByDate(ctx context.Context, userID uint, date time.Time) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND check_in_date = ?", userID, Midnight(date)).
		First(&checkIn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &checkIn, nil
}

// Today returns today's check-in for the user, or ErrNotFound.
func (s *CheckInService) Today(ctx context.Context, userID uint) (*models.CheckIn, error) {
	return s.GetByDate(ctx, userID, s.clock.Today())
}

// ListHistory returns check-ins ordered most-recent date first, bounded by
// limit. A non-positive limit falls back to the default page size.
func (s *CheckInService) ListHistory(ctx context.Context, userID uint, limit int) ([]models.CheckIn, error) {
	if limit <= 0 {
		limit = defaultHistoryLen
	}
	if limit > maxHistoryLen {
		limit = maxHistoryLen
	}
	var checkIns []models.CheckIn
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in_date DESC").
		Limit(limit).
		Find(&checkIns).Error
	if err != nil {
		return nil, err
	}
	return checkIns, nil
}

// Streak returns the user's streak as seen right now: the cached row passed
// through the read-time liveness rule. A user with no streak row yet gets
// zeroes.
func (s *CheckInService) Streak(ctx context.Context, userID uint) (models.Streak, error) {
	streak, err := loadStreak(s.db.WithContext(ctx), userID)
	if err != nil {
		return models.Streak{}, err
	}
	return EffectiveStreak(streak, s.clock.Today()), nil
}

// RecomputeStreak rebuilds the cached streak row by full replay of the user's
// check-in dates and persists the result. Recovery path for a cache that is
// suspected to have drifted.
func (s *CheckInService) RecomputeStreak(ctx context.Context, userID uint) (models.Streak, error) {
	var rebuilt models.Streak
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var checkIns []models.CheckIn
		if err := tx.Where("user_id = ?", userID).Order("check_in_date ASC").Find(&checkIns).Error; err != nil {
			return err
		}
		dates := make([]time.Time, 0, len(checkIns))
		for _, c := range checkIns {
			dates = append(dates, Midnight(c.CheckInDate))
		}

		current, err := loadStreak(tx, userID)
		if err != nil {
			return err
		}
		rebuilt = RebuildStreak(dates)
		rebuilt.ID = current.ID
		rebuilt.UserID = userID
		return tx.Save(&rebuilt).Error
	})
	if err != nil {
		return models.Streak{}, err
	}
	return rebuilt, nil
}

// loadStreak fetches the user's streak row, or a zero-valued one when the
// user has never checked in.
func loadStreak(tx *gorm.DB, userID uint) (models.Streak, error) {
	var streak models.Streak
	err := tx.Where("user_id = ?", userID).First(&streak).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Streak{UserID: userID}, nil
		}
		return models.Streak{}, err
	}
	return streak, nil
}
