package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/consigliere/consigliere/models"
)

// WeeklySummary covers the trailing 7-day window ending today.
type WeeklySummary struct {
	WeekStart              time.Time `json:"week_start"`
	WeekEnd                time.Time `json:"week_end"`
	DaysCheckedIn          int       `json:"days_checked_in"`
	TotalPages             int       `json:"total_pages"`
	TotalVideos            int       `json:"total_videos"`
	GoalSuccessRatePercent int       `json:"goal_success_rate"`
	PagesGoal              int       `json:"pages_goal"`
	VideosGoal             int       `json:"videos_goal"`
}

// MonthlySummary covers one calendar month.
type MonthlySummary struct {
	Month               int     `json:"month"`
	Year                int     `json:"year"`
	TotalLearningDays   int     `json:"total_learning_days"`
	AveragePagesPerDay  float64 `json:"average_pages_per_day"`
	AverageVideosPerDay float64 `json:"average_videos_per_day"`
	BestStreak          int     `json:"best_streak"`
	PagesGoal           int     `json:"pages_goal"`
	VideosGoal          int     `json:"videos_goal"`
}

// AnalyticsService computes rollups straight from the check-in rows. Nothing
// here is persisted; every number is reproducible from the store.
type AnalyticsService struct {
	db    *gorm.DB
	clock Clock
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(db *gorm.DB, clock Clock) *AnalyticsService {
	return &AnalyticsService{db: db, clock: clock}
}

// Weekly summarizes the window [today-6, today]. An empty window yields
// zero-valued stats, never an error.
func (s *AnalyticsService) Weekly(ctx context.Context, user models.User) (*WeeklySummary, error) {
	weekEnd := s.clock.Today()
	weekStart := weekEnd.AddDate(0, 0, -6)

	checkIns, err := s.checkInsBetween(ctx, user.ID, weekStart, weekEnd.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	summary := &WeeklySummary{
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		PagesGoal:  user.PagesGoal,
		VideosGoal: user.VideosGoal,
	}
	goalDays := 0
	for _, c := range checkIns {
		summary.DaysCheckedIn++
		summary.TotalPages += c.PagesRead
		summary.TotalVideos += c.VideosWatched
		if GoalsMet(c, user) {
			goalDays++
		}
	}
	if summary.DaysCheckedIn > 0 {
		summary.GoalSuccessRatePercent = int(math.Round(float64(goalDays) / float64(summary.DaysCheckedIn) * 100))
	}
	return summary, nil
}

// Monthly summarizes one calendar month. BestStreak replays the streak update
// rule over that month's sorted dates; it is the peak run within the month,
// not the account's all-time longest.
func (s *AnalyticsService) Monthly(ctx context.Context, user models.User, month, year int) (*MonthlySummary, error) {
	if month != 0 && (month < 1 || month > 12) {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrInvalidArgument)
	}
	if year != 0 && (year < 1970 || year > 9999) {
		return nil, fmt.Errorf("%w: year must be a four-digit year", ErrInvalidArgument)
	}
	if month == 0 || year == 0 {
		today := s.clock.Today()
		month, year = int(today.Month()), today.Year()
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	checkIns, err := s.checkInsBetween(ctx, user.ID, first, first.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		Month:      month,
		Year:       year,
		PagesGoal:  user.PagesGoal,
		VideosGoal: user.VideosGoal,
	}
	totalPages, totalVideos := 0, 0
	var lastDate time.Time
	run := 0
	for _, c := range checkIns {
		summary.TotalLearningDays++
		totalPages += c.PagesRead
		totalVideos += c.VideosWatched

		d := Midnight(c.CheckInDate)
		if run > 0 && d.Equal(lastDate.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > summary.BestStreak {
			summary.BestStreak = run
		}
		lastDate = d
	}
	if summary.TotalLearningDays > 0 {
		days := float64(summary.TotalLearningDays)
		summary.AveragePagesPerDay = math.Round(float64(totalPages)/days*10) / 10
		summary.AverageVideosPerDay = math.Round(float64(totalVideos)/days*10) / 10
	}
	return summary, nil
}

// checkInsBetween returns the user's check-ins with from <= date < to,
// ordered ascending by date.
func (s *AnalyticsService) checkInsBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.CheckIn, error) {
	var checkIns []models.CheckIn
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND check_in_date >= ? AND check_in_date < ?", userID, Midnight(from), Midnight(to)).
		Order("check_in_date ASC").
		Find(&checkIns).Error
	if err != nil {
		return nil, err
	}
	return checkIns, nil
}
