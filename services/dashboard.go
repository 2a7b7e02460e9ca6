package services

import (
	"context"
	"errors"

	"github.com/consigliere/consigliere/models"
)

// Dashboard is the single read view the landing page branches on. Whether the
// check-in form or the completed view is shown follows HasCheckedInToday,
// which reflects the store at call time.
type Dashboard struct {
	HasCheckedInToday bool               `json:"has_checked_in_today"`
	TodayCheckIn      *models.CheckIn    `json:"today_check_in"`
	Streak            models.Streak      `json:"streak"`
	DailyQuote        *models.DailyQuote `json:"daily_quote"`
}

// DashboardService composes check-in state, streak, and the daily quote into
// one view. Pure read; nothing here mutates.
type DashboardService struct {
	checkIns *CheckInService
	quotes   QuoteProvider
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(checkIns *CheckInService, quotes QuoteProvider) *DashboardService {
	return &DashboardService{checkIns: checkIns, quotes: quotes}
}

// Compose assembles the dashboard for one user.
func (s *DashboardService) Compose(ctx context.Context, userID uint) (*Dashboard, error) {
	todayCheckIn, err := s.checkIns.Today(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	streak, err := s.checkIns.Streak(ctx, userID)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.Today(ctx)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		HasCheckedInToday: todayCheckIn != nil,
		TodayCheckIn:      todayCheckIn,
		Streak:            streak,
		DailyQuote:        quote,
	}, nil
}
