package services

import "github.com/consigliere/consigliere/models"

// GoalsMet reports whether a check-in satisfies both of the user's daily
// targets. Both thresholds must hold; a shortfall on either side fails.
func GoalsMet(checkIn models.CheckIn, user models.User) bool {
	return checkIn.PagesRead >= user.PagesGoal && checkIn.VideosWatched >= user.VideosGoal
}
