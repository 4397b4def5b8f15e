package enums

// MealTime marks when a food is intended to be served.
type MealTime string

const (
	MealTimeBreakfast MealTime = "BREAKFAST"
	MealTimeLunch     MealTime = "LUNCH"
	MealTimeDinner    MealTime = "DINNER"
	MealTimeAnytime   MealTime = "ANYTIME"
)

func (m MealTime) Valid() bool {
	switch m {
	case MealTimeBreakfast, MealTimeLunch, MealTimeDinner, MealTimeAnytime:
		return true
	default:
		return false
	}
}
