// Package season maps the calendar onto growing seasons and planting
// suggestions. Everything here is a pure lookup; there are no failure modes.
package season

import "time"

// GrowingSeason pairs the current season label with its planting list.
type GrowingSeason struct {
	CurrentSeason string   `json:"currentSeason"`
	PlantsToGrow  []string `json:"plantsToGrow"`
}

// Northern-hemisphere buckets.
const (
	Spring = "Spring"
	Summer = "Summer"
	Fall   = "Fall"
	Winter = "Winter"
)

// ForMonth returns the season for a zero-based month index (0 = January).
func ForMonth(month int) string {
	switch {
	case month >= 2 && month <= 4:
		return Spring
	case month >= 5 && month <= 7:
		return Summer
	case month >= 8 && month <= 10:
		return Fall
	default:
		return Winter
	}
}

// Plants returns what to grow in a given season. Unknown labels get the
// summer staples.
func Plants(s string) []string {
	switch s {
	case Spring:
		return []string{"Lettuce", "Spinach", "Radishes", "Peas", "Carrots", "Potatoes"}
	case Summer:
		return []string{"Tomatoes", "Peppers", "Cucumbers", "Summer Squash", "Beans", "Corn"}
	case Fall:
		return []string{"Kale", "Brussels Sprouts", "Broccoli", "Cabbage", "Cauliflower"}
	case Winter:
		return []string{"Winter Squash", "Garlic", "Cover Crops", "Microgreens (indoor)"}
	default:
		return []string{"Tomatoes", "Peppers", "Cucumbers", "Summer Squash", "Beans"}
	}
}

// Current computes the growing season for the given instant.
func Current(now time.Time) GrowingSeason {
	s := ForMonth(int(now.Month()) - 1)
	return GrowingSeason{
		CurrentSeason: s,
		PlantsToGrow:  Plants(s),
	}
}
