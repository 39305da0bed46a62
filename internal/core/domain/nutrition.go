package domain

// NutritionEntry is one member's food and macro log for a single day.
type NutritionEntry struct {
	UserID    string  `json:"-"`
	Date      string  `json:"date"`
	Breakfast string  `json:"breakfast"`
	Lunch     string  `json:"lunch"`
	Snacks    string  `json:"snacks"`
	Dinner    string  `json:"dinner"`
	Calories  float64 `json:"calories"`
	Carbs     float64 `json:"carbs"`
	Proteins  float64 `json:"proteins"`
	Fats      float64 `json:"fats"`
	Water     float64 `json:"water"`
}

// EmptyNutritionEntry is returned for days with nothing logged.
func EmptyNutritionEntry(userID, date string) *NutritionEntry {
	return &NutritionEntry{UserID: userID, Date: date}
}
