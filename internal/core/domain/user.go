package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is on the allow-list.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// Goals holds a member's daily nutrition targets. Zero means unset.
type Goals struct {
	Calories int `json:"calories_goal"`
	Proteins int `json:"proteins_goal"`
	Fats     int `json:"fats_goal"`
	Carbs    int `json:"carbs_goal"`
}

// DefaultGoals are reported for any target the member never set.
var DefaultGoals = Goals{Calories: 2000, Proteins: 150, Fats: 65, Carbs: 250}

// WithDefaults fills unset targets from DefaultGoals.
func (g Goals) WithDefaults() Goals {
	if g.Calories == 0 {
		g.Calories = DefaultGoals.Calories
	}
	if g.Proteins == 0 {
		g.Proteins = DefaultGoals.Proteins
	}
	if g.Fats == 0 {
		g.Fats = DefaultGoals.Fats
	}
	if g.Carbs == 0 {
		g.Carbs = DefaultGoals.Carbs
	}
	return g
}

// User models a studio member or administrator.
type User struct {
	ID                string    `json:"user_id"`
	Username          string    `json:"username"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	PhoneNo           string    `json:"phone_no,omitempty"`
	DeviceID          string    `json:"device_id,omitempty"`
	SubscriptionStart string    `json:"sub_start_date,omitempty"`
	SubscriptionEnd   string    `json:"sub_end_date,omitempty"`
	Gender            string    `json:"gender,omitempty"`
	DOB               string    `json:"dob,omitempty"`
	Height            *int      `json:"height,omitempty"`
	Weight            *int      `json:"weight,omitempty"`
	Goals             Goals     `json:"goals"`
	ProfileImageKey   string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}

// Profile is the self-editable subset of a User.
type Profile struct {
	Username string
	PhoneNo  string
	Gender   string
	DOB      string
	Height   *int
	Weight   *int
}
