package handler

import (
	"fmt"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

const statusSuccess = "success"

var errInvalidPayload = fmt.Errorf("%w: invalid payload", domain.ErrValidation)

// messageResponse is the success envelope for operations without a payload.
type messageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func success(message string) messageResponse {
	return messageResponse{Status: statusSuccess, Message: message}
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Status                  string `json:"status"`
	Reason                  string `json:"reason"`
	Token                   string `json:"token"`
	UserID                  string `json:"user_id"`
	Username                string `json:"username"`
	Role                    string `json:"role"`
	SubscriptionEndDate     string `json:"subscription_end_date"`
	NoDaysToSubscriptionEnd int    `json:"no_days_to_subscription_end"`
}

type createUserRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	PhoneNo           string `json:"phone_no"`
	DeviceID          string `json:"device_id"`
	Role              string `json:"role"`
	SubscriptionStart string `json:"sub_start_date"`
	SubscriptionEnd   string `json:"sub_end_date"`
	CaloriesGoal      int    `json:"calories_goal"`
	ProteinsGoal      int    `json:"proteins_goal"`
	FatsGoal          int    `json:"fats_goal"`
	CarbsGoal         int    `json:"carbs_goal"`
	Gender            string `json:"gender"`
	DOB               string `json:"dob"`
	Height            *int   `json:"height"`
	Weight            *int   `json:"weight"`
}

func (r createUserRequest) toInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		Username:          r.Username,
		Password:          r.Password,
		Role:              r.Role,
		PhoneNo:           r.PhoneNo,
		DeviceID:          r.DeviceID,
		SubscriptionStart: r.SubscriptionStart,
		SubscriptionEnd:   r.SubscriptionEnd,
		Goals: ports.GoalsInput{
			Calories: r.CaloriesGoal,
			Proteins: r.ProteinsGoal,
			Fats:     r.FatsGoal,
			Carbs:    r.CarbsGoal,
		},
		Gender: r.Gender,
		DOB:    r.DOB,
		Height: r.Height,
		Weight: r.Weight,
	}
}

type createUserResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// --- Registration workflow ---

type contactAdminRequest struct {
	Username      string `json:"username"`
	PhoneNo       string `json:"phone_no"`
	Email         string `json:"email_id"`
	Message       string `json:"message"`
	PreferredRole string `json:"preferred_role"`
	DeviceID      string `json:"device_id"`
	Gender        string `json:"gender"`
	DOB           string `json:"dob"`
	Height        *int   `json:"height"`
	Weight        *int   `json:"weight"`
}

func (r contactAdminRequest) toInput() ports.SubmitRegistrationInput {
	return ports.SubmitRegistrationInput{
		Username:      r.Username,
		PhoneNo:       r.PhoneNo,
		Email:         r.Email,
		Message:       r.Message,
		PreferredRole: r.PreferredRole,
		DeviceID:      r.DeviceID,
		Gender:        r.Gender,
		DOB:           r.DOB,
		Height:        r.Height,
		Weight:        r.Weight,
	}
}

type contactAdminResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	RegistrationID string `json:"registration_id"`
}

type pendingRequestsResponse struct {
	Status   string                        `json:"status"`
	Requests []*domain.RegistrationRequest `json:"requests"`
}

type approveResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	TempPassword string `json:"temp_password"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// --- Users ---

// userResponse is the wire shape of a user. Goals are flattened into
// calories_goal, proteins_goal, fats_goal and carbs_goal.
type userResponse struct {
	UserID            string `json:"user_id"`
	Username          string `json:"username"`
	PhoneNo           string `json:"phone_no"`
	Role              string `json:"role"`
	ProfileImage      string `json:"profile_img,omitempty"`
	Gender            string `json:"gender,omitempty"`
	DOB               string `json:"dob,omitempty"`
	Height            *int   `json:"height"`
	Weight            *int   `json:"weight"`
	SubscriptionStart string `json:"sub_start_date,omitempty"`
	SubscriptionEnd   string `json:"sub_end_date,omitempty"`
	DeviceID          string `json:"device_id,omitempty"`
	domain.Goals
}

func toUserResponse(v *ports.UserView) userResponse {
	return userResponse{
		UserID:            v.ID,
		Username:          v.Username,
		PhoneNo:           v.PhoneNo,
		Role:              v.Role,
		ProfileImage:      v.ProfileImageURL,
		Gender:            v.Gender,
		DOB:               v.DOB,
		Height:            v.Height,
		Weight:            v.Weight,
		SubscriptionStart: v.SubscriptionStart,
		SubscriptionEnd:   v.SubscriptionEnd,
		DeviceID:          v.DeviceID,
		Goals:             v.Goals,
	}
}

type userEnvelope struct {
	Status string       `json:"status"`
	User   userResponse `json:"user"`
}

type usersResponse struct {
	Status string         `json:"status"`
	Users  []userResponse `json:"users"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
	PhoneNo  string `json:"phone_no"`
	Gender   string `json:"gender"`
	DOB      string `json:"dob"`
	Height   *int   `json:"height"`
	Weight   *int   `json:"weight"`
}

type goalsRequest struct {
	CaloriesGoal int `json:"calories_goal"`
	ProteinsGoal int `json:"proteins_goal"`
	FatsGoal     int `json:"fats_goal"`
	CarbsGoal    int `json:"carbs_goal"`
}

type goalsResponse struct {
	Status string `json:"status"`
	domain.Goals
}

type nutritionRequest struct {
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

type nutritionResponse struct {
	Status string                 `json:"status"`
	Data   *domain.NutritionEntry `json:"data"`
}

type profileImageResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ProfileImage string `json:"profile_img,omitempty"`
}

// --- Admin ---

type updateUserDetailsRequest struct {
	UserID          string  `json:"user_id"`
	ResetPassword   bool    `json:"reset_password"`
	SubscriptionEnd string  `json:"sub_end_date"`
	DeviceID        *string `json:"device_id"`
}

type updateUserDetailsResponse struct {
	Status       string  `json:"status"`
	Message      string  `json:"message"`
	TempPassword *string `json:"temp_password"`
}

type dashboardResponse struct {
	Status string `json:"status"`
	domain.DashboardStats
}
