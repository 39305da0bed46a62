package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

// profileImageField is the multipart field carrying the uploaded image.
const profileImageField = "profile_image"

// MemberHandler serves the self-service endpoints. The acting user always
// comes from the session token.
type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// Profile handles GET /api/user-profile.
//
// @Summary      Get own profile
// @Tags         self-service
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/user-profile [get]
func (h *MemberHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	view, err := h.service.Profile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Status: statusSuccess, User: toUserResponse(view)})
}

// UpdateProfile handles PUT /api/update-profile.
//
// @Summary      Update own profile
// @Tags         self-service
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/update-profile [put]
func (h *MemberHandler) UpdateProfile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	err = h.service.UpdateProfile(c.Request().Context(), claims.UserID, ports.ProfileInput{
		Username: req.Username,
		PhoneNo:  req.PhoneNo,
		Gender:   req.Gender,
		DOB:      req.DOB,
		Height:   req.Height,
		Weight:   req.Weight,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success("Profile updated successfully"))
}

// Goals handles GET /api/user-goals.
//
// @Summary      Get own nutrition goals
// @Tags         self-service
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  goalsResponse
// @Router       /api/user-goals [get]
func (h *MemberHandler) Goals(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	goals, err := h.service.Goals(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, goalsResponse{Status: statusSuccess, Goals: goals})
}

// UpdateGoals handles PUT /api/update-goals.
//
// @Summary      Update own nutrition goals
// @Tags         self-service
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      goalsRequest  true  "Daily targets"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/update-goals [put]
func (h *MemberHandler) UpdateGoals(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req goalsRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	err = h.service.UpdateGoals(c.Request().Context(), claims.UserID, ports.GoalsInput{
		Calories: req.CaloriesGoal,
		Proteins: req.ProteinsGoal,
		Fats:     req.FatsGoal,
		Carbs:    req.CarbsGoal,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success("Nutrition goals updated successfully"))
}

// Nutrition handles GET /api/nutrition-data/:date.
//
// @Summary      Get own nutrition log for a day
// @Tags         self-service
// @Produce      json
// @Security     BearerAuth
// @Param        date  path      string  true  "Day (YYYY-MM-DD)"
// @Success      200   {object}  nutritionResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/nutrition-data/{date} [get]
func (h *MemberHandler) Nutrition(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	entry, err := h.service.Nutrition(c.Request().Context(), claims.UserID, c.Param("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nutritionResponse{Status: statusSuccess, Data: entry})
}

// SaveNutrition handles POST /api/nutrition-data.
//
// @Summary      Save own nutrition log for a day
// @Tags         self-service
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      nutritionRequest  true  "Day's log"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/nutrition-data [post]
func (h *MemberHandler) SaveNutrition(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req nutritionRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	err = h.service.SaveNutrition(c.Request().Context(), claims.UserID, ports.NutritionInput{
		Date:      req.Date,
		Breakfast: req.Breakfast,
		Lunch:     req.Lunch,
		Snacks:    req.Snacks,
		Dinner:    req.Dinner,
		Calories:  req.Calories,
		Carbs:     req.Carbs,
		Proteins:  req.Proteins,
		Fats:      req.Fats,
		Water:     req.Water,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success("Nutrition data saved successfully"))
}

// UpdateProfileImage handles POST /api/update-profile-image (multipart).
//
// @Summary      Upload own profile image
// @Tags         self-service
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        profile_image  formData  file  true  "Image file"
// @Success      200            {object}  profileImageResponse
// @Failure      400            {object}  map[string]string
// @Failure      503            {object}  map[string]string
// @Router       /api/update-profile-image [post]
func (h *MemberHandler) UpdateProfileImage(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(profileImageField)
	if err != nil {
		return fmt.Errorf("%w: no image file provided", domain.ErrValidation)
	}
	if fh.Filename == "" {
		return fmt.Errorf("%w: no image file selected", domain.ErrValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	url, err := h.service.UpdateProfileImage(c.Request().Context(), claims.UserID, ports.ImageObject{
		Body:        f,
		Size:        fh.Size,
		ContentType: fh.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileImageResponse{
		Status:       statusSuccess,
		Message:      "Profile image updated successfully",
		ProfileImage: url,
	})
}
