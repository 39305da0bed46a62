package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pubfit/membership-api/docs"
	"github.com/pubfit/membership-api/internal/api/handler"
	"github.com/pubfit/membership-api/internal/api/middleware"
	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
	infrahttp "github.com/pubfit/membership-api/internal/infrastructure/http"
	"github.com/pubfit/membership-api/internal/infrastructure/http/handlers"
)

// uploadBodyLimit caps multipart requests slightly above the image size limit.
const uploadBodyLimit = "6M"

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth          ports.AuthService
	Registrations ports.RegistrationService
	Members       ports.MemberService
	Admin         ports.AdminService
	Tokens        middleware.TokenDecoder

	HealthChecks []handlers.Check

	// Registerer and Gatherer default to the global prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := infrahttp.New(d.Log)
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "membership",
		Registerer: registerer,
	}))

	// --- Operational endpoints ---
	infrahttp.RegisterHealth(e, d.HealthChecks...)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(d.Auth)
	registrationHandler := handler.NewRegistrationHandler(d.Registrations)
	memberHandler := handler.NewMemberHandler(d.Members)
	adminHandler := handler.NewAdminHandler(d.Admin)

	authenticated := middleware.Auth(d.Tokens)
	adminOnly := []echo.MiddlewareFunc{authenticated, middleware.RBAC(domain.RoleAdmin)}

	api := e.Group("/api")

	// --- Public ---
	api.POST("/login", authHandler.Login)
	api.POST("/contact-admin", registrationHandler.Submit)
	api.POST("/registration-requests", registrationHandler.Submit)

	// --- Self-service (any valid token; the acting user comes from the token) ---
	api.GET("/user-profile", memberHandler.Profile, authenticated)
	api.PUT("/update-profile", memberHandler.UpdateProfile, authenticated)
	api.GET("/user-goals", memberHandler.Goals, authenticated)
	api.PUT("/update-goals", memberHandler.UpdateGoals, authenticated)
	api.GET("/nutrition-data/:date", memberHandler.Nutrition, authenticated)
	api.POST("/nutrition-data", memberHandler.SaveNutrition, authenticated)
	api.POST("/update-profile-image", memberHandler.UpdateProfileImage,
		echomiddleware.BodyLimit(uploadBodyLimit), authenticated)
	api.PUT("/update-password", authHandler.UpdatePassword, authenticated)

	// --- Admin ---
	api.POST("/register", authHandler.Register, adminOnly...)
	api.GET("/pending-requests", registrationHandler.ListPending, adminOnly...)
	api.POST("/approve-request/:id", registrationHandler.Approve, adminOnly...)
	api.POST("/reject-request/:id", registrationHandler.Reject, adminOnly...)
	api.GET("/dashboard-stats", adminHandler.DashboardStats, adminOnly...)
	api.GET("/users", adminHandler.ListUsers, adminOnly...)
	api.GET("/users/:id", adminHandler.GetUser, adminOnly...)
	api.POST("/update-user-details", adminHandler.UpdateUserDetails, adminOnly...)
	api.DELETE("/users/:id", adminHandler.DeleteUser, adminOnly...)

	return e
}
