package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"internhub/internal/auth"
	"internhub/internal/config"
	apperrors "internhub/internal/errors"
	"internhub/internal/handler"
	"internhub/internal/metrics"
	mw "internhub/internal/middleware"
	"internhub/internal/model"
	"internhub/internal/service"
)

// Deps holds what the router needs to wire routes and middleware.
type Deps struct {
	Log                *logrus.Logger
	JWTService         *auth.JWTService
	AuthService        service.AuthService
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	OfferHandler       *handler.OfferHandler
	ApplicationHandler *handler.ApplicationHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, d Deps) {
	e.HTTPErrorHandler = mw.HTTPErrorHandler
	e.Validator = NewValidator()
	e.Binder = &StrictBinder{}

	e.Use(echomw.RequestID())
	e.Use(mw.RequestLogger(d.Log)...)
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())
	e.Use(echomw.BodyLimit("1M"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	secured := []echo.MiddlewareFunc{mw.JWT(d.JWTService), mw.CurrentUser(d.AuthService)}
	company := []echo.MiddlewareFunc{mw.JWT(d.JWTService), mw.CurrentUser(d.AuthService), mw.RequireRole(model.RoleEntreprise)}
	limiter := authRateLimiter(cfg)

	// Users and profiles
	users := e.Group("/user")
	users.POST("/signup", d.AuthHandler.Signup, limiter)
	users.POST("/login", d.AuthHandler.Login, limiter)
	users.POST("/logout", d.AuthHandler.Logout, secured...)
	users.GET("/current", d.AuthHandler.Current, secured...)
	users.GET("", d.UserHandler.ListUsers, secured...)
	users.PUT("/:id", d.UserHandler.UpdateUser, secured...)
	users.DELETE("/:id", d.UserHandler.DeleteUser, secured...)
	users.POST("/:id/education", d.UserHandler.AddEducation, secured...)
	users.PUT("/:id/education/:eduId", d.UserHandler.UpdateEducation, secured...)
	users.DELETE("/:id/education/:eduId", d.UserHandler.DeleteEducation, secured...)
	users.POST("/:id/projects", d.UserHandler.AddProject, secured...)
	users.PUT("/:id/projects/:projId", d.UserHandler.UpdateProject, secured...)
	users.DELETE("/:id/projects/:projId", d.UserHandler.DeleteProject, secured...)
	users.POST("/:id/offers", d.OfferHandler.CreateCompanyOffer, company...)
	users.PUT("/:id/offers/:offerId", d.OfferHandler.UpdateCompanyOffer, secured...)
	users.DELETE("/:id/offers/:offerId", d.OfferHandler.DeleteCompanyOffer, secured...)

	// Offers
	offers := e.Group("/offer")
	offers.GET("", d.OfferHandler.ListOffers)
	offers.GET("/:id", d.OfferHandler.GetOffer)
	offers.GET("/company/:companyId", d.OfferHandler.ListByCompany)
	offers.POST("", d.OfferHandler.CreateOffer, company...)
	offers.PUT("/:id", d.OfferHandler.UpdateOffer, secured...)
	offers.DELETE("/:id", d.OfferHandler.DeleteOffer, secured...)
	offers.GET("/:id/details", d.OfferHandler.OfferDetails, secured...)
	offers.GET("/:id/summary", d.OfferHandler.OfferSummary, secured...)

	// Applications
	apps := e.Group("/application", secured...)
	apps.GET("", d.ApplicationHandler.ListApplications)
	apps.POST("", d.ApplicationHandler.Apply, mw.RequireRole(model.RoleIntern))
	apps.POST("/apply/:offerId", d.ApplicationHandler.ApplyToOffer, mw.RequireRole(model.RoleIntern))
	apps.GET("/myApplications", d.ApplicationHandler.MyApplications)
	apps.GET("/offer/:offerId", d.ApplicationHandler.ListByOffer)
	apps.GET("/intern/:internId", d.ApplicationHandler.ListByIntern)
	apps.GET("/:id", d.ApplicationHandler.GetApplication)
	apps.PUT("/:id", d.ApplicationHandler.UpdateStatus, mw.RequireRole(model.RoleEntreprise))
	apps.DELETE("/:id", d.ApplicationHandler.DeleteApplication, mw.RequireRole(model.RoleIntern))
}

// authRateLimiter throttles signup and login per client IP.
func authRateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.AuthRateLimit),
			Burst:     cfg.AuthRateBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: "too many attempts, try again later",
				Code:  "RATE_LIMITED",
			})
		},
	})
}
