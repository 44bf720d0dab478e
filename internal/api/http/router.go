package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/carventory/internal/api/http/handlers"
	"github.com/spec-kit/carventory/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Cars           *handlers.CarsHandler
	Offers         *handlers.OffersHandler
	TestDrive      *handlers.TestDriveHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Static("/uploads", cfg.UploadsDir)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	adminGroup := app.Group("/admin")
	adminGroup.Post("/signup", cfg.Admin.Signup)
	adminGroup.Post("/verify", cfg.Admin.Verify)
	adminGroup.Post("/login", cfg.Admin.Login)
	adminGroup.Get("/pending-requests", cfg.AuthMiddleware.RequireSuperAdmin, cfg.Admin.PendingRequests)
	adminGroup.Post("/approve-admin/:id", cfg.AuthMiddleware.RequireSuperAdmin, cfg.Admin.ApproveAdmin)

	carsGroup := app.Group("/cars")
	carsGroup.Get("/", cfg.Cars.List)
	carsGroup.Get("/mine", cfg.AuthMiddleware.RequireUser, cfg.Cars.ListMine)
	carsGroup.Get("/:id", cfg.Cars.Get)
	carsGroup.Post("/", cfg.AuthMiddleware.RequireUser, cfg.Cars.Create)
	carsGroup.Put("/:id", cfg.AuthMiddleware.RequireUser, cfg.Cars.Update)
	carsGroup.Delete("/:id", cfg.AuthMiddleware.RequireUser, cfg.Cars.Delete)

	offersGroup := app.Group("/offers", cfg.AuthMiddleware.RequireUser)
	offersGroup.Post("/", cfg.Offers.Create)
	offersGroup.Get("/received/:userId", cfg.Offers.ListReceived)
	offersGroup.Get("/sent/:userId", cfg.Offers.ListSent)
	offersGroup.Get("/car/:carId", cfg.Offers.ListForCar)
	offersGroup.Put("/:offerId/accept", cfg.Offers.Accept)
	offersGroup.Put("/:offerId/reject", cfg.Offers.Reject)

	app.Post("/test-drive-request", cfg.AuthMiddleware.RequireUser, cfg.TestDrive.Request)
}
