package routes

import (
	"cafechain/internal/adapters/http/handlers"
	"cafechain/internal/adapters/http/middleware"
	"cafechain/internal/config"
	"cafechain/internal/core/services"
	"cafechain/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the services the routes are wired to
type Deps struct {
	Config     *config.Config
	Store      *services.Store
	Redemption *services.RedemptionService
	Storage    handlers.HealthChecker
	Gatherer   prometheus.Gatherer
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Deps) {
	healthHandler := handlers.NewHealthHandler(deps.Config, deps.Storage)
	stateHandler := handlers.NewStateHandler(deps.Store)
	authHandler := handlers.NewAuthHandler(deps.Store)
	cafeHandler := handlers.NewCafeHandler(deps.Store)
	redemptionHandler := handlers.NewRedemptionHandler(deps.Store, deps.Redemption)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := app.Group("/api/v1", middleware.NoStore())
	apiV1.Get("/", healthHandler.APIInfo)

	protected := apiV1.Group("", middleware.AuthMiddleware(deps.Config))

	// State
	protected.Get("/state", stateHandler.GetState)
	protected.Post("/actions", stateHandler.Dispatch)
	protected.Get("/transactions", stateHandler.ListTransactions)
	protected.Post("/transactions", cafeHandler.AddTransaction)
	protected.Put("/reference-data", cafeHandler.SetReferenceData)

	// Session
	auth := protected.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	// Cafe profile & dashboard
	cafe := protected.Group("/cafe")
	cafe.Put("/", cafeHandler.SetProfile)
	cafe.Patch("/", cafeHandler.PatchProfile)
	cafe.Post("/setup", cafeHandler.CompleteSetup)
	cafe.Post("/status/toggle", cafeHandler.ToggleStatus)
	cafe.Post("/gallery", cafeHandler.AddGalleryImage)
	cafe.Delete("/gallery/:index", cafeHandler.RemoveGalleryImage)
	protected.Patch("/metrics", cafeHandler.PatchMetrics)
	protected.Put("/performance", cafeHandler.SetPerformance)

	// Redemption
	redemption := protected.Group("/redemption")
	redemption.Get("/", redemptionHandler.Get)
	redemption.Post("/otp", middleware.OTPRateLimiter(), redemptionHandler.RequestOTP)
	redemption.Post("/verify", middleware.OTPRateLimiter(), redemptionHandler.VerifyOTP)
	redemption.Post("/cancel", redemptionHandler.Cancel)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})
}
