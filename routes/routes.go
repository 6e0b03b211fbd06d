package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/controllers"
	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/auth/register", controllers.Register)
	api.Post("/auth/login", controllers.Login)
	api.Post("/auth/anonymous", controllers.Anonymous)

	// Public listings
	api.Get("/ads", controllers.GetAds)
	api.Get("/places", controllers.GetPlaces)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then the per-request transaction (commits/rolls back the publish)
	protected.Use(middlewares.Tx())

	// Gate preflight (read-only, consumes nothing)
	protected.Get("/gates/free-ad", controllers.CheckFreeAdGate)
	protected.Get("/gates/classified", controllers.CheckClassifiedGate)

	// Ads
	protected.Post("/ads/free", controllers.CreateFreeAd)
	protected.Post("/ads/classified", controllers.CreateClassifiedAd)
	protected.Patch("/ads/:id", controllers.UpdateAd)

	// Places
	protected.Post("/places", controllers.CreatePlace)
}
