package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/My-riad/jit-tdexn2-sub003/internal/handlers"
	"github.com/My-riad/jit-tdexn2-sub003/internal/middleware"
	"github.com/My-riad/jit-tdexn2-sub003/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, version string) {
	healthHandler := handlers.NewHealthHandler(version)
	shipperHandler := handlers.NewShipperHandler(store)
	loadHandler := handlers.NewLoadHandler(store)
	hubHandler := handlers.NewSmartHubHandler(store)
	analyticsHandler := handlers.NewAnalyticsHandler(store)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")
	adminOnly := middleware.RequireAdminToken()

	// Shipper routes
	shippers := api.Group("/shippers")
	shippers.Post("/", shipperHandler.CreateShipper)
	shippers.Get("/", shipperHandler.GetShippers)
	shippers.Get("/:id", shipperHandler.GetShipper)
	shippers.Get("/:id/loads", shipperHandler.GetShipperLoads)
	shippers.Put("/:id", shipperHandler.UpdateShipper)
	shippers.Delete("/:id", adminOnly, shipperHandler.DeleteShipper)

	// Load routes
	loads := api.Group("/loads")
	loads.Post("/", loadHandler.CreateLoad)
	loads.Get("/", loadHandler.GetLoads)
	loads.Post("/search", loadHandler.SearchLoads)
	loads.Get("/expiring", loadHandler.GetExpiringLoads)
	loads.Get("/reference/:ref", loadHandler.GetLoadByReference)
	loads.Get("/:id", loadHandler.GetLoad)
	loads.Put("/:id", loadHandler.UpdateLoad)
	loads.Patch("/:id/status", loadHandler.UpdateLoadStatus)
	loads.Delete("/:id", adminOnly, loadHandler.DeleteLoad)

	// Smart hub routes
	hubs := api.Group("/hubs")
	hubs.Post("/", adminOnly, hubHandler.CreateHub)
	hubs.Get("/", hubHandler.GetHubs)
	hubs.Get("/nearby", hubHandler.GetNearbyHubs)
	hubs.Get("/:id", hubHandler.GetHub)
	hubs.Put("/:id", adminOnly, hubHandler.UpdateHub)
	hubs.Patch("/:id/deactivate", adminOnly, hubHandler.DeactivateHub)

	// Analytics routes
	analytics := api.Group("/analytics")
	analytics.Get("/loads", analyticsHandler.GetLoadAnalytics)
}
