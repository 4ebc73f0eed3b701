package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
	"github.com/My-riad/jit-tdexn2-sub003/internal/storage"
)

// SmartHubHandler handles smart hub requests
type SmartHubHandler struct {
	store storage.Store
}

// NewSmartHubHandler creates a new smart hub handler
func NewSmartHubHandler(store storage.Store) *SmartHubHandler {
	return &SmartHubHandler{
		store: store,
	}
}

// CreateHub registers a new smart hub (admin only)
func (h *SmartHubHandler) CreateHub(c *fiber.Ctx) error {
	var hub models.SmartHub

	if err := c.BodyParser(&hub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if hub.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}
	if !models.ValidHubType(hub.HubType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown hub_type value",
		})
	}
	if hub.Latitude < -90 || hub.Latitude > 90 || hub.Longitude < -180 || hub.Longitude > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "latitude/longitude out of range",
		})
	}
	if hub.Capacity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "capacity must be non-negative",
		})
	}
	hub.Active = true

	created, err := h.store.CreateHub(&hub)
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Smart hub created successfully",
		"hub":     created,
	})
}

// GetHub retrieves a single hub by ID
func (h *SmartHubHandler) GetHub(c *fiber.Ctx) error {
	id := c.Params("id")

	hub, err := h.store.GetHub(id)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(hub)
}

// GetHubs lists hubs, optionally filtered by type and active flag
func (h *SmartHubHandler) GetHubs(c *fiber.Ctx) error {
	search := models.HubSearch{
		HubType:    models.HubType(c.Query("hub_type")),
		ActiveOnly: c.QueryBool("active_only", true),
	}
	if search.HubType != "" && !models.ValidHubType(search.HubType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown hub_type value",
		})
	}

	hubs, err := h.store.SearchHubs(&search)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"hubs":  hubs,
		"count": len(hubs),
	})
}

// GetNearbyHubs returns active hubs within radius_km of a coordinate
func (h *SmartHubHandler) GetNearbyHubs(c *fiber.Ctx) error {
	// Absent params would otherwise parse as 0,0 — a valid coordinate in the
	// Gulf of Guinea, not what the caller meant.
	if c.Query("lat") == "" || c.Query("lon") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lat and lon query parameters are required",
		})
	}

	lat := c.QueryFloat("lat")
	lon := c.QueryFloat("lon")
	radius := c.QueryFloat("radius_km", 50)

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 || radius <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lat, lon, and a positive radius_km are required",
		})
	}

	hubs, err := h.store.GetNearbyHubs(lat, lon, radius)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"hubs":  hubs,
		"count": len(hubs),
	})
}

// UpdateHub replaces the mutable fields of a hub (admin only)
func (h *SmartHubHandler) UpdateHub(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := h.store.GetHub(id)
	if err != nil {
		return storageError(c, err)
	}

	updated := *existing
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	updated.HubID = existing.HubID
	if updated.Capacity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "capacity must be non-negative",
		})
	}

	if err := h.store.UpdateHub(&updated); err != nil {
		return storageError(c, err)
	}

	hub, err := h.store.GetHub(id)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Smart hub updated successfully",
		"hub":     hub,
	})
}

// DeactivateHub flags a hub out of service; hubs are never deleted (admin only)
func (h *SmartHubHandler) DeactivateHub(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.store.DeactivateHub(id); err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Smart hub deactivated",
	})
}
