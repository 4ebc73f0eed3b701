package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
	"github.com/My-riad/jit-tdexn2-sub003/internal/storage"
)

// LoadHandler handles load-related requests
type LoadHandler struct {
	store storage.Store
}

// NewLoadHandler creates a new load handler
func NewLoadHandler(store storage.Store) *LoadHandler {
	return &LoadHandler{
		store: store,
	}
}

// CreateLoad handles creating a new load. Status defaults to CREATED when
// omitted. An inverted pickup or delivery window is persisted as-is (the
// schema does not order the pairs) but reported back as a warning.
func (h *LoadHandler) CreateLoad(c *fiber.Ctx) error {
	var load models.Load

	if err := c.BodyParser(&load); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if load.ShipperID == "" || load.ReferenceNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "shipper_id and reference_number are required",
		})
	}
	if !models.ValidEquipmentType(load.EquipmentType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "equipment_type must be one of DRY_VAN, REFRIGERATED, FLATBED",
		})
	}
	if load.Status != "" && !models.ValidLoadStatus(load.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown status value",
		})
	}
	if load.Weight <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "weight must be positive",
		})
	}
	if !load.Dimensions.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "dimensions must include positive length, width, and height",
		})
	}
	if load.PickupEarliest.IsZero() || load.PickupLatest.IsZero() ||
		load.DeliveryEarliest.IsZero() || load.DeliveryLatest.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "pickup and delivery windows are required",
		})
	}

	var warnings []string
	if load.PickupLatest.Before(load.PickupEarliest) {
		warnings = append(warnings, "pickup_latest is before pickup_earliest")
	}
	if load.DeliveryLatest.Before(load.DeliveryEarliest) {
		warnings = append(warnings, "delivery_latest is before delivery_earliest")
	}

	createdLoad, err := h.store.CreateLoad(&load)
	if err != nil {
		return storageError(c, err)
	}

	body := fiber.Map{
		"message": "Load created successfully",
		"load":    createdLoad,
	}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// GetLoad retrieves a single load by ID
func (h *LoadHandler) GetLoad(c *fiber.Ctx) error {
	id := c.Params("id")

	load, err := h.store.GetLoad(id)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(load)
}

// GetLoadByReference retrieves a load by its shipper-supplied reference number
func (h *LoadHandler) GetLoadByReference(c *fiber.Ctx) error {
	ref := c.Params("ref")

	load, err := h.store.GetLoadByReference(ref)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(load)
}

// GetLoads lists loads filtered by query parameters
func (h *LoadHandler) GetLoads(c *fiber.Ctx) error {
	search := models.LoadSearch{
		ShipperID:     c.Query("shipper_id"),
		Status:        models.LoadStatus(c.Query("status")),
		EquipmentType: models.EquipmentType(c.Query("equipment_type")),
		Limit:         c.QueryInt("limit"),
		Offset:        c.QueryInt("offset"),
	}
	if search.Status != "" && !models.ValidLoadStatus(search.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown status value",
		})
	}
	if search.EquipmentType != "" && !models.ValidEquipmentType(search.EquipmentType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown equipment_type value",
		})
	}

	loads, err := h.store.SearchLoads(&search)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"loads": loads,
		"count": len(loads),
	})
}

// SearchLoads searches for loads based on a JSON filter body
func (h *LoadHandler) SearchLoads(c *fiber.Ctx) error {
	var search models.LoadSearch

	if err := c.BodyParser(&search); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid search parameters",
		})
	}

	results, err := h.store.SearchLoads(&search)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"results": results,
		"count":   len(results),
	})
}

// UpdateLoad replaces the mutable fields of an existing load
func (h *LoadHandler) UpdateLoad(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := h.store.GetLoad(id)
	if err != nil {
		return storageError(c, err)
	}

	updated := *existing
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	updated.LoadID = existing.LoadID

	if err := h.store.UpdateLoad(&updated); err != nil {
		return storageError(c, err)
	}

	load, err := h.store.GetLoad(id)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Load updated successfully",
		"load":    load,
	})
}

// UpdateLoadStatus writes a new status value. Any of the defined statuses is
// accepted at any time; there is no transition graph at this layer.
func (h *LoadHandler) UpdateLoadStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var body struct {
		Status models.LoadStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if !models.ValidLoadStatus(body.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown status value",
		})
	}

	if err := h.store.UpdateLoadStatus(id, body.Status); err != nil {
		return storageError(c, err)
	}

	load, err := h.store.GetLoad(id)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Status updated",
		"load":    load,
	})
}

// DeleteLoad removes a load (admin only)
func (h *LoadHandler) DeleteLoad(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.store.DeleteLoad(id); err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Load deleted",
	})
}

// GetExpiringLoads lists loads whose pickup window closes within the given
// number of hours (default 24) and that are still waiting for a carrier.
func (h *LoadHandler) GetExpiringLoads(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)

	cutoff := time.Now().Add(time.Duration(hours) * time.Hour)
	loads, err := h.store.GetExpirableLoads(cutoff)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"loads": loads,
		"count": len(loads),
	})
}
