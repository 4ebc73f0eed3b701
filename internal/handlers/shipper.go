package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
	"github.com/My-riad/jit-tdexn2-sub003/internal/storage"
)

// ShipperHandler handles shipper-related requests
type ShipperHandler struct {
	store storage.Store
}

// NewShipperHandler creates a new shipper handler
func NewShipperHandler(store storage.Store) *ShipperHandler {
	return &ShipperHandler{
		store: store,
	}
}

// CreateShipper registers a new shipper
func (h *ShipperHandler) CreateShipper(c *fiber.Ctx) error {
	var shipper models.Shipper

	if err := c.BodyParser(&shipper); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if shipper.CompanyName == "" || shipper.ContactEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "company_name and contact_email are required",
		})
	}
	shipper.Active = true

	created, err := h.store.CreateShipper(&shipper)
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Shipper created successfully",
		"shipper": created,
	})
}

// GetShipper retrieves a single shipper by ID
func (h *ShipperHandler) GetShipper(c *fiber.Ctx) error {
	id := c.Params("id")

	shipper, err := h.store.GetShipper(id)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(shipper)
}

// GetShippers lists all shippers
func (h *ShipperHandler) GetShippers(c *fiber.Ctx) error {
	shippers, err := h.store.GetAllShippers()
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"shippers": shippers,
		"count":    len(shippers),
	})
}

// GetShipperLoads lists every load posted by one shipper
func (h *ShipperHandler) GetShipperLoads(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := h.store.GetShipper(id); err != nil {
		return storageError(c, err)
	}
	loads, err := h.store.GetLoadsByShipper(id)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"loads": loads,
		"count": len(loads),
	})
}

// UpdateShipper replaces the mutable fields of an existing shipper
func (h *ShipperHandler) UpdateShipper(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := h.store.GetShipper(id)
	if err != nil {
		return storageError(c, err)
	}

	updated := *existing
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	updated.ShipperID = existing.ShipperID

	if err := h.store.UpdateShipper(&updated); err != nil {
		return storageError(c, err)
	}

	shipper, err := h.store.GetShipper(id)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Shipper updated successfully",
		"shipper": shipper,
	})
}

// DeleteShipper removes a shipper and, by cascade, all of its loads (admin only)
func (h *ShipperHandler) DeleteShipper(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.store.DeleteShipper(id); err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Shipper and its loads deleted",
	})
}
