package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
	"github.com/My-riad/jit-tdexn2-sub003/internal/storage"
)

type AnalyticsHandler struct {
	store storage.Store
}

func NewAnalyticsHandler(store storage.Store) *AnalyticsHandler {
	return &AnalyticsHandler{
		store: store,
	}
}

// GetLoadAnalytics returns the dashboard counters: loads per status (in
// lifecycle display order), loads per equipment type, loads expiring within
// 24 hours, and reefer loads posted without temperature requirements.
func (h *AnalyticsHandler) GetLoadAnalytics(c *fiber.Ctx) error {
	byStatus, err := h.store.CountLoadsByStatus()
	if err != nil {
		return storageError(c, err)
	}
	byEquipment, err := h.store.CountLoadsByEquipment()
	if err != nil {
		return storageError(c, err)
	}
	expiringSoon, err := h.store.CountLoadsPickingUpBefore(time.Now().Add(24 * time.Hour))
	if err != nil {
		return storageError(c, err)
	}
	reeferMissingTemps, err := h.store.CountReeferLoadsMissingTemperature()
	if err != nil {
		return storageError(c, err)
	}

	statuses := make([]fiber.Map, 0, len(models.LoadStatusSequence))
	var total int64
	for _, status := range models.LoadStatusSequence {
		statuses = append(statuses, fiber.Map{
			"status": status,
			"count":  byStatus[status],
		})
	}
	for _, n := range byStatus {
		total += n
	}

	return c.JSON(fiber.Map{
		"total_loads": total,
		"by_status":   statuses,
		"terminal_branches": fiber.Map{
			"CANCELLED": byStatus[models.StatusCancelled],
			"EXPIRED":   byStatus[models.StatusExpired],
			"DELAYED":   byStatus[models.StatusDelayed],
			"EXCEPTION": byStatus[models.StatusException],
			"RESOLVED":  byStatus[models.StatusResolved],
		},
		"by_equipment":         byEquipment,
		"expiring_within_24h":  expiringSoon,
		"reefer_missing_temps": reeferMissingTemps,
	})
}
