package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/My-riad/jit-tdexn2-sub003/internal/storage"
)

// storageError maps the storage sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body.
func storageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Record not found",
		})
	case errors.Is(err, storage.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, storage.ErrForeignKey):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, storage.ErrNotNull), errors.Is(err, storage.ErrInvalidEnum):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
