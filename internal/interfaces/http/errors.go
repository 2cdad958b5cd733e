package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-local/internal/application/dto"
	"github.com/jhoicas/inventario-local/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Message, Field: verr.Field})
	case errors.Is(err, domain.ErrDuplicateBarcode):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_BARCODE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFIRMATION_REQUIRED", Message: "confirme la eliminación con ?confirm=true"})
	case errors.Is(err, domain.ErrScannerUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SCANNER_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// markPersistence indica al cliente que el cambio quedó solo en memoria.
// Devuelve true si err es un error distinto de un fallo de persistencia.
func markPersistence(c *fiber.Ctx, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrPersistence) {
		c.Set("X-Persisted", "false")
		return false
	}
	return true
}
