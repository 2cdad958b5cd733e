package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("producto no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicateBarcode   = errors.New("ya existe un producto con este código de barras")
	ErrDataCorruption     = errors.New("catálogo persistido corrupto")
	ErrPersistence        = errors.New("no se pudo guardar el catálogo")
	ErrScannerUnavailable = errors.New("escáner no disponible")
	ErrCancelled          = errors.New("operación cancelada por el usuario")
)

// ValidationError describe un campo inválido al crear o editar un producto.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye el error para un campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
