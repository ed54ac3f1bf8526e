package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError acompaña a ErrInsufficientStock con la cantidad disponible
// calculada al momento del rechazo (unidades de producto o de kit según la operación).
type InsufficientStockError struct {
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: disponible %d", ErrInsufficientStock.Error(), e.Available)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// NewInsufficientStock construye el error con la cantidad disponible.
func NewInsufficientStock(available int64) error {
	if available < 0 {
		available = 0
	}
	return &InsufficientStockError{Available: available}
}

// AvailableFrom extrae la cantidad disponible de un error de stock insuficiente.
func AvailableFrom(err error) (int64, bool) {
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return se.Available, true
	}
	return 0, false
}
