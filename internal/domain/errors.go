package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrReferenced        = errors.New("recurso referenciado por otros registros")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrPendingApproval   = errors.New("cuenta pendiente de aprobación")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError describe un campo inválido. errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is permite comparar contra ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// InsufficientStockError se devuelve cuando una salida pide más de lo disponible en el lote.
type InsufficientStockError struct {
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: solicitado %d, disponible %d", e.Requested, e.Available)
}

// Is permite comparar contra ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NotFound envuelve ErrNotFound indicando qué recurso falta.
func NotFound(resource, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}
