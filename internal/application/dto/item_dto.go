package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para registrar un insumo. El saldo y el costo promedio inician en 0.
type CreateItemRequest struct {
	Name             string           `json:"name" validate:"required,max=200"`
	Category         string           `json:"category" validate:"required"`
	UnitMeasure      string           `json:"unit_measure" validate:"required"`
	ReorderThreshold *int64           `json:"reorder_threshold,omitempty"`
	Active           *bool            `json:"active,omitempty"`
	Balance          *int64           `json:"balance,omitempty" swaggerignore:"true"`
	AverageCost      *decimal.Decimal `json:"average_cost,omitempty" swaggerignore:"true"`
}

// UpdateItemRequest actualiza solo campos descriptivos. Enviar balance o average_cost es un error.
type UpdateItemRequest struct {
	Name             *string          `json:"name,omitempty"`
	Category         *string          `json:"category,omitempty"`
	UnitMeasure      *string          `json:"unit_measure,omitempty"`
	ReorderThreshold *int64           `json:"reorder_threshold,omitempty"`
	Active           *bool            `json:"active,omitempty"`
	Balance          *int64           `json:"balance,omitempty" swaggerignore:"true"`
	AverageCost      *decimal.Decimal `json:"average_cost,omitempty" swaggerignore:"true"`
}

// ItemResponse salida de un insumo.
type ItemResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	UnitMeasure      string          `json:"unit_measure"`
	ReorderThreshold int64           `json:"reorder_threshold"`
	Balance          int64           `json:"balance"`
	AverageCost      decimal.Decimal `json:"average_cost"`
	LowStock         bool            `json:"low_stock"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ItemListQuery filtros de GET /api/items.
type ItemListQuery struct {
	Search     string `query:"search"`
	ActiveOnly bool   `query:"active_only"`
	InStock    bool   `query:"in_stock"`
}
