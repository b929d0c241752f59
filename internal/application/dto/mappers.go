package dto

import (
	"time"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// DateLayout formato de fechas sin hora (vencimientos, nacimiento, filtros de período).
const DateLayout = "2006-01-02"

// FromItem convierte la entidad en su salida HTTP.
func FromItem(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:               i.ID,
		Name:             i.Name,
		Category:         i.Category,
		UnitMeasure:      i.UnitMeasure,
		ReorderThreshold: i.ReorderThreshold,
		Balance:          i.Balance,
		AverageCost:      i.AverageCost,
		LowStock:         i.IsLowStock(),
		Active:           i.Active,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func FromBatch(b *entity.Batch) BatchResponse {
	return BatchResponse{
		ID:                b.ID,
		ItemID:            b.ItemID,
		LotNumber:         b.LotNumber,
		ExpiryDate:        b.ExpiryDate.Format(DateLayout),
		RemainingQuantity: b.RemainingQuantity,
		CreatedAt:         b.CreatedAt,
	}
}

func FromSupplier(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		TaxID:     s.TaxID,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromStaff convierte el funcionario sin exponer el hash de contraseña.
func FromStaff(s *entity.StaffMember) StaffResponse {
	var birth *time.Time
	if !s.BirthDate.IsZero() {
		b := s.BirthDate
		birth = &b
	}
	return StaffResponse{
		ID:         s.ID,
		Name:       s.Name,
		BirthDate:  birth,
		CPF:        s.CPF,
		Sex:        s.Sex,
		Birthplace: s.Birthplace,
		Phone:      s.Phone,
		Address:    s.Address,
		JobTitle:   s.JobTitle,
		Role:       s.Role,
		Email:      s.Email,
		Active:     s.Active,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// FromMovement arma la respuesta de un movimiento confirmado.
func FromMovement(m *entity.Movement, item *entity.Item, batch *entity.Batch) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		Kind:          m.Kind,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		Reason:        m.Reason,
		SupplierID:    m.SupplierID,
		StaffMemberID: m.StaffMemberID,
		CreatedAt:     m.CreatedAt,
		Item:          FromItem(item),
		Batch:         FromBatch(batch),
	}
}
