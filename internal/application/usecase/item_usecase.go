package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para insumos. Balance y AverageCost se manejan vía movimientos.
type ItemUseCase struct {
	repo repository.ItemRepository
	now  func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, now: time.Now}
}

// Create registra un insumo con saldo 0 y costo promedio 0.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := rejectStockFields(in.Balance, in.AverageCost); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if err := validateItemEnums(in.Category, in.UnitMeasure); err != nil {
		return nil, err
	}
	threshold := int64(entity.DefaultReorderThreshold)
	if in.ReorderThreshold != nil {
		threshold = *in.ReorderThreshold
	}
	if threshold < 0 {
		return nil, domain.NewValidationError("reorder_threshold", "no puede ser negativo")
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := uc.now()
	item := &entity.Item{
		ID:               uuid.New().String(),
		Name:             name,
		Category:         in.Category,
		UnitMeasure:      in.UnitMeasure,
		ReorderThreshold: threshold,
		AverageCost:      decimal.Zero,
		Active:           active,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	out := dto.FromItem(item)
	return &out, nil
}

// GetByID obtiene un insumo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromItem(item)
	return &out, nil
}

// Update modifica solo los campos descriptivos del insumo.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := rejectStockFields(in.Balance, in.AverageCost); err != nil {
		return nil, err
	}
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede estar vacío")
		}
		if entity.NameKey(name) != entity.NameKey(item.Name) {
			existing, err := uc.repo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != item.ID {
				return nil, domain.ErrDuplicate
			}
		}
		item.Name = name
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.UnitMeasure != nil {
		item.UnitMeasure = *in.UnitMeasure
	}
	if err := validateItemEnums(item.Category, item.UnitMeasure); err != nil {
		return nil, err
	}
	if in.ReorderThreshold != nil {
		if *in.ReorderThreshold < 0 {
			return nil, domain.NewValidationError("reorder_threshold", "no puede ser negativo")
		}
		item.ReorderThreshold = *in.ReorderThreshold
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	out := dto.FromItem(item)
	return &out, nil
}

// List lista insumos por nombre, con búsqueda opcional por nombre o categoría.
func (uc *ItemUseCase) List(ctx context.Context, q dto.ItemListQuery) (dto.ListResponse[dto.ItemResponse], error) {
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		Search:     strings.TrimSpace(q.Search),
		ActiveOnly: q.ActiveOnly,
		InStock:    q.InStock,
	})
	if err != nil {
		return dto.ListResponse[dto.ItemResponse]{}, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, dto.FromItem(it))
	}
	return dto.NewList(items), nil
}

// Delete elimina un insumo. Falla con domain.ErrReferenced si tiene lotes.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ItemUseCase) get(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("insumo", id)
	}
	return item, nil
}

func rejectStockFields(balance *int64, averageCost *decimal.Decimal) error {
	if balance != nil {
		return domain.NewValidationError("balance", "solo se modifica mediante entradas y salidas")
	}
	if averageCost != nil {
		return domain.NewValidationError("average_cost", "solo se modifica mediante entradas")
	}
	return nil
}

func validateItemEnums(category, unit string) error {
	if !entity.ValidCategory(category) {
		return domain.NewValidationError("category", "categoría desconocida")
	}
	if !entity.ValidUnitMeasure(unit) {
		return domain.NewValidationError("unit_measure", "unidad de medida desconocida")
	}
	return nil
}
