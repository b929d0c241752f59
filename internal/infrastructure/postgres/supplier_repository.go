package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, phone, email, tax_id, address, active, created_at, updated_at`

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var (
		s            entity.Supplier
		email, taxID *string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Phone, &email, &taxID, &s.Address, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Email = derefString(email)
	s.TaxID = derefString(taxID)
	return &s, nil
}

func (r *SupplierRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Phone, nullIfEmpty(s.Email), nullIfEmpty(s.TaxID), s.Address, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.getOne(ctx, "get supplier", `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
}

func (r *SupplierRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Supplier, error) {
	return r.getOne(ctx, "get supplier by tax id", `SELECT `+supplierColumns+` FROM suppliers WHERE tax_id = $1`, taxID)
}

func (r *SupplierRepo) GetByEmail(ctx context.Context, email string) (*entity.Supplier, error) {
	return r.getOne(ctx, "get supplier by email", `SELECT `+supplierColumns+` FROM suppliers WHERE lower(email) = lower($1)`, email)
}

func (r *SupplierRepo) List(ctx context.Context, filter repository.SupplierFilter) ([]*entity.Supplier, error) {
	var (
		where []string
		args  []any
	)
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		args = append(args, likePattern(term))
		where = append(where, `(lower(name) LIKE $1 OR coalesce(tax_id, '') LIKE $1 OR lower(coalesce(email, '')) LIKE $1)`)
	}
	if filter.ActiveOnly {
		where = append(where, "active")
	}
	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY lower(name)`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, phone = $3, email = $4, tax_id = $5, address = $6, active = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Phone, nullIfEmpty(s.Email), nullIfEmpty(s.TaxID), s.Address, s.Active, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("proveedor", s.ID)
	}
	return nil
}

// Delete elimina el proveedor; la FK de movements pone supplier_id en NULL.
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("proveedor", id)
	}
	return nil
}
