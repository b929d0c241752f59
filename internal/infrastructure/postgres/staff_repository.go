package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.StaffRepository = (*StaffRepo)(nil)

const staffColumns = `id, name, birth_date, cpf, sex, birthplace, phone, address, job_title, role, email, password_hash, active, created_at, updated_at`

// StaffRepo implementación de StaffRepository sobre PostgreSQL.
type StaffRepo struct {
	q Querier
}

// NewStaffRepository construye el adaptador de funcionarios. Pasar pool o tx (Querier).
func NewStaffRepository(q Querier) *StaffRepo {
	return &StaffRepo{q: q}
}

func scanStaff(row pgx.Row) (*entity.StaffMember, error) {
	var (
		m     entity.StaffMember
		birth *time.Time
	)
	err := row.Scan(&m.ID, &m.Name, &birth, &m.CPF, &m.Sex, &m.Birthplace, &m.Phone, &m.Address,
		&m.JobTitle, &m.Role, &m.Email, &m.PasswordHash, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.BirthDate = derefTime(birth)
	return &m, nil
}

func (r *StaffRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.StaffMember, error) {
	m, err := scanStaff(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func (r *StaffRepo) Create(ctx context.Context, m *entity.StaffMember) error {
	query := `
		INSERT INTO staff_members (` + staffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Name, nullTime(m.BirthDate), m.CPF, m.Sex, m.Birthplace, m.Phone, m.Address,
		m.JobTitle, m.Role, m.Email, m.PasswordHash, m.Active, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert staff member: %w", err)
	}
	return nil
}

func (r *StaffRepo) GetByID(ctx context.Context, id string) (*entity.StaffMember, error) {
	return r.getOne(ctx, "get staff member", `SELECT `+staffColumns+` FROM staff_members WHERE id = $1`, id)
}

func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (*entity.StaffMember, error) {
	return r.getOne(ctx, "get staff member by email", `SELECT `+staffColumns+` FROM staff_members WHERE lower(email) = lower($1)`, email)
}

func (r *StaffRepo) GetByCPF(ctx context.Context, cpf string) (*entity.StaffMember, error) {
	return r.getOne(ctx, "get staff member by cpf", `SELECT `+staffColumns+` FROM staff_members WHERE cpf = $1`, cpf)
}

func (r *StaffRepo) List(ctx context.Context, search string) ([]*entity.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members`
	var args []any
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		args = append(args, likePattern(term))
		query += ` WHERE lower(name) LIKE $1 OR cpf LIKE $1 OR lower(email) LIKE $1`
	}
	query += ` ORDER BY lower(name)`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff members: %w", err)
	}
	defer rows.Close()
	var list []*entity.StaffMember
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff member: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *StaffRepo) Update(ctx context.Context, m *entity.StaffMember) error {
	query := `
		UPDATE staff_members SET name = $2, birth_date = $3, cpf = $4, sex = $5, birthplace = $6, phone = $7,
			address = $8, job_title = $9, role = $10, email = $11, password_hash = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, m.Name, nullTime(m.BirthDate), m.CPF, m.Sex, m.Birthplace, m.Phone,
		m.Address, m.JobTitle, m.Role, m.Email, m.PasswordHash, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update staff member: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("funcionario", m.ID)
	}
	return nil
}

func (r *StaffRepo) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE staff_members SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set staff member active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("funcionario", id)
	}
	return nil
}

// Delete falla con domain.ErrReferenced mientras existan movimientos del funcionario (FK RESTRICT).
func (r *StaffRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM staff_members WHERE id = $1`, id)
	if err != nil {
		if isFKViolation(err) {
			return domain.ErrReferenced
		}
		return fmt.Errorf("delete staff member: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("funcionario", id)
	}
	return nil
}
