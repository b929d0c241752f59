package entity

import "time"

// Roles válidos para StaffMember.
const (
	RoleAdmin    = "ADMIN"
	RoleStandard = "STANDARD"
)

// StaffMember representa un funcionario con acceso al sistema.
type StaffMember struct {
	ID           string
	Name         string
	BirthDate    time.Time
	CPF          string
	Sex          string // M, F
	Birthplace   string
	Phone        string
	Address      string
	JobTitle     string
	Role         string
	Email        string
	PasswordHash string // bcrypt hash
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el funcionario tiene rol ADMIN.
func (s *StaffMember) IsAdmin() bool { return s.Role == RoleAdmin }

// ValidRole indica si r es un rol conocido.
func ValidRole(r string) bool { return r == RoleAdmin || r == RoleStandard }
