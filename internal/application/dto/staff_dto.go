package dto

import "time"

// StaffRequest entrada para crear o actualizar un funcionario.
// En la actualización Password vacío conserva la contraseña actual.
type StaffRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	BirthDate  string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	CPF        string `json:"cpf" validate:"required"`
	Sex        string `json:"sex" validate:"omitempty,oneof=M F"`
	Birthplace string `json:"birthplace"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	JobTitle   string `json:"job_title"`
	Role       string `json:"role" validate:"omitempty,oneof=ADMIN STANDARD"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// StaffResponse salida de un funcionario (sin hash de contraseña).
type StaffResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	CPF        string     `json:"cpf"`
	Sex        string     `json:"sex"`
	Birthplace string     `json:"birthplace"`
	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
	JobTitle   string     `json:"job_title"`
	Role       string     `json:"role"`
	Email      string     `json:"email"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
