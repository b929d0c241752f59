package dto

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token firmado y datos del funcionario autenticado.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in"` // segundos
	Staff     StaffResponse `json:"staff"`
}

// RegisterResponse resultado del auto-registro: la cuenta queda pendiente de aprobación.
type RegisterResponse struct {
	Staff   StaffResponse `json:"staff"`
	Message string        `json:"message"`
}
