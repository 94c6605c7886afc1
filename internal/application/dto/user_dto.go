package dto

import "time"

// CreateUserRequest entrada para crear un usuario de la empresa (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin operador"`
}

// UpdateUserRequest cambio de estado y/o rol (campos opcionales).
type UpdateUserRequest struct {
	Role   *string `json:"role" validate:"omitempty,oneof=admin operador"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ChangePasswordRequest cambio de la contraseña propia.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LoginRequest entrada para login dentro del tenant de la URL.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y datos básicos del usuario y la empresa.
type LoginResponse struct {
	Token   string                `json:"token"`
	User    UserResponse          `json:"user"`
	Company PublicCompanyResponse `json:"company"`
}
