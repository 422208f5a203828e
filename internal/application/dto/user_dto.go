package dto

import "time"

// RegisterRequest body pour POST /api/auth/register (réservé admin).
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"` // défaut: conseiller
}

// LoginRequest body pour POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse utilisateur dans les réponses (jamais le hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token + utilisateur connecté.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
