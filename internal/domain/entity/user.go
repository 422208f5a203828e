package entity

import "time"

// Rôles valides pour User.
const (
	RoleAdmin      = "admin"
	RoleConseiller = "conseiller"
)

// User représente un utilisateur de l'application (conseiller ou admin).
type User struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, jamais en clair après persistance
	Name         string
	Role         string // admin, conseiller
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
