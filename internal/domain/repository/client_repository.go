package repository

import "github.com/myconfort/facturation-api/internal/domain/entity"

// ClientRepository définit le port de persistance des clients.
type ClientRepository interface {
	Create(client *entity.Client) error
	Update(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	FindByEmail(email string) (*entity.Client, error)
	List(limit, offset int) ([]*entity.Client, error)
}
