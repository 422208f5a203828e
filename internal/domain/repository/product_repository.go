package repository

import "github.com/myconfort/facturation-api/internal/domain/entity"

// ProductRepository définit le port de persistance du catalogue.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
