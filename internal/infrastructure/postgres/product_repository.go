package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implémentation de ProductRepository.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construit l'adaptateur.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un produit du catalogue.
func (r *ProductRepo) Create(product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `
		INSERT INTO products (id, name, category, price_ttc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, nullIfEmpty(product.Category), product.PriceTTC,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID charge un produit (nil si absent).
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, name, COALESCE(category, ''), price_ttc, created_at, updated_at
		FROM products WHERE id = $1`
	p := &entity.Product{}
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.PriceTTC, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

// List renvoie le catalogue paginé par catégorie puis nom.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, name, COALESCE(category, ''), price_ttc, created_at, updated_at
		FROM products ORDER BY category, name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p := &entity.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PriceTTC, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
