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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implémentation de ClientRepository (utilisable avec pool ou tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construit l'adaptateur.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, email, COALESCE(phone, ''), COALESCE(address, ''),
	COALESCE(postal_code, ''), COALESCE(city, ''), COALESCE(housing_type, ''),
	COALESCE(door_code, ''), COALESCE(siret, ''), created_at, updated_at`

// Create persiste un client.
func (r *ClientRepo) Create(client *entity.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	query := `
		INSERT INTO clients (id, name, email, phone, address, postal_code, city,
			housing_type, door_code, siret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Email, nullIfEmpty(client.Phone),
		nullIfEmpty(client.Address), nullIfEmpty(client.PostalCode), nullIfEmpty(client.City),
		nullIfEmpty(client.HousingType), nullIfEmpty(client.DoorCode), nullIfEmpty(client.SIRET),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email client déjà enregistré: %w", err)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update met à jour un client.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, address = $5, postal_code = $6,
		    city = $7, housing_type = $8, door_code = $9, siret = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Email, nullIfEmpty(client.Phone),
		nullIfEmpty(client.Address), nullIfEmpty(client.PostalCode), nullIfEmpty(client.City),
		nullIfEmpty(client.HousingType), nullIfEmpty(client.DoorCode), nullIfEmpty(client.SIRET),
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// GetByID charge un client (nil si absent).
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// FindByEmail charge un client par email (nil si absent).
func (r *ClientRepo) FindByEmail(email string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, email))
}

// List renvoie les clients paginés par nom.
func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		c := &entity.Client{}
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.PostalCode, &c.City,
			&c.HousingType, &c.DoorCode, &c.SIRET, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ClientRepo) scanOne(row pgx.Row) (*entity.Client, error) {
	c := &entity.Client{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.PostalCode, &c.City,
		&c.HousingType, &c.DoorCode, &c.SIRET, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select client: %w", err)
	}
	return c, nil
}
