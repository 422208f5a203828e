package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/myconfort/facturation-api/internal/application/dto"
	"github.com/myconfort/facturation-api/internal/domain"
	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/repository"
)

// ClientUseCase gère le répertoire clients.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construit le cas d'usage.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// Create crée un client. Nom et email sont obligatoires (requis par l'envoi
// de facture par email via N8N).
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.clientRepo.FindByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	client := &entity.Client{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		PostalCode:  in.PostalCode,
		City:        in.City,
		HousingType: in.HousingType,
		DoorCode:    in.DoorCode,
		SIRET:       in.SIRET,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID charge un client.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(client), nil
}

// List renvoie les clients paginés.
func (uc *ClientUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ClientResponse, error) {
	page.DefaultPage()
	clients, err := uc.clientRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		PostalCode:  c.PostalCode,
		City:        c.City,
		HousingType: c.HousingType,
		DoorCode:    c.DoorCode,
		SIRET:       c.SIRET,
	}
}
