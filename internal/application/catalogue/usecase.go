package catalogue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/myconfort/facturation-api/internal/application/dto"
	"github.com/myconfort/facturation-api/internal/domain"
	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/repository"
)

// CatalogueUseCase gère le catalogue produits (literie MYCONFORT).
type CatalogueUseCase struct {
	productRepo repository.ProductRepository
}

// NewCatalogueUseCase construit le cas d'usage.
func NewCatalogueUseCase(productRepo repository.ProductRepository) *CatalogueUseCase {
	return &CatalogueUseCase{productRepo: productRepo}
}

// Create ajoute un produit au catalogue.
func (uc *CatalogueUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.PriceTTC.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Category:  in.Category,
		PriceTTC:  in.PriceTTC,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List renvoie les produits paginés.
func (uc *CatalogueUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		PriceTTC: p.PriceTTC,
	}
}
