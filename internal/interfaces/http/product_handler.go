package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/myconfort/facturation-api/internal/application/catalogue"
	"github.com/myconfort/facturation-api/internal/application/dto"
	"github.com/myconfort/facturation-api/internal/domain"
)

// ProductHandler gère le catalogue produits (protégé; création réservée admin).
type ProductHandler struct {
	uc *catalogue.CatalogueUseCase
}

// NewProductHandler construit le handler.
func NewProductHandler(uc *catalogue.CatalogueUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create ajoute un produit au catalogue.
// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	product, err := h.uc.Create(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nom, catégorie et prix TTC sont requis"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// List renvoie le catalogue paginé, trié par catégorie puis nom.
// GET /api/products?limit=&offset=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pagination invalide"})
	}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
