package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/myconfort/facturation-api/internal/application/dto"
	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/internal/domain"
)

// InvoiceHandler gère les requêtes HTTP de facturation (protégé).
type InvoiceHandler struct {
	uc     *invoicing.InvoiceUseCase
	export *invoicing.ExportUseCase
	send   *invoicing.SendUseCase
}

// NewInvoiceHandler construit le handler.
func NewInvoiceHandler(uc *invoicing.InvoiceUseCase, export *invoicing.ExportUseCase, send *invoicing.SendUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, export: export, send: send}
}

// Create crée une facture: numérotation atomique, calcul des totaux,
// application de la règle virement le cas échéant.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	invoice, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List renvoie les factures paginées, les plus récentes en premier.
// GET /api/invoices?limit=&offset=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pagination invalide"})
	}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(out)
}

// GetByID renvoie une facture complète: lignes, totaux et plan d'échéances.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requis"})
	}
	invoice, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// UpdatePayment change le mode de paiement d'une facture. Le passage en
// virement annule les chèques à venir et impose l'acompte de 20 %.
// PUT /api/invoices/:id/payment
func (h *InvoiceHandler) UpdatePayment(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requis"})
	}
	var in dto.UpdatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	invoice, err := h.uc.UpdatePayment(c.Context(), id, in)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// PDF télécharge la facture au format PDF.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	raw, filename, err := h.export.InvoicePDF(c.Context(), id)
	if err != nil {
		return invoiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(raw)
}

// XML télécharge l'export UBL de la facture.
// GET /api/invoices/:id/xml
func (h *InvoiceHandler) XML(c *fiber.Ctx) error {
	id := c.Params("id")
	raw, filename, err := h.export.InvoiceXML(c.Context(), id)
	if err != nil {
		return invoiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(raw)
}

// Send pousse la facture vers le workflow N8N (email + archivage Drive).
// La réponse porte le résultat exact de la remise, succès ou échec: pas de
// retry automatique côté serveur.
// POST /api/invoices/:id/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.send.Send(c.Context(), id)
	if err != nil {
		if err == domain.ErrNotSendable {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_SENDABLE", Message: "facture non signée, CGV non acceptées, ou webhook non configuré"})
		}
		return invoiceError(c, err)
	}
	return c.JSON(out)
}

// invoiceError mappe les erreurs du domaine vers les statuts HTTP.
func invoiceError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "données invalides"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "facture ou client introuvable"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflit d'état"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
