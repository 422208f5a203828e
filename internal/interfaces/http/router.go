package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/myconfort/facturation-api/internal/application/auth"
	"github.com/myconfort/facturation-api/internal/application/catalogue"
	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/internal/domain/entity"
)

// RouterDeps dépendances du router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ClientUC    *invoicing.ClientUseCase
	InvoiceUC   *invoicing.InvoiceUseCase
	ExportUC    *invoicing.ExportUseCase
	SendUC      *invoicing.SendUseCase
	CatalogueUC *catalogue.CatalogueUseCase
	Proxy       *WebhookProxyHandler
	JWTSecret   string
}

// Router enregistre les routes de l'API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Routes protégées (Bearer Token requis)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Clients
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)

	// Catalogue produits (création réservée aux admins)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogueUC)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Get("/", productHandler.List)

	// Factures
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.ExportUC, deps.SendUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id/payment", invoiceHandler.UpdatePayment)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/xml", invoiceHandler.XML)
	invoices.Post("/:id/send", invoiceHandler.Send)

	// Relais webhook N8N (public: N8N appelle sans JWT; le secret partagé
	// est ajouté côté serveur)
	if deps.Proxy != nil {
		app.All("/webhook/*", deps.Proxy.Proxy)
	}
}
