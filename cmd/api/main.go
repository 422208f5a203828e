package main

import (
	"context"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/myconfort/facturation-api/internal/application/auth"
	"github.com/myconfort/facturation-api/internal/application/catalogue"
	"github.com/myconfort/facturation-api/internal/application/invoicing"
	infran8n "github.com/myconfort/facturation-api/internal/infrastructure/n8n"
	infrapdf "github.com/myconfort/facturation-api/internal/infrastructure/pdf"
	"github.com/myconfort/facturation-api/internal/infrastructure/postgres"
	infraubl "github.com/myconfort/facturation-api/internal/infrastructure/ubl"
	httpRouter "github.com/myconfort/facturation-api/internal/interfaces/http"
	"github.com/myconfort/facturation-api/pkg/config"
	"github.com/myconfort/facturation-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("charger la configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("démarrage de l'application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	pdfGenerator := infrapdf.NewMarotoInvoiceGenerator(cfg.Company)
	xmlBuilder := infraubl.NewXMLBuilder(cfg.Company)

	// Dispatcher N8N: absent de la config → l'envoi répond NOT_SENDABLE au
	// lieu d'échouer au démarrage (l'app reste utilisable hors ligne).
	var dispatcher invoicing.WebhookDispatcher
	if client := infran8n.NewClient(cfg.N8N, log); client != nil {
		dispatcher = client
	} else {
		log.Warn().Msg("N8N_WEBHOOK_URL absente: envoi de factures désactivé")
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	clientUC := invoicing.NewClientUseCase(clientRepo)
	invoiceUC := invoicing.NewInvoiceUseCase(txRunner, invoiceRepo, clientRepo)
	exportUC := invoicing.NewExportUseCase(invoiceRepo, clientRepo, pdfGenerator, xmlBuilder)
	sendUC := invoicing.NewSendUseCase(invoiceRepo, clientRepo, pdfGenerator, dispatcher, log)
	catalogueUC := catalogue.NewCatalogueUseCase(productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // la génération PDF peut prendre du temps
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MYCONFORT Facturation API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	var proxy *httpRouter.WebhookProxyHandler
	if base := n8nBaseURL(cfg.N8N.WebhookURL); base != "" {
		proxy = httpRouter.NewWebhookProxyHandler(base, cfg.N8N.SharedSecret, log)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ClientUC:    clientUC,
		InvoiceUC:   invoiceUC,
		ExportUC:    exportUC,
		SendUC:      sendUC,
		CatalogueUC: catalogueUC,
		Proxy:       proxy,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP terminé")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}

// n8nBaseURL extrait scheme://host de l'URL de webhook pour le relais /webhook/*.
func n8nBaseURL(webhookURL string) string {
	if webhookURL == "" {
		return ""
	}
	u, err := url.Parse(webhookURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
