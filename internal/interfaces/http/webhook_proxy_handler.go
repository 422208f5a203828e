package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/myconfort/facturation-api/internal/application/dto"
	"github.com/myconfort/facturation-api/pkg/logger"
)

// WebhookProxyHandler relaie les appels /webhook/* vers l'instance N8N en y
// ajoutant le secret partagé. Seul le préfixe /webhook/ est relayé: tout
// autre chemin est refusé avec 400 — le proxy n'est pas un tunnel générique.
type WebhookProxyHandler struct {
	targetBase   string // ex: https://n8n.example.fr
	sharedSecret string
	httpClient   *http.Client
	log          *logger.Logger
}

// NewWebhookProxyHandler construit le proxy. targetBase vide désactive le
// relais (503 sur toute requête).
func NewWebhookProxyHandler(targetBase, sharedSecret string, log *logger.Logger) *WebhookProxyHandler {
	return &WebhookProxyHandler{
		targetBase:   strings.TrimRight(targetBase, "/"),
		sharedSecret: sharedSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		log:          log,
	}
}

// Proxy relaie la requête courante vers N8N.
// ALL /webhook/*
func (h *WebhookProxyHandler) Proxy(c *fiber.Ctx) error {
	path := c.Path()
	if !strings.HasPrefix(path, "/webhook/") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PATH", Message: "seuls les chemins /webhook/* sont relayés"})
	}
	if h.targetBase == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PROXY_DISABLED", Message: "relais webhook non configuré"})
	}

	target := h.targetBase + path
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		target += "?" + qs
	}

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), target, bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REQUEST", Message: "requête non relayable"})
	}
	if ct := c.Get(fiber.HeaderContentType); ct != "" {
		req.Header.Set(fiber.HeaderContentType, ct)
	}
	if h.sharedSecret != "" {
		req.Header.Set("X-Webhook-Secret", h.sharedSecret)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.log.Warn().Err(err).Str("cible", target).Msg("relais webhook: échec réseau")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM_UNREACHABLE", Message: "N8N injoignable"})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM_READ", Message: "réponse N8N illisible"})
	}

	c.Status(resp.StatusCode)
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	}
	return c.Send(body)
}
