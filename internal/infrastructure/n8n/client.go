package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/pkg/config"
	"github.com/myconfort/facturation-api/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyExtract = 512 // on ne journalise jamais une réponse entière
)

var _ invoicing.WebhookDispatcher = (*Client)(nil)

// Client dispatcher HTTP vers le webhook N8N.
type Client struct {
	webhookURL   string
	sharedSecret string
	httpClient   *http.Client
	log          *logger.Logger
}

// NewClient construit le dispatcher depuis la configuration.
// Retourne nil si aucune URL de webhook n'est configurée: l'appelant traite
// alors l'envoi comme indisponible au lieu d'échouer au démarrage.
func NewClient(cfg config.N8NConfig, log *logger.Logger) *Client {
	if cfg.WebhookURL == "" {
		return nil
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		webhookURL:   cfg.WebhookURL,
		sharedSecret: cfg.SharedSecret,
		httpClient:   &http.Client{Timeout: timeout},
		log:          log,
	}
}

// SendInvoice pousse la facture (champs + PDF base64) vers N8N.
//
// L'échec est rendu comme valeur dans DispatchResult; l'erreur retournée ne
// couvre que les cas où la requête n'a pas pu être construite. Un timeout ou
// un refus réseau produit un résultat Success=false avec HTTPStatus=0.
func (c *Client) SendInvoice(ctx context.Context, snap *invoicing.Snapshot, pdfBytes []byte) (*invoicing.DispatchResult, error) {
	payload := BuildPayload(snap, pdfBytes)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sérialiser le payload N8N: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("construire la requête N8N: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.sharedSecret != "" {
		req.Header.Set("X-Webhook-Secret", c.sharedSecret)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("numero", snap.Invoice.Number).
			Dur("duree", elapsed).
			Msg("envoi N8N: échec réseau")
		return &invoicing.DispatchResult{
			Success:  false,
			Message:  err.Error(),
			Duration: elapsed,
		}, nil
	}
	defer resp.Body.Close()

	extract := readExtract(resp.Body)
	result := &invoicing.DispatchResult{
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
		HTTPStatus: resp.StatusCode,
		Message:    extract,
		Duration:   elapsed,
	}

	evt := c.log.Info()
	if !result.Success {
		evt = c.log.Warn()
	}
	evt.
		Str("numero", snap.Invoice.Number).
		Int("statut_http", resp.StatusCode).
		Dur("duree", elapsed).
		Msg("envoi N8N terminé")

	return result, nil
}

// readExtract tronque le corps de réponse à une taille journalisable.
func readExtract(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxBodyExtract))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
