package invoicing

import (
	"context"
	"time"

	"github.com/myconfort/facturation-api/internal/application/dto"
	"github.com/myconfort/facturation-api/internal/domain"
	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/repository"
	"github.com/myconfort/facturation-api/pkg/logger"
)

// SendUseCase transmet une facture au webhook N8N (email client + archivage).
//
// Séquence: recalcul de l'instantané → génération du PDF → construction du
// payload → POST. Pas de retry automatique: un échec est rendu tel quel à
// l'appelant (bouton tri-état côté UI) et n'altère jamais l'état de calcul.
type SendUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	pdf         PDFGenerator
	dispatcher  WebhookDispatcher
	log         *logger.Logger
}

// NewSendUseCase construit le cas d'usage.
func NewSendUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	pdf PDFGenerator,
	dispatcher WebhookDispatcher,
	log *logger.Logger,
) *SendUseCase {
	return &SendUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		pdf:         pdf,
		dispatcher:  dispatcher,
		log:         log,
	}
}

// Send envoie la facture au webhook et met à jour son statut
// (ENVOYEE ou ERREUR_ENVOI). L'envoi exige la signature et les CGV acceptées.
func (uc *SendUseCase) Send(ctx context.Context, invoiceID string) (*dto.DispatchResponse, error) {
	if uc.dispatcher == nil {
		return nil, domain.ErrNotSendable // webhook non configuré
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if !inv.SignaturePresent || !inv.TermsAccepted {
		return nil, domain.ErrNotSendable
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}

	// Un seul instantané pour le PDF ET le payload webhook.
	snap := BuildSnapshot(inv, client)

	pdfBytes, err := uc.pdf.GenerateInvoicePDF(ctx, snap)
	if err != nil {
		return nil, err
	}

	result, err := uc.dispatcher.SendInvoice(ctx, snap, pdfBytes)
	if err != nil {
		// Erreur de transport (timeout, DNS...): résultat en échec, pas de panique.
		result = &DispatchResult{Success: false, Message: err.Error()}
	}

	now := time.Now()
	status := entity.StatusErreurEnvoi
	if result.Success {
		status = entity.StatusEnvoyee
	}
	log := uc.log.ForInvoice(inv.Number)
	if err := uc.invoiceRepo.MarkSent(inv.ID, status, now); err != nil {
		log.Error().Err(err).Msg("maj statut après envoi")
	}

	log.Info().
		Bool("success", result.Success).
		Int("http_status", result.HTTPStatus).
		Dur("duration", result.Duration).
		Msg("envoi webhook N8N")

	resp := &dto.DispatchResponse{
		Status:     "error",
		HTTPStatus: result.HTTPStatus,
		Message:    result.Message,
		DurationMS: result.Duration.Milliseconds(),
	}
	if result.Success {
		resp.Status = "success"
		resp.Message = ""
	}
	return resp, nil
}
