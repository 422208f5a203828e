package invoicing

import (
	"context"
	"time"

	"github.com/myconfort/facturation-api/internal/domain/repository"
)

// TxRunner exécute une fonction dans une transaction couvrant la réservation
// du numéro et la persistance de l'en-tête + lignes (atomicité).
type TxRunner interface {
	RunInvoicing(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		numberingRepo repository.NumberingRepository,
	) error) error
}

// PDFGenerator définit le port de génération du PDF de facture.
// Le générateur consomme l'instantané calculé par le cas d'usage et n'effectue
// aucun recalcul de montant.
type PDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, snap *Snapshot) ([]byte, error)
}

// XMLExporter définit le port d'export XML (préparation Factur-X).
// Même règle que le PDF: aucun recalcul, l'instantané fait foi.
type XMLExporter interface {
	BuildInvoiceXML(snap *Snapshot) ([]byte, error)
}

// DispatchResult résultat de la remise au webhook N8N.
// L'échec est une valeur, pas une exception: le cœur de calcul n'est jamais
// affecté par un envoi raté.
type DispatchResult struct {
	Success    bool
	HTTPStatus int           // 0 si la requête n'est pas partie (timeout, réseau)
	Message    string        // extrait de la réponse N8N ou message d'erreur
	Duration   time.Duration
}

// WebhookDispatcher définit le port de sortie vers N8N (email + archivage).
// L'implémentation concrète est HTTP; pour les tests on injecte un mock.
type WebhookDispatcher interface {
	SendInvoice(ctx context.Context, snap *Snapshot, pdfBytes []byte) (*DispatchResult, error)
}
