package invoicing

import (
	"context"
	"fmt"

	"github.com/myconfort/facturation-api/internal/domain"
	"github.com/myconfort/facturation-api/internal/domain/repository"
)

// ExportUseCase produit les représentations documentaires d'une facture
// (PDF d'impression, export XML de pré-comptabilité). Les deux sorties
// consomment le même instantané: un montant affiché sur le PDF est, par
// construction, identique à celui de l'XML et du webhook.
type ExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	pdf         PDFGenerator
	xml         XMLExporter
}

// NewExportUseCase construit le cas d'usage en injectant les générateurs.
func NewExportUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	pdf PDFGenerator,
	xml XMLExporter,
) *ExportUseCase {
	return &ExportUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		pdf:         pdf,
		xml:         xml,
	}
}

// InvoicePDF génère le PDF d'une facture.
// Retourne (bytes, nom de fichier, erreur).
func (uc *ExportUseCase) InvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	snap, err := uc.snapshot(invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdf.GenerateInvoicePDF(ctx, snap)
	if err != nil {
		return nil, "", fmt.Errorf("générer le PDF: %w", err)
	}
	filename := fmt.Sprintf("facture_%s.pdf", snap.Invoice.Number)
	return pdfBytes, filename, nil
}

// InvoiceXML génère l'export XML d'une facture.
func (uc *ExportUseCase) InvoiceXML(ctx context.Context, invoiceID string) ([]byte, string, error) {
	snap, err := uc.snapshot(invoiceID)
	if err != nil {
		return nil, "", err
	}
	xmlBytes, err := uc.xml.BuildInvoiceXML(snap)
	if err != nil {
		return nil, "", fmt.Errorf("générer l'export XML: %w", err)
	}
	filename := fmt.Sprintf("facture_%s.xml", snap.Invoice.Number)
	return xmlBytes, filename, nil
}

func (uc *ExportUseCase) snapshot(invoiceID string) (*Snapshot, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
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
	return BuildSnapshot(inv, client), nil
}
