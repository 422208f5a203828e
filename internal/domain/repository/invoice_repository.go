package repository

import (
	"time"

	"github.com/myconfort/facturation-api/internal/domain/entity"
)

// InvoiceRepository définit le port de persistance des factures et de leurs lignes.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.LineItem) error
	// Update met à jour les champs mutables de l'en-tête: mode de paiement,
	// acompte, chèques/Alma, signature, statut, sent_at.
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.LineItem, error)
	List(limit, offset int) ([]*entity.Invoice, error)
	// MarkSent enregistre le résultat du dernier envoi N8N (statut + horodatage).
	MarkSent(id, status string, sentAt time.Time) error
}
