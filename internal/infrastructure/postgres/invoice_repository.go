package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implémentation de InvoiceRepository (utilisable avec pool ou tx).
// Seuls les champs saisis sont stockés: les totaux restent dérivés au runtime.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construit l'adaptateur. Passer un pool ou une tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste l'en-tête de la facture.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, number, date, client_id, advisor, event_location,
			tax_rate_percent, payment_method, deposit_amount, pending_cheque_count,
			alma_installment_count, signature_present, signature_image, terms_accepted,
			delivery_notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, invoice.Date, invoice.ClientID,
		nullIfEmpty(invoice.Advisor), nullIfEmpty(invoice.EventLocation),
		invoice.TaxRatePercent, invoice.PaymentMethod, invoice.DepositAmount,
		invoice.PendingChequeCount, invoice.AlmaInstallmentCount,
		invoice.SignaturePresent, nullIfEmpty(invoice.SignatureImage), invoice.TermsAccepted,
		nullIfEmpty(invoice.DeliveryNotes), invoice.Status,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("numéro de facture déjà utilisé: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste une ligne de facture.
func (r *InvoiceRepo) CreateItem(item *entity.LineItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, position, product_id, designation,
			category, quantity, unit_price_ttc, discount, discount_kind, pickup_on_site)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.Position, nullIfEmpty(item.ProductID),
		item.Designation, nullIfEmpty(item.Category), item.Quantity, item.UnitPriceTTC,
		item.Discount, item.DiscountKind, item.PickupOnSite,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// Update met à jour les champs mutables de l'en-tête.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET payment_method         = $2,
		    deposit_amount         = $3,
		    pending_cheque_count   = $4,
		    alma_installment_count = $5,
		    signature_present      = $6,
		    signature_image        = COALESCE($7, signature_image),
		    terms_accepted         = $8,
		    status                 = $9,
		    updated_at             = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.PaymentMethod, invoice.DepositAmount,
		invoice.PendingChequeCount, invoice.AlmaInstallmentCount,
		invoice.SignaturePresent, nullIfEmpty(invoice.SignatureImage),
		invoice.TermsAccepted, invoice.Status, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// MarkSent enregistre le résultat du dernier envoi N8N.
func (r *InvoiceRepo) MarkSent(id, status string, sentAt time.Time) error {
	query := `
		UPDATE invoices
		SET status     = $2,
		    sent_at    = CASE WHEN $2 = $3 THEN $4 ELSE sent_at END,
		    updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, entity.StatusEnvoyee, sentAt)
	if err != nil {
		return fmt.Errorf("mark invoice sent: %w", err)
	}
	return nil
}

const invoiceColumns = `id, number, date, client_id,
	COALESCE(advisor, ''), COALESCE(event_location, ''),
	tax_rate_percent, payment_method, deposit_amount, pending_cheque_count,
	alma_installment_count, signature_present, COALESCE(signature_image, ''),
	terms_accepted, COALESCE(delivery_notes, ''), status, sent_at, created_at, updated_at`

// GetByID charge l'en-tête d'une facture (nil si absente).
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select invoice: %w", err)
	}
	return inv, nil
}

// List renvoie les en-têtes paginés, plus récents en premier.
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		ORDER BY date DESC, number DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// GetItemsByInvoiceID charge les lignes d'une facture, dans l'ordre de saisie.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.LineItem, error) {
	query := `
		SELECT id, invoice_id, position, COALESCE(product_id, ''), designation,
			COALESCE(category, ''), quantity, unit_price_ttc, discount, discount_kind,
			pickup_on_site
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var out []*entity.LineItem
	for rows.Next() {
		item := &entity.LineItem{}
		if err := rows.Scan(
			&item.ID, &item.InvoiceID, &item.Position, &item.ProductID, &item.Designation,
			&item.Category, &item.Quantity, &item.UnitPriceTTC, &item.Discount,
			&item.DiscountKind, &item.PickupOnSite,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	inv := &entity.Invoice{}
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Date, &inv.ClientID, &inv.Advisor, &inv.EventLocation,
		&inv.TaxRatePercent, &inv.PaymentMethod, &inv.DepositAmount, &inv.PendingChequeCount,
		&inv.AlmaInstallmentCount, &inv.SignaturePresent, &inv.SignatureImage,
		&inv.TermsAccepted, &inv.DeliveryNotes, &inv.Status, &inv.SentAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}
