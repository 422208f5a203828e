package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/myconfort/facturation-api/internal/application/dto"
	"github.com/myconfort/facturation-api/internal/domain"
	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/pricing"
	"github.com/myconfort/facturation-api/internal/domain/repository"
)

var defaultTaxRate = decimal.NewFromInt(20)

// InvoiceUseCase crée et consulte les factures. La réservation du numéro et la
// persistance en-tête + lignes se font dans une seule transaction.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
}

// NewInvoiceUseCase construit le cas d'usage.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

// Create valide la saisie, réserve le numéro, recalcule tous les totaux côté
// serveur et persiste la facture.
//
// Règles de validation: client existant, au moins une ligne, quantités ≥ 1,
// prix et remises ≥ 0, et exclusivité des plans d'échéances (chèques à venir
// OU Alma, jamais les deux).
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PendingChequeCount < 0 || in.AlmaInstallmentCount < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PendingChequeCount > 0 && in.AlmaInstallmentCount > 0 {
		return nil, domain.ErrInvalidInput // plans mutuellement exclusifs
	}
	for _, item := range in.Items {
		if item.Designation == "" || item.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPriceTTC.IsNegative() || item.Discount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}

	taxRate := in.TaxRatePercent
	if taxRate.IsZero() {
		taxRate = defaultTaxRate
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:                   uuid.New().String(),
		Date:                 now,
		ClientID:             in.ClientID,
		Advisor:              in.Advisor,
		EventLocation:        in.EventLocation,
		TaxRatePercent:       taxRate,
		PaymentMethod:        in.PaymentMethod,
		DepositAmount:        in.DepositAmount,
		PendingChequeCount:   in.PendingChequeCount,
		AlmaInstallmentCount: in.AlmaInstallmentCount,
		SignaturePresent:     in.SignaturePresent,
		SignatureImage:       in.SignatureImage,
		TermsAccepted:        in.TermsAccepted,
		DeliveryNotes:        in.DeliveryNotes,
		Status:               entity.StatusBrouillon,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if inv.SignaturePresent && inv.TermsAccepted {
		inv.Status = entity.StatusSignee
	}
	for i, item := range in.Items {
		inv.Items = append(inv.Items, &entity.LineItem{
			ID:           uuid.New().String(),
			InvoiceID:    inv.ID,
			Position:     i,
			ProductID:    item.ProductID,
			Designation:  item.Designation,
			Category:     item.Category,
			Quantity:     item.Quantity,
			UnitPriceTTC: item.UnitPriceTTC,
			Discount:     item.Discount,
			DiscountKind: item.DiscountKind,
			PickupOnSite: item.PickupOnSite,
		})
	}

	// Le passage en virement applique ses effets dès la création
	// (chèques à zéro, acompte 20 %).
	if pricing.IsBankTransfer(inv.PaymentMethod) {
		applied := pricing.ApplyPaymentMethod(*inv, inv.PaymentMethod)
		inv.PendingChequeCount = applied.PendingChequeCount
		inv.DepositAmount = applied.DepositAmount
	}

	err = uc.txRunner.RunInvoicing(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		numberingRepo repository.NumberingRepository,
	) error {
		number, err := numberingRepo.ReserveNext(now.Year())
		if err != nil {
			return err
		}
		inv.Number = number

		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range inv.Items {
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(BuildSnapshot(inv, client)), nil
}

// GetByID charge une facture avec ses lignes et renvoie l'instantané recalculé.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	snap, err := uc.loadSnapshot(id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(snap), nil
}

// List renvoie les factures paginées (résumés, TTC recalculé).
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.InvoiceSummaryResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceSummaryResponse, 0, len(invoices))
	for _, inv := range invoices {
		items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Items = items
		totals := pricing.ComputeTotals(pricing.TotalsInput{
			Items:              inv.Items,
			TaxRatePercent:     inv.TaxRatePercent,
			DepositAmount:      inv.DepositAmount,
			PaymentMethod:      inv.PaymentMethod,
			PendingChequeCount: inv.PendingChequeCount,
			EventLocation:      inv.EventLocation,
		})
		out = append(out, dto.InvoiceSummaryResponse{
			ID:            inv.ID,
			Number:        inv.Number,
			Date:          inv.Date.Format("2006-01-02"),
			ClientID:      inv.ClientID,
			PaymentMethod: inv.PaymentMethod,
			Status:        inv.Status,
			TotalTTC:      totals.TotalTTC,
		})
	}
	return out, nil
}

// UpdatePayment applique le réducteur de changement de mode de paiement
// (effets virement inclus) et persiste le nouvel état.
func (uc *InvoiceUseCase) UpdatePayment(ctx context.Context, id string, in dto.UpdatePaymentRequest) (*dto.InvoiceResponse, error) {
	if in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	snap, err := uc.loadSnapshot(id)
	if err != nil {
		return nil, err
	}

	updated := pricing.ApplyPaymentMethod(*snap.Invoice, in.PaymentMethod)
	updated.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(&updated); err != nil {
		return nil, err
	}

	return toInvoiceResponse(BuildSnapshot(&updated, snap.Client)), nil
}

// loadSnapshot charge facture + lignes + client et construit l'instantané.
func (uc *InvoiceUseCase) loadSnapshot(id string) (*Snapshot, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
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

// toInvoiceResponse projette un instantané en DTO. Les totaux viennent de
// l'instantané, jamais d'un recalcul local.
func toInvoiceResponse(snap *Snapshot) *dto.InvoiceResponse {
	inv := snap.Invoice
	resp := &dto.InvoiceResponse{
		ID:                   inv.ID,
		Number:               inv.Number,
		Date:                 inv.Date.Format("2006-01-02"),
		ClientID:             inv.ClientID,
		Advisor:              inv.Advisor,
		EventLocation:        inv.EventLocation,
		TaxRatePercent:       inv.TaxRatePercent,
		PaymentMethod:        inv.PaymentMethod,
		DepositAmount:        inv.DepositAmount,
		PendingChequeCount:   inv.PendingChequeCount,
		AlmaInstallmentCount: inv.AlmaInstallmentCount,
		SignaturePresent:     inv.SignaturePresent,
		TermsAccepted:        inv.TermsAccepted,
		Status:               inv.Status,
		Items:                make([]dto.LineItemResponse, 0, len(inv.Items)),
		Totals: dto.TotalsResponse{
			TotalHT:          snap.Totals.TotalHT,
			TotalTVA:         snap.Totals.TotalTVA,
			TotalTTC:         snap.Totals.TotalTTC,
			TotalDiscount:    snap.Totals.TotalDiscount,
			RemainingBalance: snap.Balance(),
			Label:            snap.Totals.Label,
		},
	}
	if snap.Client != nil {
		resp.ClientName = snap.Client.Name
	}
	if inv.SentAt != nil {
		resp.SentAt = inv.SentAt.Format(time.RFC3339)
	}
	if snap.Plan != nil {
		resp.Installments = &dto.InstallmentPlanResponse{
			PerInstallment:  snap.Plan.PerInstallment,
			Count:           snap.Plan.Count,
			AdjustedDeposit: snap.Plan.AdjustedDeposit,
		}
	}
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, dto.LineItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Designation:  item.Designation,
			Category:     item.Category,
			Quantity:     item.Quantity,
			UnitPriceTTC: item.UnitPriceTTC,
			Discount:     item.Discount,
			DiscountKind: item.DiscountKind,
			PickupOnSite: item.PickupOnSite,
			LineTotal:    pricing.LineTotalInContext(item, inv.EventLocation),
		})
	}
	return resp
}
