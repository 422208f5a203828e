package dto

import "github.com/shopspring/decimal"

// CreateClientRequest body pour POST /api/clients.
type CreateClientRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	City        string `json:"city,omitempty"`
	HousingType string `json:"housing_type,omitempty"`
	DoorCode    string `json:"door_code,omitempty"`
	SIRET       string `json:"siret,omitempty"`
}

// ClientResponse client dans les réponses.
type ClientResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	City        string `json:"city,omitempty"`
	HousingType string `json:"housing_type,omitempty"`
	DoorCode    string `json:"door_code,omitempty"`
	SIRET       string `json:"siret,omitempty"`
}

// LineItemRequest ligne de facture dans la requête de création.
type LineItemRequest struct {
	ProductID    string          `json:"product_id,omitempty"` // vide = ligne libre
	Designation  string          `json:"designation"`
	Category     string          `json:"category,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPriceTTC decimal.Decimal `json:"unit_price_ttc"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountKind string          `json:"discount_kind"` // pourcentage | montant
	PickupOnSite bool            `json:"pickup_on_site"`
}

// CreateInvoiceRequest body pour POST /api/invoices.
// Les totaux envoyés par le client sont ignorés: tout est recalculé côté
// serveur depuis les lignes.
type CreateInvoiceRequest struct {
	ClientID             string            `json:"client_id"`
	Advisor              string            `json:"advisor,omitempty"`
	EventLocation        string            `json:"event_location,omitempty"`
	TaxRatePercent       decimal.Decimal   `json:"tax_rate_percent,omitempty"` // défaut 20
	PaymentMethod        string            `json:"payment_method"`
	DepositAmount        decimal.Decimal   `json:"deposit_amount"`
	PendingChequeCount   int               `json:"pending_cheque_count"`
	AlmaInstallmentCount int               `json:"alma_installment_count"`
	SignaturePresent     bool              `json:"signature_present"`
	SignatureImage       string            `json:"signature_image,omitempty"`
	TermsAccepted        bool              `json:"terms_accepted"`
	DeliveryNotes        string            `json:"delivery_notes,omitempty"`
	Items                []LineItemRequest `json:"items"`
}

// UpdatePaymentRequest body pour PUT /api/invoices/:id/payment.
type UpdatePaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// LineItemResponse ligne dans les réponses, avec son total calculé.
type LineItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id,omitempty"`
	Designation  string          `json:"designation"`
	Category     string          `json:"category,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPriceTTC decimal.Decimal `json:"unit_price_ttc"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountKind string          `json:"discount_kind"`
	PickupOnSite bool            `json:"pickup_on_site"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// TotalsResponse instantané des totaux, calculé une seule fois côté serveur.
type TotalsResponse struct {
	TotalHT          decimal.Decimal `json:"total_ht"`
	TotalTVA         decimal.Decimal `json:"total_tva"`
	TotalTTC         decimal.Decimal `json:"total_ttc"`
	TotalDiscount    decimal.Decimal `json:"total_discount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Label            string          `json:"label"` // MONTANT PAYÉ | TOTAL À RECEVOIR
}

// InstallmentPlanResponse plan d'échéances (absent si aucun).
type InstallmentPlanResponse struct {
	PerInstallment  decimal.Decimal `json:"per_installment"`
	Count           int             `json:"count"`
	AdjustedDeposit decimal.Decimal `json:"adjusted_deposit"`
}

// InvoiceResponse facture complète pour GET /api/invoices/:id.
type InvoiceResponse struct {
	ID                   string                   `json:"id"`
	Number               string                   `json:"number"`
	Date                 string                   `json:"date"`
	ClientID             string                   `json:"client_id"`
	ClientName           string                   `json:"client_name,omitempty"`
	Advisor              string                   `json:"advisor,omitempty"`
	EventLocation        string                   `json:"event_location,omitempty"`
	TaxRatePercent       decimal.Decimal          `json:"tax_rate_percent"`
	PaymentMethod        string                   `json:"payment_method"`
	DepositAmount        decimal.Decimal          `json:"deposit_amount"`
	PendingChequeCount   int                      `json:"pending_cheque_count"`
	AlmaInstallmentCount int                      `json:"alma_installment_count"`
	SignaturePresent     bool                     `json:"signature_present"`
	TermsAccepted        bool                     `json:"terms_accepted"`
	Status               string                   `json:"status"`
	SentAt               string                   `json:"sent_at,omitempty"`
	Items                []LineItemResponse       `json:"items"`
	Totals               TotalsResponse           `json:"totals"`
	Installments         *InstallmentPlanResponse `json:"installments,omitempty"`
}

// InvoiceSummaryResponse ligne de la liste GET /api/invoices.
type InvoiceSummaryResponse struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	Date          string          `json:"date"`
	ClientID      string          `json:"client_id"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	TotalTTC      decimal.Decimal `json:"total_ttc"`
}

// DispatchResponse résultat de POST /api/invoices/:id/send (tri-état côté UI).
type DispatchResponse struct {
	Status     string `json:"status"` // success | error
	HTTPStatus int    `json:"http_status,omitempty"`
	Message    string `json:"message,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// CreateProductRequest body pour POST /api/products.
type CreateProductRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	PriceTTC decimal.Decimal `json:"price_ttc"`
}

// ProductResponse produit du catalogue dans les réponses.
type ProductResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	PriceTTC decimal.Decimal `json:"price_ttc"`
}
