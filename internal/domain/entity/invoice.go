package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'une facture dans son cycle de vie.
const (
	StatusBrouillon   = "BROUILLON"    // Saisie en cours, numéro réservé
	StatusSignee      = "SIGNEE"       // Signature client capturée, CGV acceptées
	StatusEnvoyee     = "ENVOYEE"      // Transmise au webhook N8N (email + archivage)
	StatusErreurEnvoi = "ERREUR_ENVOI" // Dernier envoi N8N en échec (réessayable manuellement)
)

// Invoice représente l'en-tête d'une facture MYCONFORT.
//
// Les totaux (HT/TVA/TTC, reste à payer) ne sont jamais stockés comme source
// de vérité: ils sont recalculés depuis Items par pricing.ComputeTotals à
// chaque lecture. C'est la règle anti-divergence entre aperçu, PDF et webhook.
type Invoice struct {
	ID                   string
	Number               string // format AAAA-NNN, réservé atomiquement
	Date                 time.Time
	ClientID             string
	Advisor              string // conseiller MYCONFORT ayant réalisé la vente
	EventLocation        string // lieu de l'événement (foire, salon...) — déclenche la remise matelas
	Items                []*LineItem
	TaxRatePercent       decimal.Decimal // TVA française, 20 par défaut
	PaymentMethod        string
	DepositAmount        decimal.Decimal // acompte versé à la signature
	PendingChequeCount   int             // nombre de chèques à venir (0 = aucun)
	AlmaInstallmentCount int             // paiement Alma en N fois (0 = aucun); exclusif avec les chèques
	SignaturePresent     bool
	SignatureImage       string // data-URL opaque du pad de signature, vide si absente
	TermsAccepted        bool
	DeliveryNotes        string
	Status               string
	SentAt               *time.Time // dernier envoi N8N réussi
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
