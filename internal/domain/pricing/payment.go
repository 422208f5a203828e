package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/myconfort/facturation-api/internal/domain/entity"
)

// Modes de paiement reconnus (valeurs normalisées en minuscules).
const (
	PaymentEspeces       = "espèces"
	PaymentCarteBleue    = "carte bleue"
	PaymentCarteBancaire = "carte bancaire"
	PaymentVirement      = "virement"
	PaymentCheque        = "chèque"
	PaymentChequesAVenir = "chèques à venir"
	PaymentAlma          = "alma"
)

// Acompte obligatoire imposé lors du passage en virement: 20 % du TTC.
var bankTransferDepositRate = decimal.NewFromFloat(0.20)

// normalizeMethod: comparaison insensible à la casse et aux espaces.
func normalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

// IsBankTransfer reconnaît le virement bancaire ("virement", "virement bancaire"...).
func IsBankTransfer(method string) bool {
	return strings.Contains(normalizeMethod(method), "virement")
}

// IsImmediate indique si le mode de paiement est un règlement immédiat.
// L'ensemble est fermé: espèces, carte bleue, carte bancaire — et le virement
// uniquement quand aucun chèque à venir ne reste.
func IsImmediate(method string, pendingChequeCount int) bool {
	switch normalizeMethod(method) {
	case PaymentEspeces, PaymentCarteBleue, PaymentCarteBancaire:
		return true
	}
	if IsBankTransfer(method) {
		return pendingChequeCount == 0
	}
	return false
}

// ApplyPaymentMethod est le réducteur (état, événement) -> état du changement
// de mode de paiement.
//
// Quand le nouveau mode est un virement, deux effets s'appliquent
// inconditionnellement: le nombre de chèques à venir repasse à zéro et
// l'acompte est écrasé par 20 % du TTC (arrondi à 2 décimales). Re-sélectionner
// le virement recalcule la même valeur: pas de cumul. Quitter le virement ne
// restaure PAS l'acompte précédent — comportement voulu, ne pas "corriger".
func ApplyPaymentMethod(inv entity.Invoice, method string) entity.Invoice {
	inv.PaymentMethod = method
	if !IsBankTransfer(method) {
		return inv
	}

	inv.PendingChequeCount = 0
	totals := ComputeTotals(TotalsInput{
		Items:              inv.Items,
		TaxRatePercent:     inv.TaxRatePercent,
		DepositAmount:      decimal.Zero, // l'acompte courant n'influence pas le TTC
		PaymentMethod:      method,
		PendingChequeCount: 0,
		EventLocation:      inv.EventLocation,
	})
	inv.DepositAmount = totals.TotalTTC.Mul(bankTransferDepositRate).Round(2)
	return inv
}
