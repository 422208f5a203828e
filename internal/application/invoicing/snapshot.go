package invoicing

import (
	"github.com/shopspring/decimal"

	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/pricing"
)

// Snapshot est l'instantané cohérent d'une facture: entité + client + totaux
// + plan d'échéances, calculés UNE fois puis transmis à toutes les
// présentations (réponse API, PDF, XML, webhook).
//
// Règle absolue: aucune couche de présentation ne recalcule un montant.
// La divergence entre aperçu, PDF et webhook était la classe de défauts
// historique de ce système.
type Snapshot struct {
	Invoice *entity.Invoice
	Client  *entity.Client
	Totals  pricing.Totals
	Plan    *pricing.InstallmentPlan // nil si paiement sans échéances
}

// BuildSnapshot recalcule totaux et plan d'échéances depuis l'état courant de
// la facture.
//
// Chèques à venir: variante "chèques ronds" avec acompte plancher de 15 %.
// Alma (paiement carte en N fois): plan simple, sans plancher — Alma fixe ses
// propres conditions d'acompte.
func BuildSnapshot(inv *entity.Invoice, client *entity.Client) *Snapshot {
	totals := pricing.ComputeTotals(pricing.TotalsInput{
		Items:              inv.Items,
		TaxRatePercent:     inv.TaxRatePercent,
		DepositAmount:      inv.DepositAmount,
		PaymentMethod:      inv.PaymentMethod,
		PendingChequeCount: inv.PendingChequeCount,
		EventLocation:      inv.EventLocation,
	})

	var plan *pricing.InstallmentPlan
	switch {
	case inv.PendingChequeCount > 0:
		plan = pricing.PlanWithMinimumDeposit(totals.TotalTTC, inv.DepositAmount, inv.PendingChequeCount)
	case inv.AlmaInstallmentCount > 0:
		plan = pricing.PlanInstallments(totals.TotalTTC, inv.DepositAmount, inv.AlmaInstallmentCount)
	}

	return &Snapshot{
		Invoice: inv,
		Client:  client,
		Totals:  totals,
		Plan:    plan,
	}
}

// Deposit acompte à présenter: celui du plan quand un échéancier existe
// (le plan peut relever l'acompte saisi), sinon l'acompte de la facture.
func (s *Snapshot) Deposit() decimal.Decimal {
	if s.Plan != nil {
		return s.Plan.AdjustedDeposit
	}
	return s.Invoice.DepositAmount
}

// Balance solde à présenter. Avec un échéancier c'est TTC − acompte ajusté,
// soit exactement mensualité × nombre: acompte + solde retombe toujours sur
// le TTC affiché, quel que soit le support.
func (s *Snapshot) Balance() decimal.Decimal {
	if s.Plan != nil {
		return s.Totals.TotalTTC.Sub(s.Plan.AdjustedDeposit)
	}
	return s.Totals.RemainingBalance
}
