package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/myconfort/facturation-api/internal/domain/entity"
)

// Libellés du solde, affichés tels quels sur l'aperçu, le PDF et le webhook.
const (
	LabelPaid = "MONTANT PAYÉ"
	LabelDue  = "TOTAL À RECEVOIR"
)

// TotalsInput paramètres du calcul des totaux d'une facture.
type TotalsInput struct {
	Items              []*entity.LineItem
	TaxRatePercent     decimal.Decimal
	DepositAmount      decimal.Decimal
	PaymentMethod      string
	PendingChequeCount int
	EventLocation      string
}

// Totals est l'instantané dérivé des totaux. Il est recalculé à chaque action
// et transmis tel quel à l'aperçu, au PDF, à l'export XML et au webhook:
// jamais recalculé indépendamment dans une couche de présentation. La classe
// de défauts historique de ce système était précisément la divergence entre
// ces présentations.
type Totals struct {
	TotalTTC         decimal.Decimal
	TotalHT          decimal.Decimal
	TotalTVA         decimal.Decimal
	TotalDiscount    decimal.Decimal // remises ligne + remise foire automatique
	RemainingBalance decimal.Decimal
	Label            string // LabelPaid ou LabelDue
}

// ComputeTotals agrège les totaux d'une facture. Fonction pure: deux appels
// avec la même entrée produisent le même résultat.
//
// TTC = Σ totaux de ligne; HT = TTC / (1 + taux/100) arrondi à 2 décimales;
// TVA = TTC − HT. Le solde est 0 avec le libellé MONTANT PAYÉ quand le mode
// de paiement est immédiat, sans acompte et sans chèque à venir; sinon
// max(0, TTC − acompte) avec le libellé TOTAL À RECEVOIR.
func ComputeTotals(in TotalsInput) Totals {
	fair := IsFairContext(in.EventLocation)

	var totalTTC, totalDiscount decimal.Decimal
	for _, item := range in.Items {
		price := EffectiveUnitPrice(item, fair)
		lineTotal := LineTotal(item.Quantity, price, item.Discount, item.DiscountKind)
		gross := decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPriceTTC)
		totalTTC = totalTTC.Add(lineTotal)
		totalDiscount = totalDiscount.Add(gross.Sub(lineTotal))
	}

	divisor := decimal.NewFromInt(1).Add(in.TaxRatePercent.Div(oneHundred))
	totalHT := totalTTC
	if !divisor.IsZero() {
		totalHT = totalTTC.Div(divisor).Round(2)
	}
	totalTVA := totalTTC.Sub(totalHT)

	deposit := in.DepositAmount
	if deposit.IsNegative() {
		deposit = decimal.Zero
	}

	t := Totals{
		TotalTTC:      totalTTC,
		TotalHT:       totalHT,
		TotalTVA:      totalTVA,
		TotalDiscount: totalDiscount,
	}

	if IsImmediate(in.PaymentMethod, in.PendingChequeCount) && deposit.IsZero() {
		t.RemainingBalance = decimal.Zero
		t.Label = LabelPaid
		return t
	}

	remaining := totalTTC.Sub(deposit)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	t.RemainingBalance = remaining
	t.Label = LabelDue
	return t
}
