package pricing

import "github.com/shopspring/decimal"

// Plancher d'acompte de la variante "chèques ronds": 15 % du TTC.
var minimumDepositRate = decimal.NewFromFloat(0.15)

// InstallmentPlan est le plan d'échéances dérivé (chèques à venir ou Alma).
//
// Invariant de réconciliation, vérifié par les tests:
//
//	AdjustedDeposit + PerInstallment × Count == TotalTTC
//
// Le reliquat d'arrondi est toujours absorbé dans l'acompte, jamais dans une
// échéance: chaque chèque porte un montant entier en euros.
type InstallmentPlan struct {
	PerInstallment  decimal.Decimal // montant entier par échéance
	Count           int
	AdjustedDeposit decimal.Decimal
}

// PlanInstallments calcule le plan d'échéances pour un TTC, un acompte et un
// nombre d'échéances donnés.
//
// Algorithme: reste = TTC − acompte; échéance = floor(reste / n) en euros
// entiers; le reliquat (reste − échéance × n) est ajouté à l'acompte.
//
// Renvoie nil quand il n'y a rien à planifier: n ≤ 0, TTC ≤ 0, ou acompte
// couvrant déjà le total (dégradation silencieuse, pas d'erreur).
func PlanInstallments(totalTTC, deposit decimal.Decimal, count int) *InstallmentPlan {
	if count <= 0 || !totalTTC.IsPositive() {
		return nil
	}
	if deposit.IsNegative() {
		deposit = decimal.Zero
	}

	remaining := totalTTC.Sub(deposit)
	if !remaining.IsPositive() {
		return nil
	}

	per := remaining.Div(decimal.NewFromInt(int64(count))).Floor()
	produced := per.Mul(decimal.NewFromInt(int64(count)))
	remainder := remaining.Sub(produced) // ≥ 0 par construction du floor

	return &InstallmentPlan{
		PerInstallment:  per,
		Count:           count,
		AdjustedDeposit: deposit.Add(remainder),
	}
}

// PlanWithMinimumDeposit est la variante "chèques ronds" avec acompte plancher.
//
// L'acompte ajusté doit atteindre 15 % du TTC, arrondi à l'euro supérieur.
// S'il est en dessous après absorption du reliquat, il est relevé au plancher
// et le plan est recalculé depuis ce nouvel acompte.
func PlanWithMinimumDeposit(totalTTC, deposit decimal.Decimal, count int) *InstallmentPlan {
	plan := PlanInstallments(totalTTC, deposit, count)
	if plan == nil {
		return nil
	}

	floor := totalTTC.Mul(minimumDepositRate).Ceil()
	if plan.AdjustedDeposit.GreaterThanOrEqual(floor) {
		return plan
	}

	raised := PlanInstallments(totalTTC, floor, count)
	if raised == nil {
		// L'acompte plancher couvre tout le TTC: plus rien à échelonner.
		return nil
	}
	return raised
}
