package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myconfort/facturation-api/internal/domain/pricing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Plan de chèques à venir. L'invariant de réconciliation est absolu:
//
//	AdjustedDeposit + PerInstallment × Count == TotalTTC
//
// Le client rédige ses chèques à partir de PerInstallment: montants entiers,
// reliquat toujours absorbé dans l'acompte.
// ──────────────────────────────────────────────────────────────────────────────

// assertReconciled vérifie l'invariant de réconciliation exacte.
func assertReconciled(t *testing.T, plan *pricing.InstallmentPlan, totalTTC decimal.Decimal) {
	t.Helper()
	sum := plan.AdjustedDeposit.Add(plan.PerInstallment.Mul(decimal.NewFromInt(int64(plan.Count))))
	assert.True(t, sum.Equal(totalTTC),
		"acompte ajusté (%s) + %s × %d = %s doit égaler exactement le TTC %s",
		plan.AdjustedDeposit, plan.PerInstallment, plan.Count, sum, totalTTC)
}

// Vecteur de référence: TTC 1737, 9 chèques.
// floor(1737/9) = 193, reliquat 0, acompte 0.
func TestPlanInstallments_Vecteur1737Sur9(t *testing.T) {
	plan := pricing.PlanInstallments(d("1737"), decimal.Zero, 9)
	require.NotNil(t, plan)

	assert.True(t, plan.PerInstallment.Equal(d("193")), "échéance attendue 193, obtenu %s", plan.PerInstallment)
	assert.True(t, plan.AdjustedDeposit.IsZero())
	assertReconciled(t, plan, d("1737"))
}

// Même vecteur avec l'acompte plancher 15 %: ceil(1737 × 0,15) = 261,
// replanification: floor((1737−261)/9) = 164, reliquat 0.
func TestPlanWithMinimumDeposit_Vecteur1737Sur9(t *testing.T) {
	plan := pricing.PlanWithMinimumDeposit(d("1737"), decimal.Zero, 9)
	require.NotNil(t, plan)

	assert.True(t, plan.AdjustedDeposit.Equal(d("261")), "acompte relevé au plancher 261, obtenu %s", plan.AdjustedDeposit)
	assert.True(t, plan.PerInstallment.Equal(d("164")), "échéance replanifiée 164, obtenu %s", plan.PerInstallment)
	assertReconciled(t, plan, d("1737"))
}

// Le reliquat d'arrondi va dans l'acompte, jamais dans les chèques.
func TestPlanInstallments_ReliquatDansAcompte(t *testing.T) {
	// 1000 sur 3: floor(1000/3) = 333, reliquat 1.
	plan := pricing.PlanInstallments(d("1000"), decimal.Zero, 3)
	require.NotNil(t, plan)

	assert.True(t, plan.PerInstallment.Equal(d("333")))
	assert.True(t, plan.AdjustedDeposit.Equal(d("1")), "reliquat de 1 absorbé dans l'acompte")
	assertReconciled(t, plan, d("1000"))
}

// Avec un acompte initial, le reliquat s'ajoute à cet acompte.
func TestPlanInstallments_AcompteInitialConserve(t *testing.T) {
	// TTC 1250, acompte 200 → reste 1050, 4 chèques de 262, reliquat 2.
	plan := pricing.PlanInstallments(d("1250"), d("200"), 4)
	require.NotNil(t, plan)

	assert.True(t, plan.PerInstallment.Equal(d("262")))
	assert.True(t, plan.AdjustedDeposit.Equal(d("202")))
	assertReconciled(t, plan, d("1250"))
}

// Les centimes du TTC finissent aussi dans l'acompte (chèques entiers).
func TestPlanInstallments_CentimesAbsorbes(t *testing.T) {
	plan := pricing.PlanInstallments(d("999.90"), decimal.Zero, 4)
	require.NotNil(t, plan)

	assert.True(t, plan.PerInstallment.Equal(d("249")), "chèques entiers uniquement")
	assert.Equal(t, "3.90", plan.AdjustedDeposit.StringFixed(2))
	assertReconciled(t, plan, d("999.90"))
}

// Cas dégradés: pas de plan plutôt qu'une erreur.
func TestPlanInstallments_CasDegrades(t *testing.T) {
	assert.Nil(t, pricing.PlanInstallments(d("1000"), decimal.Zero, 0), "count = 0")
	assert.Nil(t, pricing.PlanInstallments(d("1000"), decimal.Zero, -2), "count négatif")
	assert.Nil(t, pricing.PlanInstallments(decimal.Zero, decimal.Zero, 5), "TTC nul")
	assert.Nil(t, pricing.PlanInstallments(d("-50"), decimal.Zero, 5), "TTC négatif")
	assert.Nil(t, pricing.PlanInstallments(d("500"), d("500"), 5), "acompte couvrant le TTC")
}

// Propriété: l'invariant tient sur un balayage de TTC et de nombres de chèques.
func TestPlanInstallments_ProprieteReconciliation(t *testing.T) {
	amounts := []string{"1", "97", "450", "999.90", "1737", "2458.35", "10000"}
	deposits := []string{"0", "50", "137.25"}
	for _, a := range amounts {
		for _, dep := range deposits {
			for count := 1; count <= 12; count++ {
				total := d(a)
				plan := pricing.PlanInstallments(total, d(dep), count)
				if plan == nil {
					continue // acompte ≥ TTC ou rien à planifier
				}
				assertReconciled(t, plan, total)
				assert.False(t, plan.PerInstallment.IsNegative())
			}
		}
	}
}

// Propriété de la variante plancher: acompte final ≥ 15 % du TTC.
func TestPlanWithMinimumDeposit_ProprietePlancher(t *testing.T) {
	amounts := []string{"97", "450", "1737", "2458.35", "10000"}
	for _, a := range amounts {
		for count := 1; count <= 12; count++ {
			total := d(a)
			plan := pricing.PlanWithMinimumDeposit(total, decimal.Zero, count)
			if plan == nil {
				continue
			}
			floor := total.Mul(d("0.15"))
			assert.True(t, plan.AdjustedDeposit.GreaterThanOrEqual(floor),
				"TTC %s / %d chèques: acompte %s sous le plancher de 15 %% (%s)",
				total, count, plan.AdjustedDeposit, floor)
			assertReconciled(t, plan, total)
		}
	}
}

// Un acompte déjà au-dessus du plancher n'est pas modifié par la variante.
func TestPlanWithMinimumDeposit_AcompteDejaSuffisant(t *testing.T) {
	plan := pricing.PlanWithMinimumDeposit(d("1000"), d("300"), 5)
	require.NotNil(t, plan)

	assert.True(t, plan.PerInstallment.Equal(d("140")), "floor((1000−300)/5) = 140")
	assert.True(t, plan.AdjustedDeposit.Equal(d("300")))
	assertReconciled(t, plan, d("1000"))
}
