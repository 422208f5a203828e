package invoicing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func invoiceFixture() *entity.Invoice {
	return &entity.Invoice{
		Number: "2026-001",
		Items: []*entity.LineItem{
			{Designation: "Matelas Ruby 140x190", Category: "Matelas",
				Quantity: 1, UnitPriceTTC: d("1737")},
		},
		TaxRatePercent: d("20"),
	}
}

// Chèques à venir: le plan utilise la variante à acompte plancher de 15 %.
func TestBuildSnapshot_ChequesAVenir(t *testing.T) {
	inv := invoiceFixture()
	inv.PaymentMethod = "chèques à venir"
	inv.PendingChequeCount = 9

	snap := invoicing.BuildSnapshot(inv, nil)

	require.NotNil(t, snap.Plan)
	// TTC 1737: plancher 15 % = 260.55 → 261; (1737-261)/9 = 164 pile.
	assert.True(t, snap.Plan.AdjustedDeposit.Equal(d("261")), "acompte: %s", snap.Plan.AdjustedDeposit)
	assert.True(t, snap.Plan.PerInstallment.Equal(d("164")), "échéance: %s", snap.Plan.PerInstallment)
	assert.Equal(t, 9, snap.Plan.Count)

	// Réconciliation: acompte + échéances = TTC
	sum := snap.Plan.AdjustedDeposit.Add(
		snap.Plan.PerInstallment.Mul(decimal.NewFromInt(int64(snap.Plan.Count))))
	assert.True(t, sum.Equal(snap.Totals.TotalTTC))
}

// Alma: plan simple sans plancher d'acompte.
func TestBuildSnapshot_Alma(t *testing.T) {
	inv := invoiceFixture()
	inv.PaymentMethod = "alma"
	inv.AlmaInstallmentCount = 3

	snap := invoicing.BuildSnapshot(inv, nil)

	require.NotNil(t, snap.Plan)
	// (1737-0)/3 = 579 pile, pas de plancher appliqué.
	assert.True(t, snap.Plan.PerInstallment.Equal(d("579")))
	assert.True(t, snap.Plan.AdjustedDeposit.IsZero())
}

// Acompte et solde affichés viennent du plan dès qu'un échéancier existe,
// chèques comme Alma: acompte + solde = TTC sur tous les supports.
func TestSnapshot_AcompteEtSoldeAffiches(t *testing.T) {
	cases := []struct {
		name           string
		setup          func(inv *entity.Invoice)
		deposit, solde string
	}{
		{"cheques", func(inv *entity.Invoice) {
			inv.PaymentMethod = "chèques à venir"
			inv.PendingChequeCount = 9
		}, "261", "1476"},
		{"alma avec reste", func(inv *entity.Invoice) {
			inv.PaymentMethod = "alma"
			inv.AlmaInstallmentCount = 7
			// 1737/7 = 248.14 → 248; 7×248 = 1736, reste 1 en acompte.
		}, "1", "1736"},
		{"sans plan", func(inv *entity.Invoice) {
			inv.PaymentMethod = "virement"
			inv.DepositAmount = d("347.40")
		}, "347.40", "1389.60"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := invoiceFixture()
			tc.setup(inv)
			snap := invoicing.BuildSnapshot(inv, nil)

			assert.True(t, snap.Deposit().Equal(d(tc.deposit)), "acompte: %s", snap.Deposit())
			assert.True(t, snap.Balance().Equal(d(tc.solde)), "solde: %s", snap.Balance())
			assert.True(t, snap.Deposit().Add(snap.Balance()).Equal(snap.Totals.TotalTTC))
		})
	}
}

// Sans échéances: pas de plan.
func TestBuildSnapshot_PaiementComptant(t *testing.T) {
	inv := invoiceFixture()
	inv.PaymentMethod = "carte bleue"

	snap := invoicing.BuildSnapshot(inv, nil)

	assert.Nil(t, snap.Plan)
	assert.True(t, snap.Totals.RemainingBalance.IsZero())
	assert.Equal(t, "MONTANT PAYÉ", snap.Totals.Label)
}

// Le même instantané sert à toutes les présentations: deux constructions
// successives depuis le même état donnent des montants identiques.
func TestBuildSnapshot_Deterministe(t *testing.T) {
	inv := invoiceFixture()
	inv.EventLocation = "Foire de Dijon"
	inv.PendingChequeCount = 4
	inv.DepositAmount = d("100")

	a := invoicing.BuildSnapshot(inv, nil)
	b := invoicing.BuildSnapshot(inv, nil)

	assert.True(t, a.Totals.TotalTTC.Equal(b.Totals.TotalTTC))
	assert.True(t, a.Plan.AdjustedDeposit.Equal(b.Plan.AdjustedDeposit))
	assert.True(t, a.Plan.PerInstallment.Equal(b.Plan.PerInstallment))
}
