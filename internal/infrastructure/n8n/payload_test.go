package n8n

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/internal/domain/entity"
)

func testSnapshot(t *testing.T) *invoicing.Snapshot {
	t.Helper()
	inv := &entity.Invoice{
		Number:        "2026-042",
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Advisor:       "Sylvie",
		EventLocation: "Showroom Perpignan",
		Items: []*entity.LineItem{
			{
				Designation:  "Matelas Émeraude 160x200",
				Category:     "Matelas",
				Quantity:     1,
				UnitPriceTTC: decimal.RequireFromString("1500"),
			},
			{
				Designation:  "Oreiller ergonomique",
				Category:     "Oreiller",
				Quantity:     2,
				UnitPriceTTC: decimal.RequireFromString("60"),
				Discount:     decimal.RequireFromString("10"),
				DiscountKind: entity.DiscountPercent,
				PickupOnSite: true,
			},
		},
		TaxRatePercent: decimal.RequireFromString("20"),
		PaymentMethod:  "chèque",
	}
	client := &entity.Client{
		Name:       "Mme Durand",
		Email:      "durand@example.fr",
		Phone:      "0612345678",
		Address:    "12 rue des Lilas",
		PostalCode: "66000",
		City:       "Perpignan",
	}
	return invoicing.BuildSnapshot(inv, client)
}

func TestBuildPayload_MontantsADeuxDecimales(t *testing.T) {
	snap := testSnapshot(t)
	p := BuildPayload(snap, nil)

	// 1500 + 2×60×0.90 = 1608 TTC
	assert.Equal(t, "1608.00", p.MontantTTC)
	assert.Equal(t, "1340.00", p.MontantHT)
	assert.Equal(t, "268.00", p.MontantTVA)
	assert.Equal(t, "12.00", p.RemiseTotale)
	assert.Equal(t, "0.00", p.Acompte)
	assert.Equal(t, "1608.00", p.MontantRestant)
	assert.Equal(t, "TOTAL À RECEVOIR", p.LibelleSolde)
}

func TestBuildPayload_ProduitsEstUnVraiTableauJSON(t *testing.T) {
	snap := testSnapshot(t)
	raw, err := json.Marshal(BuildPayload(snap, nil))
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Le champ produits doit être un tableau JSON natif, pas une chaîne
	// contenant du JSON sérialisé (défaut historique du consommateur N8N).
	var produits []map[string]any
	require.NoError(t, json.Unmarshal(decoded["produits"], &produits))
	require.Len(t, produits, 2)
	assert.Equal(t, "Matelas Émeraude 160x200", produits[0]["nom"])
	assert.Equal(t, "a_livrer", produits[0]["statut_livraison"])
	assert.Equal(t, "emporte", produits[1]["statut_livraison"])
	// prix_unitaire est le prix avant remise de ligne: la remise voyage
	// séparément dans remise + type_remise.
	assert.Equal(t, "60.00", produits[1]["prix_unitaire"])
	assert.Equal(t, "10.00", produits[1]["remise"])
	assert.Equal(t, "pourcentage", produits[1]["type_remise"])
}

func TestBuildPayload_PDFEncodeBase64(t *testing.T) {
	snap := testSnapshot(t)
	pdf := []byte("%PDF-1.7 contenu factice")

	p := BuildPayload(snap, pdf)

	decoded, err := base64.StdEncoding.DecodeString(p.FichierFacture)
	require.NoError(t, err)
	assert.Equal(t, pdf, decoded)
}

func TestBuildPayload_ChequesAVenir(t *testing.T) {
	snap := testSnapshot(t)
	snap.Invoice.PaymentMethod = "chèques à venir"
	snap.Invoice.PendingChequeCount = 9
	snap.Invoice.DepositAmount = decimal.RequireFromString("150")
	snap = invoicing.BuildSnapshot(snap.Invoice, snap.Client)

	p := BuildPayload(snap, nil)

	// 1608 TTC, plancher 15 % = 241.20 -> acompte arrondi 242, 9 chèques.
	assert.Equal(t, 9, p.NombreCheques)
	assert.Equal(t, "9 chèques à venir de 151.00 €", p.ModePaiement)
	assert.Equal(t, "249.00", p.Acompte)
	assert.Equal(t, "151.00", p.MontantParCheque)
	// Le solde affiché est TTC − acompte ajusté (9 × 151), pas TTC − 150:
	// acompte + restant doit retomber sur le TTC du document.
	assert.Equal(t, "1359.00", p.MontantRestant)
}

func TestBuildPayload_AlmaAcompteAjuste(t *testing.T) {
	snap := testSnapshot(t)
	snap.Invoice.PaymentMethod = "carte bleue"
	snap.Invoice.AlmaInstallmentCount = 5
	snap = invoicing.BuildSnapshot(snap.Invoice, snap.Client)

	p := BuildPayload(snap, nil)

	// 1608 / 5 = 321.6 -> mensualités rondes de 321, reste 3 en acompte.
	// Même acompte que le PDF et le XML: celui du plan, pas celui saisi.
	assert.Equal(t, "Alma 5x de 321.00 €", p.ModePaiement)
	assert.Equal(t, "3.00", p.Acompte)
	assert.Equal(t, "1605.00", p.MontantRestant)
	assert.Equal(t, 0, p.NombreCheques)
	assert.Equal(t, "0.00", p.MontantParCheque)
}

func TestBuildPayload_RemiseFoire(t *testing.T) {
	snap := testSnapshot(t)
	snap.Invoice.EventLocation = "Foire de Perpignan"
	snap = invoicing.BuildSnapshot(snap.Invoice, snap.Client)

	p := BuildPayload(snap, nil)

	// Matelas en contexte foire: 1500 × 0.80 = 1200.00
	assert.Equal(t, "1200.00", p.Produits[0].PrixUnitaire)
}

func TestBuildPayload_AdresseComposee(t *testing.T) {
	snap := testSnapshot(t)
	p := BuildPayload(snap, nil)
	assert.Equal(t, "12 rue des Lilas, 66000 Perpignan", p.ClientAdresse)
}
