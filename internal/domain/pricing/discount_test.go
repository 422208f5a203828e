package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/pricing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Moteur de remises: ces tests sont les "canaris" du cœur de calcul. Les
// montants sont ceux que le conseiller annonce au client; toute dérive du
// résultat exact doit faire échouer la build.
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Vecteur de référence: qty=2, prix=450, remise 10 % → 2×450×0,9 = 810.
func TestLineTotal_VecteurPourcentage(t *testing.T) {
	total := pricing.LineTotal(2, d("450"), d("10"), entity.DiscountPercent)
	assert.True(t, total.Equal(d("810")),
		"2 × 450 avec 10 %% de remise doit donner exactement 810, obtenu %s", total)
}

// La remise fixe est par unité: qty=3, prix=100, remise 15 → 3×(100−15) = 255.
func TestLineTotal_MontantFixeParUnite(t *testing.T) {
	total := pricing.LineTotal(3, d("100"), d("15"), entity.DiscountFixed)
	assert.True(t, total.Equal(d("255")), "remise fixe par unité: attendu 255, obtenu %s", total)
}

func TestLineTotal_SansRemise(t *testing.T) {
	total := pricing.LineTotal(1, d("299.99"), decimal.Zero, entity.DiscountFixed)
	assert.Equal(t, "299.99", total.StringFixed(2))
}

// Une remise ne rend jamais une ligne négative (borne à 0).
func TestLineTotal_JamaisNegatif(t *testing.T) {
	cases := []struct {
		name     string
		qty      int
		price    decimal.Decimal
		discount decimal.Decimal
		kind     string
	}{
		{"remise fixe superieure au prix", 2, d("50"), d("80"), entity.DiscountFixed},
		{"remise 150 pourcent", 1, d("450"), d("150"), entity.DiscountPercent},
		{"remise 100 pourcent", 4, d("120"), d("100"), entity.DiscountPercent},
		{"prix nul", 3, decimal.Zero, d("10"), entity.DiscountFixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total := pricing.LineTotal(tc.qty, tc.price, tc.discount, tc.kind)
			assert.False(t, total.IsNegative(), "le total de ligne doit rester ≥ 0, obtenu %s", total)
		})
	}
}

// Type de remise inconnu: fail-soft, traité comme remise fixe de 0.
// Le comportement historique ne rejette pas l'entrée malformée.
func TestLineTotal_TypeInconnuFailSoft(t *testing.T) {
	total := pricing.LineTotal(2, d("450"), d("10"), "pourcent???")
	assert.True(t, total.Equal(d("900")),
		"type de remise inconnu: la remise est ignorée, attendu 900, obtenu %s", total)
}

// Une remise négative est assainie à 0 plutôt que de gonfler le total.
func TestLineTotal_RemiseNegativeIgnoree(t *testing.T) {
	total := pricing.LineTotal(1, d("100"), d("-20"), entity.DiscountFixed)
	assert.True(t, total.Equal(d("100")), "remise négative assainie: attendu 100, obtenu %s", total)
}

func TestIsFairContext(t *testing.T) {
	cases := []struct {
		location string
		want     bool
	}{
		{"Foire de Paris", true},
		{"SALON DE L'HABITAT — Lyon", true},
		{"Exposition Habitat & Jardin", true},
		{"Stand 42, Parc Expo", true},
		{"Magasin de Perpignan", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, pricing.IsFairContext(tc.location),
			"détection foire/salon pour %q", tc.location)
	}
}

// En contexte foire, un matelas bénéficie de 20 % automatiques sur le prix
// unitaire AVANT la remise de la ligne.
func TestEffectiveUnitPrice_RemiseFoireMatelas(t *testing.T) {
	item := &entity.LineItem{
		Designation:  "Matelas Bambou 140x190",
		Category:     "Matelas",
		UnitPriceTTC: d("899"),
	}
	price := pricing.EffectiveUnitPrice(item, true)
	assert.Equal(t, "719.20", price.StringFixed(2), "899 − 20 %% = 719.20")

	// Hors contexte foire, prix inchangé.
	assert.True(t, pricing.EffectiveUnitPrice(item, false).Equal(d("899")))
}

// Un produit non-matelas n'est pas concerné par la remise foire.
func TestEffectiveUnitPrice_NonMatelasInchange(t *testing.T) {
	item := &entity.LineItem{
		Designation:  "Oreiller ergonomique",
		Category:     "Oreiller",
		UnitPriceTTC: d("70"),
	}
	assert.True(t, pricing.EffectiveUnitPrice(item, true).Equal(d("70")),
		"la remise foire ne s'applique qu'aux matelas")
}

// La détection matelas passe aussi par la désignation quand la catégorie est vide.
func TestEffectiveUnitPrice_MatelasParDesignation(t *testing.T) {
	item := &entity.LineItem{
		Designation:  "MATELAS mémoire de forme 160x200",
		UnitPriceTTC: d("1000"),
	}
	assert.Equal(t, "800.00", pricing.EffectiveUnitPrice(item, true).StringFixed(2))
}

// Remise foire puis remise de ligne: 1000 → 800, puis −10 % → 720.
func TestLineTotalInContext_CumulFoirePuisLigne(t *testing.T) {
	item := &entity.LineItem{
		Designation:  "Matelas latex naturel",
		Category:     "Matelas",
		Quantity:     1,
		UnitPriceTTC: d("1000"),
		Discount:     d("10"),
		DiscountKind: entity.DiscountPercent,
	}
	total := pricing.LineTotalInContext(item, "Foire de Marseille")
	assert.Equal(t, "720.00", total.StringFixed(2),
		"remise foire (−20 %%) puis remise ligne (−10 %%)")
}
