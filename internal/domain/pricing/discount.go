// Package pricing implémente le cœur de calcul des factures MYCONFORT:
// remises par ligne (dont la remise automatique foire/salon sur les matelas),
// totaux HT/TVA/TTC, plan de chèques à venir et règle de paiement par virement.
//
// Toutes les fonctions sont pures et déterministes: même entrée, même sortie,
// aucun état caché. L'arithmétique est en decimal (jamais en float binaire)
// car le client rédige littéralement ses chèques à partir de ces montants.
// Les entrées numériques hors bornes ne lèvent pas d'erreur: les résultats
// sont bornés à zéro ou le plan est nil.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/myconfort/facturation-api/internal/domain/entity"
)

// Remise automatique appliquée aux matelas en contexte foire/salon.
var fairDiscountRate = decimal.NewFromFloat(0.20)

// Mots-clés du lieu d'événement qui activent le contexte foire/salon.
var fairKeywords = []string{"foire", "salon", "exposition", "stand"}

var oneHundred = decimal.NewFromInt(100)

// IsFairContext détecte le contexte foire/salon à partir du lieu d'événement
// saisi sur la facture (insensible à la casse).
func IsFairContext(eventLocation string) bool {
	loc := strings.ToLower(eventLocation)
	for _, kw := range fairKeywords {
		if strings.Contains(loc, kw) {
			return true
		}
	}
	return false
}

// eligibleForFairDiscount: la remise foire ne concerne que les matelas,
// identifiés par la catégorie ou la désignation de la ligne.
func eligibleForFairDiscount(category, designation string) bool {
	return strings.Contains(strings.ToLower(category), "matelas") ||
		strings.Contains(strings.ToLower(designation), "matelas")
}

// EffectiveUnitPrice renvoie le prix unitaire TTC après remise automatique
// foire/salon (20 % sur les matelas, arrondi à 2 décimales), avant la remise
// propre à la ligne. Hors contexte foire ou hors matelas, le prix est inchangé.
func EffectiveUnitPrice(item *entity.LineItem, fairContext bool) decimal.Decimal {
	if !fairContext || !eligibleForFairDiscount(item.Category, item.Designation) {
		return item.UnitPriceTTC
	}
	return item.UnitPriceTTC.Mul(decimal.NewFromInt(1).Sub(fairDiscountRate)).Round(2)
}

// LineTotal applique la remise d'une ligne et renvoie son total TTC.
//
//   - pourcentage: qty × prix × (1 − remise/100)
//   - montant: qty × (prix − remise) — la remise fixe est par unité
//   - type inconnu: traité comme une remise fixe de 0 (fail-soft, le
//     comportement historique ne rejette pas)
//
// Le résultat est borné à 0: une remise ne rend jamais une ligne négative.
func LineTotal(quantity int, unitPriceTTC, discount decimal.Decimal, discountKind string) decimal.Decimal {
	qty := decimal.NewFromInt(int64(quantity))
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	var total decimal.Decimal
	switch discountKind {
	case entity.DiscountPercent:
		total = qty.Mul(unitPriceTTC).Mul(decimal.NewFromInt(1).Sub(discount.Div(oneHundred)))
	case entity.DiscountFixed:
		total = qty.Mul(unitPriceTTC.Sub(discount))
	default:
		total = qty.Mul(unitPriceTTC)
	}

	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// LineTotalInContext calcule le total d'une ligne en tenant compte du lieu
// d'événement: remise foire éventuelle sur le prix unitaire, puis remise de
// la ligne.
func LineTotalInContext(item *entity.LineItem, eventLocation string) decimal.Decimal {
	price := EffectiveUnitPrice(item, IsFairContext(eventLocation))
	return LineTotal(item.Quantity, price, item.Discount, item.DiscountKind)
}
