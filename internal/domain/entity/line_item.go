package entity

import "github.com/shopspring/decimal"

// Types de remise applicables à une ligne.
const (
	DiscountPercent = "pourcentage" // remise en % du prix unitaire
	DiscountFixed   = "montant"     // remise fixe en euros, par unité
)

// LineItem représente une ligne de facture (produit, quantité, prix TTC, remise).
type LineItem struct {
	ID           string
	InvoiceID    string
	Position     int    // ordre de saisie, conservé à la relecture
	ProductID    string // référence catalogue, vide pour une ligne libre
	Designation  string
	Category     string // Matelas, Sur-matelas, Couette, Oreiller...
	Quantity     int
	UnitPriceTTC decimal.Decimal
	Discount     decimal.Decimal // valeur de la remise; interprétée selon DiscountKind
	DiscountKind string
	PickupOnSite bool // true = emporté par le client, false = à livrer
}
