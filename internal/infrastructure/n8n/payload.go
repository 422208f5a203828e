// Package n8n implémente la remise des factures au workflow N8N
// (envoi email au client + archivage Google Drive).
//
// Le contrat d'interface est strict: champs plats nommés en français,
// montants en chaînes à 2 décimales fixes, liste de produits en véritable
// tableau JSON (jamais une chaîne sérialisée), PDF en base64 standard.
package n8n

import (
	"encoding/base64"
	"fmt"

	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/pricing"
)

// Statuts de livraison côté workflow.
const (
	deliveryToShip = "a_livrer"
	deliveryTaken  = "emporte"
)

// ProductPayload une ligne de la facture, vue du workflow.
type ProductPayload struct {
	Nom             string `json:"nom"`
	Quantite        int    `json:"quantite"`
	PrixUnitaire    string `json:"prix_unitaire"`
	Categorie       string `json:"categorie"`
	Remise          string `json:"remise"`
	TypeRemise      string `json:"type_remise"`
	StatutLivraison string `json:"statut_livraison"`
}

// Payload corps JSON envoyé au webhook N8N. Tous les montants sont figés
// depuis l'instantané: le workflow n'a aucun calcul à faire.
type Payload struct {
	NumeroFacture    string `json:"numero_facture"`
	DateFacture      string `json:"date_facture"`
	ClientNom        string `json:"client_nom"`
	ClientEmail      string `json:"client_email"`
	ClientTelephone  string `json:"client_telephone"`
	ClientAdresse    string `json:"client_adresse"`
	Conseiller       string `json:"conseiller"`
	LieuEvenement    string `json:"lieu_evenement"`
	MontantHT        string `json:"montant_ht"`
	MontantTVA       string `json:"montant_tva"`
	MontantTTC       string `json:"montant_ttc"`
	TauxTVA          string `json:"taux_tva"`
	Acompte          string `json:"acompte"`
	MontantRestant   string `json:"montant_restant"`
	RemiseTotale     string `json:"remise_totale"`
	LibelleSolde     string `json:"libelle_solde"`
	ModePaiement     string `json:"mode_paiement"`
	NombreCheques    int    `json:"nombre_cheques"`
	MontantParCheque string `json:"montant_par_cheque"`

	Produits []ProductPayload `json:"produits"`

	SignaturePresente bool   `json:"signature_presente"`
	SignatureImage    string `json:"signature_image,omitempty"`
	NotesLivraison    string `json:"notes_livraison,omitempty"`

	FichierFacture string `json:"fichier_facture"`
}

// BuildPayload projette un instantané de facture vers le contrat N8N.
// pdfBytes peut être vide (workflow de test); le champ reste présent.
func BuildPayload(snap *invoicing.Snapshot, pdfBytes []byte) *Payload {
	inv := snap.Invoice
	client := snap.Client

	p := &Payload{
		NumeroFacture:     inv.Number,
		DateFacture:       inv.Date.Format("2006-01-02"),
		Conseiller:        inv.Advisor,
		LieuEvenement:     inv.EventLocation,
		MontantHT:         snap.Totals.TotalHT.StringFixed(2),
		MontantTVA:        snap.Totals.TotalTVA.StringFixed(2),
		MontantTTC:        snap.Totals.TotalTTC.StringFixed(2),
		TauxTVA:           inv.TaxRatePercent.StringFixed(2),
		Acompte:           snap.Deposit().StringFixed(2),
		MontantRestant:    snap.Balance().StringFixed(2),
		RemiseTotale:      snap.Totals.TotalDiscount.StringFixed(2),
		LibelleSolde:      snap.Totals.Label,
		ModePaiement:      describePayment(snap),
		NombreCheques:     inv.PendingChequeCount,
		MontantParCheque:  "0.00",
		SignaturePresente: inv.SignaturePresent,
		SignatureImage:    inv.SignatureImage,
		NotesLivraison:    inv.DeliveryNotes,
		FichierFacture:    base64.StdEncoding.EncodeToString(pdfBytes),
	}

	if client != nil {
		p.ClientNom = client.Name
		p.ClientEmail = client.Email
		p.ClientTelephone = client.Phone
		p.ClientAdresse = formatAddress(client)
	}

	if snap.Plan != nil && inv.PendingChequeCount > 0 {
		p.MontantParCheque = snap.Plan.PerInstallment.StringFixed(2)
	}

	fair := pricing.IsFairContext(inv.EventLocation)
	p.Produits = make([]ProductPayload, 0, len(inv.Items))
	for _, item := range inv.Items {
		p.Produits = append(p.Produits, ProductPayload{
			Nom:             item.Designation,
			Quantite:        item.Quantity,
			PrixUnitaire:    pricing.EffectiveUnitPrice(item, fair).StringFixed(2),
			Categorie:       item.Category,
			Remise:          item.Discount.StringFixed(2),
			TypeRemise:      item.DiscountKind,
			StatutLivraison: deliveryStatus(item),
		})
	}

	return p
}

// describePayment libellé du mode de paiement, enrichi des échéances
// ("3 chèques à venir de 164.00 €", "Alma 4x de 249.00 €").
func describePayment(snap *invoicing.Snapshot) string {
	inv := snap.Invoice
	if snap.Plan == nil {
		return inv.PaymentMethod
	}
	if inv.PendingChequeCount > 0 {
		return fmt.Sprintf("%d chèques à venir de %s €",
			snap.Plan.Count, snap.Plan.PerInstallment.StringFixed(2))
	}
	if inv.AlmaInstallmentCount > 0 {
		return fmt.Sprintf("Alma %dx de %s €",
			snap.Plan.Count, snap.Plan.PerInstallment.StringFixed(2))
	}
	return inv.PaymentMethod
}

func deliveryStatus(item *entity.LineItem) string {
	if item.PickupOnSite {
		return deliveryTaken
	}
	return deliveryToShip
}

func formatAddress(c *entity.Client) string {
	addr := c.Address
	if c.PostalCode != "" || c.City != "" {
		addr = fmt.Sprintf("%s, %s %s", addr, c.PostalCode, c.City)
	}
	return addr
}
