// Package pdf implémente la génération de la facture MYCONFORT au format A4.
//
// Layout de la page:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: MYCONFORT + SIRET  │  N° Facture + Date            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ÉMETTEUR: Adresse / Tél / Email                            │
//	│  CLIENT: Nom + adresse + contact                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLEAU: Qté | Désignation | P.U. TTC | Remise | Total     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAUX: HT / TVA / TTC / Acompte / Solde                   │
//	│  PAIEMENT: mode + échéancier éventuel                       │
//	│  SIGNATURE + Mention légale (loi Hamon, rétractation)       │
//	└─────────────────────────────────────────────────────────────┘
//
// Tous les montants affichés proviennent de l'instantané: rien n'est
// recalculé ici.
package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/internal/domain/pricing"
	appconfig "github.com/myconfort/facturation-api/pkg/config"
)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 85, Blue: 51} // vert MYCONFORT
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoInvoiceGenerator implémente invoicing.PDFGenerator avec Maroto v2.
type MarotoInvoiceGenerator struct {
	company appconfig.CompanyConfig
}

// NewMarotoInvoiceGenerator construit le générateur avec l'identité de
// l'entreprise émettrice.
func NewMarotoInvoiceGenerator(company appconfig.CompanyConfig) *MarotoInvoiceGenerator {
	return &MarotoInvoiceGenerator{company: company}
}

// GenerateInvoicePDF génère le PDF et renvoie ses octets.
func (g *MarotoInvoiceGenerator) GenerateInvoicePDF(_ context.Context, snap *invoicing.Snapshot) ([]byte, error) {
	cfg := marotoconfig.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Facture "+snap.Invoice.Number, true).
		WithAuthor(g.company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(snap.Invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.issuerRow())
	m.AddRows(clientRow(snap.Client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	fair := pricing.IsFairContext(snap.Invoice.EventLocation)
	for _, r := range tableItemRows(snap.Invoice.Items, fair, snap.Invoice.EventLocation) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(snap))
	m.AddRows(paymentRow(snap))

	m.AddRows(line.NewRow(2))
	for _, r := range signatureRows(snap.Invoice) {
		m.AddRows(r)
	}
	m.AddRows(legalFooterRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: générer le document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

// headerRow: nom de l'entreprise + SIRET (gauche), N° facture + date (droite).
func (g *MarotoInvoiceGenerator) headerRow(inv *entity.Invoice) core.Row {
	date := inv.Date.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.company.Name, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("SIRET : "+g.company.SIRET, props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURE", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date : "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// issuerRow: coordonnées de l'émetteur.
func (g *MarotoInvoiceGenerator) issuerRow() core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ÉMETTEUR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Adresse : %s   |   Tél : %s   |   Email : %s",
				nonEmpty(g.company.Address, "—"),
				nonEmpty(g.company.Phone, "—"),
				nonEmpty(g.company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// clientRow: identité et coordonnées du client facturé.
func clientRow(client *entity.Client) core.Row {
	address := "—"
	email := "—"
	phone := "—"
	name := "Client"
	if client != nil {
		name = client.Name
		email = nonEmpty(client.Email, "—")
		phone = nonEmpty(client.Phone, "—")
		address = nonEmpty(strings.TrimSpace(fmt.Sprintf("%s, %s %s",
			client.Address, client.PostalCode, client.City)), "—")
	}

	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s   |   Email : %s   |   Tél : %s",
				address, email, phone,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: en-tête du tableau des lignes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qté", 1, align.Center),
		h("Désignation", 5, align.Left),
		h("P.U. TTC", 2, align.Right),
		h("Remise", 2, align.Right),
		h("Total TTC", 2, align.Right),
	)
}

// tableItemRows: une ligne du tableau par ligne de facture. Le prix unitaire
// affiché est le prix après remise foire éventuelle; le total de ligne vient
// du même calcul que les totaux.
func tableItemRows(items []*entity.LineItem, fair bool, eventLocation string) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		price := pricing.EffectiveUnitPrice(item, fair)
		total := pricing.LineTotalInContext(item, eventLocation)

		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", item.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				item.Designation,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				price.StringFixed(2)+" €",
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				discountLabel(item),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				total.StringFixed(2)+" €",
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloc des totaux aligné à droite: HT, TVA, remise, TTC, acompte
// et solde avec son libellé (MONTANT PAYÉ / TOTAL À RECEVOIR).
func totalsRow(snap *invoicing.Snapshot) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	return row.New(36).Add(
		col.New(4),
		col.New(4).Add(
			label("Total HT :", 1),
			label("TVA ("+snap.Invoice.TaxRatePercent.StringFixed(0)+" %) :", 6),
			label("Remise totale :", 11),
			label("Total TTC :", 16),
			label("Acompte :", 21),
			grand(snap.Totals.Label+" :", 27),
		),
		col.New(4).Add(
			value(snap.Totals.TotalHT.StringFixed(2)+" €", 1),
			value(snap.Totals.TotalTVA.StringFixed(2)+" €", 6),
			value(snap.Totals.TotalDiscount.StringFixed(2)+" €", 11),
			value(snap.Totals.TotalTTC.StringFixed(2)+" €", 16),
			value(snap.Deposit().StringFixed(2)+" €", 21),
			grand(snap.Balance().StringFixed(2)+" €", 27),
		),
	)
}

// paymentRow: mode de paiement + échéancier (chèques à venir ou Alma).
func paymentRow(snap *invoicing.Snapshot) core.Row {
	inv := snap.Invoice

	description := "Mode de paiement : " + nonEmpty(inv.PaymentMethod, "—")
	if snap.Plan != nil {
		switch {
		case inv.PendingChequeCount > 0:
			description += fmt.Sprintf("   |   %d chèques de %s € chacun après acompte",
				snap.Plan.Count, snap.Plan.PerInstallment.StringFixed(2))
		case inv.AlmaInstallmentCount > 0:
			description += fmt.Sprintf("   |   Alma %dx de %s €",
				snap.Plan.Count, snap.Plan.PerInstallment.StringFixed(2))
		}
	}

	return row.New(9).Add(
		col.New(12).Add(
			text.New(description, props.Text{Size: 9, Top: 2}),
		),
	)
}

// signatureRows: bloc signature. L'image (data URL PNG capturée sur tablette)
// est incrustée quand elle est présente; sinon un cadre vide avec la mention.
func signatureRows(inv *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("SIGNATURE DU CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if b64, ok := signaturePNG(inv.SignatureImage); ok {
		raw, _ := base64.StdEncoding.DecodeString(b64)
		rows = append(rows, row.New(25).Add(
			col.New(4).Add(image.NewFromBytes(raw, extension.Png, props.Rect{
				Percent: 90,
			})),
			col.New(8).Add(text.New(
				"Bon pour accord — conditions générales de vente acceptées.",
				props.Text{Size: 8, Top: 10, Color: colorGray},
			)),
		))
	} else {
		rows = append(rows, row.New(14).Add(col.New(12).Add(
			text.New("Signature non capturée sur ce document.", props.Text{
				Size: 8, Top: 4, Color: colorGray,
			}),
		)))
	}

	return rows
}

// legalFooterRow: mention de rétractation (vente hors établissement).
func legalFooterRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(
			"Conformément à l'article L221-18 du Code de la consommation, vous disposez "+
				"d'un délai de quatorze jours pour exercer votre droit de rétractation. "+
				"Conservez ce document comme justificatif d'achat.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// discountLabel formate la remise d'une ligne pour l'affichage.
func discountLabel(item *entity.LineItem) string {
	if item.Discount.IsZero() {
		return "—"
	}
	switch item.DiscountKind {
	case entity.DiscountPercent:
		return item.Discount.StringFixed(0) + " %"
	case entity.DiscountFixed:
		return item.Discount.StringFixed(2) + " €"
	}
	return "—"
}

// signaturePNG extrait le base64 d'une data URL PNG. Les signatures capturées
// sur tablette arrivent sous la forme "data:image/png;base64,....".
func signaturePNG(dataURL string) (string, bool) {
	const prefix = "data:image/png;base64,"
	if strings.HasPrefix(dataURL, prefix) {
		return strings.TrimPrefix(dataURL, prefix), true
	}
	// base64 brut accepté aussi
	if dataURL != "" && !strings.HasPrefix(dataURL, "data:") {
		return dataURL, true
	}
	return "", false
}
