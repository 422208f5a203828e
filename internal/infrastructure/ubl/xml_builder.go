// Package ubl génère l'export XML de la facture au format UBL 2.1
// (préparation Factur-X / facturation électronique 2026). Le document n'est
// pas signé: il matérialise les montants de l'instantané pour archivage et
// interopérabilité comptable.
package ubl

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/internal/domain/pricing"
	appconfig "github.com/myconfort/facturation-api/pkg/config"
)

// Namespaces UBL 2.1.
const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	currency = "EUR"
)

// XMLBuilder implémente invoicing.XMLExporter.
type XMLBuilder struct {
	company appconfig.CompanyConfig
}

// NewXMLBuilder construit l'exporteur avec l'identité du fournisseur.
func NewXMLBuilder(company appconfig.CompanyConfig) *XMLBuilder {
	return &XMLBuilder{company: company}
}

// BuildInvoiceXML sérialise l'instantané en document UBL Invoice indenté.
func (b *XMLBuilder) BuildInvoiceXML(snap *invoicing.Snapshot) ([]byte, error) {
	if snap == nil || snap.Invoice == nil {
		return nil, fmt.Errorf("ubl: instantané incomplet")
	}
	inv := snap.Invoice

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", nsInvoice)
	root.CreateAttr("xmlns:cac", nsCac)
	root.CreateAttr("xmlns:cbc", nsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ID", inv.Number)
	cbc(root, "IssueDate", inv.Date.Format("2006-01-02"))
	cbc(root, "InvoiceTypeCode", "380") // facture commerciale
	cbc(root, "DocumentCurrencyCode", currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(inv.Items)))
	if inv.DeliveryNotes != "" {
		cbc(root, "Note", inv.DeliveryNotes)
	}

	b.writeSupplier(root)
	writeCustomer(root, snap)
	writePaymentMeans(root, snap)
	writeTaxTotal(root, snap)
	writeMonetaryTotal(root, snap)

	fair := pricing.IsFairContext(inv.EventLocation)
	for i, item := range inv.Items {
		line := root.CreateElement("cac:InvoiceLine")
		cbc(line, "ID", strconv.Itoa(i+1))
		qty := cbc(line, "InvoicedQuantity", strconv.Itoa(item.Quantity))
		qty.CreateAttr("unitCode", "EA")
		amount(line, "LineExtensionAmount",
			pricing.LineTotalInContext(item, inv.EventLocation).StringFixed(2))

		itemEl := line.CreateElement("cac:Item")
		cbc(itemEl, "Description", item.Designation)
		cbc(itemEl, "Name", item.Designation)

		priceEl := line.CreateElement("cac:Price")
		amount(priceEl, "PriceAmount",
			pricing.EffectiveUnitPrice(item, fair).StringFixed(2))
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (b *XMLBuilder) writeSupplier(root *etree.Element) {
	party := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	cbc(party.CreateElement("cac:PartyName"), "Name", b.company.Name)
	if b.company.SIRET != "" {
		legal := party.CreateElement("cac:PartyLegalEntity")
		cbc(legal, "RegistrationName", b.company.Name)
		cbc(legal, "CompanyID", b.company.SIRET)
	}
	if b.company.Address != "" {
		addr := party.CreateElement("cac:PostalAddress")
		cbc(addr, "StreetName", b.company.Address)
	}
	if b.company.Email != "" {
		contact := party.CreateElement("cac:Contact")
		cbc(contact, "ElectronicMail", b.company.Email)
		if b.company.Phone != "" {
			cbc(contact, "Telephone", b.company.Phone)
		}
	}
}

func writeCustomer(root *etree.Element, snap *invoicing.Snapshot) {
	party := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	client := snap.Client
	if client == nil {
		return
	}
	cbc(party.CreateElement("cac:PartyName"), "Name", client.Name)
	if client.SIRET != "" {
		legal := party.CreateElement("cac:PartyLegalEntity")
		cbc(legal, "RegistrationName", client.Name)
		cbc(legal, "CompanyID", client.SIRET)
	}
	addr := party.CreateElement("cac:PostalAddress")
	cbc(addr, "StreetName", client.Address)
	cbc(addr, "PostalZone", client.PostalCode)
	cbc(addr, "CityName", client.City)
	contact := party.CreateElement("cac:Contact")
	cbc(contact, "ElectronicMail", client.Email)
	cbc(contact, "Telephone", client.Phone)
}

func writePaymentMeans(root *etree.Element, snap *invoicing.Snapshot) {
	means := root.CreateElement("cac:PaymentMeans")
	cbc(means, "PaymentMeansCode", paymentMeansCode(snap.Invoice.PaymentMethod))
	cbc(means, "InstructionNote", snap.Invoice.PaymentMethod)
	if snap.Plan != nil {
		cbc(means, "InstructionID",
			fmt.Sprintf("%d x %s", snap.Plan.Count, snap.Plan.PerInstallment.StringFixed(2)))
	}
}

func writeTaxTotal(root *etree.Element, snap *invoicing.Snapshot) {
	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "TaxAmount", snap.Totals.TotalTVA.StringFixed(2))

	sub := taxTotal.CreateElement("cac:TaxSubtotal")
	amount(sub, "TaxableAmount", snap.Totals.TotalHT.StringFixed(2))
	amount(sub, "TaxAmount", snap.Totals.TotalTVA.StringFixed(2))
	category := sub.CreateElement("cac:TaxCategory")
	cbc(category, "Percent", snap.Invoice.TaxRatePercent.StringFixed(2))
	scheme := category.CreateElement("cac:TaxScheme")
	cbc(scheme, "ID", "TVA")
}

func writeMonetaryTotal(root *etree.Element, snap *invoicing.Snapshot) {
	total := root.CreateElement("cac:LegalMonetaryTotal")
	amount(total, "LineExtensionAmount", snap.Totals.TotalTTC.StringFixed(2))
	amount(total, "TaxExclusiveAmount", snap.Totals.TotalHT.StringFixed(2))
	amount(total, "TaxInclusiveAmount", snap.Totals.TotalTTC.StringFixed(2))
	amount(total, "AllowanceTotalAmount", snap.Totals.TotalDiscount.StringFixed(2))
	amount(total, "PrepaidAmount", snap.Deposit().StringFixed(2))
	amount(total, "PayableAmount", snap.Balance().StringFixed(2))
}

// paymentMeansCode mappe le mode de paiement vers les codes UNCL4461 usuels.
func paymentMeansCode(method string) string {
	switch {
	case method == pricing.PaymentEspeces:
		return "10" // espèces
	case method == pricing.PaymentCarteBleue, method == pricing.PaymentCarteBancaire:
		return "48" // carte bancaire
	case pricing.IsBankTransfer(method):
		return "30" // virement
	case method == pricing.PaymentCheque, method == pricing.PaymentChequesAVenir:
		return "20" // chèque
	}
	return "1" // instrument non défini
}

// ── helpers etree ─────────────────────────────────────────────────────────────

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, local, value string) {
	el := cbc(parent, local, value)
	el.CreateAttr("currencyID", currency)
}
