package ubl

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myconfort/facturation-api/internal/application/invoicing"
	"github.com/myconfort/facturation-api/internal/domain/entity"
	"github.com/myconfort/facturation-api/pkg/config"
)

func TestBuildInvoiceXML(t *testing.T) {
	inv := &entity.Invoice{
		Number: "2026-007",
		Date:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Items: []*entity.LineItem{
			{Designation: "Couette 240x260", Category: "Couette", Quantity: 1,
				UnitPriceTTC: decimal.RequireFromString("240")},
		},
		TaxRatePercent: decimal.RequireFromString("20"),
		PaymentMethod:  "carte bleue",
	}
	client := &entity.Client{Name: "M. Martin", Email: "martin@example.fr",
		Address: "3 avenue du Stade", PostalCode: "31000", City: "Toulouse"}
	snap := invoicing.BuildSnapshot(inv, client)

	builder := NewXMLBuilder(config.CompanyConfig{
		Name: "MYCONFORT", SIRET: "824 313 530 00027",
		Address: "88 avenue des Ternes, 75017 Paris", Email: "contact@myconfort.fr",
	})

	raw, err := builder.BuildInvoiceXML(snap)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "2026-007", root.FindElement("cbc:ID").Text())
	assert.Equal(t, "2026-02-01", root.FindElement("cbc:IssueDate").Text())
	assert.Equal(t, "240.00",
		root.FindElement("cac:LegalMonetaryTotal/cbc:TaxInclusiveAmount").Text())
	assert.Equal(t, "200.00",
		root.FindElement("cac:TaxTotal/cac:TaxSubtotal/cbc:TaxableAmount").Text())
	assert.Equal(t, "48", root.FindElement("cac:PaymentMeans/cbc:PaymentMeansCode").Text())
	assert.Equal(t, "MYCONFORT",
		root.FindElement("cac:AccountingSupplierParty/cac:Party/cac:PartyName/cbc:Name").Text())

	lines := root.FindElements("cac:InvoiceLine")
	require.Len(t, lines, 1)
	assert.Equal(t, "240.00", lines[0].FindElement("cbc:LineExtensionAmount").Text())
}

// Avec un échéancier, le XML porte l'acompte du plan et un solde qui
// retombe sur le TTC, comme le PDF et le webhook.
func TestBuildInvoiceXML_AcompteDuPlan(t *testing.T) {
	inv := &entity.Invoice{
		Number: "2026-008",
		Date:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Items: []*entity.LineItem{
			{Designation: "Matelas Saphir 160x200", Category: "Matelas", Quantity: 1,
				UnitPriceTTC: decimal.RequireFromString("1000")},
		},
		TaxRatePercent:       decimal.RequireFromString("20"),
		PaymentMethod:        "carte bleue",
		AlmaInstallmentCount: 3,
	}
	snap := invoicing.BuildSnapshot(inv, nil)

	builder := NewXMLBuilder(config.CompanyConfig{Name: "MYCONFORT"})
	raw, err := builder.BuildInvoiceXML(snap)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))

	// 1000 / 3 = 333.33 → mensualités rondes de 333, reste 1 en acompte.
	total := doc.Root().FindElement("cac:LegalMonetaryTotal")
	require.NotNil(t, total)
	assert.Equal(t, "1.00", total.FindElement("cbc:PrepaidAmount").Text())
	assert.Equal(t, "999.00", total.FindElement("cbc:PayableAmount").Text())
}

func TestBuildInvoiceXML_InstantaneIncomplet(t *testing.T) {
	builder := NewXMLBuilder(config.CompanyConfig{Name: "MYCONFORT"})
	_, err := builder.BuildInvoiceXML(nil)
	assert.Error(t, err)
}
