package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// InvoiceData carries everything the consultation invoice layout needs,
// preformatted. Money fields arrive as strings so the renderer stays
// ignorant of currency and rounding rules.
type InvoiceData struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string

	InvoiceNumber string
	IssueDate     string

	PatientName string
	DoctorName  string

	Items []InvoiceItem

	ConsultationFee string
	OtherAmount     string
	SubTotal        string
	Tax             string
	TaxLabel        string
	Discount        string
	Total           string
	TotalPaid       string
	PendingAmount   string
	PaymentStatus   string
}

// InvoiceItem is one procedure line on the invoice.
type InvoiceItem struct {
	Description string
	Tooth       string
	Qty         int64
	UnitPrice   string
	Discount    string
	Amount      string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, invoice InvoiceData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, invoice.ClinicName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(12,
		col.New(12).Add(
			text.New(invoice.ClinicAddress, props.Text{Size: 9}),
			text.New(invoice.ClinicPhone, props.Text{Size: 9, Top: 4}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Top: 0, Size: 9}),
			text.New("Date of issue: "+invoice.IssueDate, props.Text{Top: 4, Size: 9}),
		),
		col.New(6).Add(
			text.New("Patient: "+invoice.PatientName, props.Text{Top: 0, Size: 9}),
			text.New("Doctor: "+invoice.DoctorName, props.Text{Top: 4, Size: 9}),
		),
	)

	// Table Header
	m.AddRow(10,
		text.NewCol(4, "Procedure", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Tooth", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "Discount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range invoice.Items {
		m.AddRow(10,
			text.NewCol(4, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Tooth, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, item.Discount, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Footer Totals
	totals := []struct {
		label string
		value string
		bold  bool
	}{
		{"Consultation fee", invoice.ConsultationFee, false},
		{"Other charges", invoice.OtherAmount, false},
		{"Subtotal", invoice.SubTotal, false},
		{invoice.TaxLabel, invoice.Tax, false},
		{"Discount", invoice.Discount, false},
		{"Total", invoice.Total, true},
		{"Paid", invoice.TotalPaid, false},
		{"Amount due", invoice.PendingAmount, true},
	}
	for _, row := range totals {
		style := fontstyle.Normal
		if row.bold {
			style = fontstyle.Bold
		}
		m.AddRow(8,
			col.New(7),
			text.NewCol(3, row.label, props.Text{Size: 9, Style: style}),
			text.NewCol(2, row.value, props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}

	m.AddRow(10,
		text.NewCol(12, "Payment status: "+invoice.PaymentStatus, props.Text{
			Size:  9,
			Style: fontstyle.Bold,
			Top:   4,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
