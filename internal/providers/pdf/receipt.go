package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptData describes a single recorded payment.
type ReceiptData struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string

	ReceiptNumber string
	DatePaid      string

	PatientName string

	AmountPaid string
	Mode       string
	Reference  string

	TotalAmount   string
	TotalPaid     string
	PendingAmount string
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, receipt ReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, receipt.ClinicName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(12,
		col.New(12).Add(
			text.New(receipt.ClinicAddress, props.Text{Size: 9}),
			text.New(receipt.ClinicPhone, props.Text{Size: 9, Top: 4}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "Payment receipt", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Receipt number: "+receipt.ReceiptNumber, props.Text{Top: 0, Size: 9}),
			text.New("Date paid: "+receipt.DatePaid, props.Text{Top: 4, Size: 9}),
		),
		col.New(6).Add(
			text.New("Patient: "+receipt.PatientName, props.Text{Top: 0, Size: 9}),
		),
	)

	m.AddRow(12,
		text.NewCol(12, "Amount received: "+receipt.AmountPaid, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   2,
		}),
	)

	m.AddRow(14,
		col.New(12).Add(
			text.New("Mode: "+receipt.Mode, props.Text{Size: 9}),
			text.New("Reference: "+receipt.Reference, props.Text{Size: 9, Top: 4}),
		),
	)

	rows := []struct {
		label string
		value string
	}{
		{"Consultation total", receipt.TotalAmount},
		{"Paid to date", receipt.TotalPaid},
		{"Balance due", receipt.PendingAmount},
	}
	for _, row := range rows {
		m.AddRow(8,
			col.New(7),
			text.NewCol(3, row.label, props.Text{Size: 9}),
			text.NewCol(2, row.value, props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
