package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/SarangTandel5112/care-connects/internal/billing"
	consultationdomain "github.com/SarangTandel5112/care-connects/internal/consultation/domain"
	patientdomain "github.com/SarangTandel5112/care-connects/internal/patient/domain"
	"github.com/SarangTandel5112/care-connects/internal/providers/pdf"
	"github.com/gin-gonic/gin"
)

// GetConsultationInvoicePDF renders the print preview. The figures come from
// the same recomputed summary the detail endpoint returns.
func (s *Server) GetConsultationInvoicePDF(c *gin.Context) {
	ctx := c.Request.Context()

	view, err := s.consultationSvc.GetByID(ctx, strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	clinic, err := s.clinicSvc.Current(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	patient, doctor := s.lookupParties(c, view)

	currency := s.billingCfg.Get().Currency
	taxLabel := "Tax"
	if view.ApplyTax {
		taxLabel = fmt.Sprintf("Tax (%.0f%%)", s.billingCfg.Get().TaxRate*100)
	}

	items := make([]pdf.InvoiceItem, 0, len(view.Procedures))
	for _, p := range view.Procedures {
		lineAmount := billing.LineSubTotal(billing.ProcedureLine{
			UnitCost: p.UnitCost,
			Quantity: p.Quantity,
			Discount: p.Discount,
		})
		items = append(items, pdf.InvoiceItem{
			Description: p.Name,
			Tooth:       p.Tooth,
			Qty:         p.Quantity,
			UnitPrice:   formatMoney(currency, p.UnitCost),
			Discount:    formatMoney(currency, p.Discount),
			Amount:      formatMoney(currency, lineAmount),
		})
	}

	data := pdf.InvoiceData{
		ClinicName:    clinic.Name,
		ClinicAddress: clinic.Address,
		ClinicPhone:   clinic.Phone,

		InvoiceNumber: "INV-" + view.ID.String(),
		IssueDate:     view.CreatedAt.Format(dateOnlyLayout),

		PatientName: patient,
		DoctorName:  doctor,

		Items: items,

		ConsultationFee: formatMoney(currency, view.ConsultationFee),
		OtherAmount:     formatMoney(currency, view.OtherAmount),
		SubTotal:        formatMoney(currency, view.Billing.SubTotal),
		Tax:             formatMoney(currency, view.Billing.Tax),
		TaxLabel:        taxLabel,
		Discount:        formatMoney(currency, view.Discount),
		Total:           formatMoney(currency, view.Billing.TotalAmount),
		TotalPaid:       formatMoney(currency, view.Billing.TotalPaid),
		PendingAmount:   formatMoney(currency, view.Billing.PendingAmount),
		PaymentStatus:   string(view.Billing.PaymentStatus),
	}

	reader, err := s.pdfProvider.GenerateInvoice(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordInvoiceRendered(ctx, "invoice")
	}

	s.writePDF(c, reader, "invoice-"+view.ID.String()+".pdf")
}

// GetConsultationReceiptPDF renders a receipt for a single recorded payment,
// selected by payment_id.
func (s *Server) GetConsultationReceiptPDF(c *gin.Context) {
	ctx := c.Request.Context()

	view, err := s.consultationSvc.GetByID(ctx, strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	paymentID := strings.TrimSpace(c.Query("payment_id"))
	if paymentID == "" {
		AbortWithError(c, newValidationError("payment_id", "invalid_payment_id", "payment_id is required"))
		return
	}

	var payment *consultationdomain.PaymentRecord
	for i := range view.Payments {
		if view.Payments[i].ID.String() == paymentID {
			payment = &view.Payments[i]
			break
		}
	}
	if payment == nil {
		AbortWithError(c, consultationdomain.ErrPaymentMissing)
		return
	}

	clinic, err := s.clinicSvc.Current(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	patient, _ := s.lookupParties(c, view)

	currency := s.billingCfg.Get().Currency
	data := pdf.ReceiptData{
		ClinicName:    clinic.Name,
		ClinicAddress: clinic.Address,
		ClinicPhone:   clinic.Phone,

		ReceiptNumber: "RCPT-" + payment.ID.String(),
		DatePaid:      payment.PaidAt.Format(dateOnlyLayout),

		PatientName: patient,

		AmountPaid: formatMoney(currency, payment.AmountPaid),
		Mode:       string(payment.Mode),
		Reference:  payment.Reference,

		TotalAmount:   formatMoney(currency, view.Billing.TotalAmount),
		TotalPaid:     formatMoney(currency, view.Billing.TotalPaid),
		PendingAmount: formatMoney(currency, view.Billing.PendingAmount),
	}

	reader, err := s.pdfProvider.GenerateReceipt(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordInvoiceRendered(ctx, "receipt")
	}

	s.writePDF(c, reader, "receipt-"+payment.ID.String()+".pdf")
}

// lookupParties resolves display names; a missing record degrades to an
// empty name rather than failing the render.
func (s *Server) lookupParties(c *gin.Context, view consultationdomain.View) (string, string) {
	ctx := c.Request.Context()

	var patientName, doctorName string
	if p, err := s.patientSvc.GetByID(ctx, patientdomain.GetPatientRequest{ID: view.PatientID.String()}); err == nil {
		patientName = p.Name
	}
	if d, err := s.doctorSvc.GetByID(ctx, view.DoctorID.String()); err == nil {
		doctorName = d.Name
	}
	return patientName, doctorName
}

func (s *Server) writePDF(c *gin.Context, reader io.Reader, filename string) {
	body, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", body)
}

func formatMoney(currency string, v float64) string {
	return fmt.Sprintf("%s %.2f", currency, v)
}
