package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders commission receipts and booking statements as PDF.
type DocsService struct {
	Deps
	ReceiptLoader   func(context.Context, int64) (receiptData, error)
	StatementLoader func(context.Context, int64) (models.BookingDetail, error)
}

type receiptData struct {
	Invoice models.InternalInvoice
	Booking models.Booking
	Summary models.InvoiceSummary
}

func (s DocsService) GenerateInvoiceReceipt(ctx context.Context, invoiceID int64) ([]byte, string, error) {
	data, err := s.loadReceipt(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	s.log("docs", "generate_receipt", "invoice_id=%d booking_id=%d", invoiceID, data.Booking.ID)
	return buildReceiptPDF(data)
}

func (s DocsService) GenerateBookingStatement(ctx context.Context, bookingID int64) ([]byte, string, error) {
	detail, err := s.loadStatement(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	s.log("docs", "generate_statement", "booking_id=%d", bookingID)
	return buildStatementPDF(detail)
}

func (s DocsService) loadReceipt(ctx context.Context, invoiceID int64) (receiptData, error) {
	if s.ReceiptLoader != nil {
		return s.ReceiptLoader(ctx, invoiceID)
	}
	inv, b, summary, err := InternalInvoiceService{Deps: s.Deps}.Receipt(ctx, invoiceID)
	if err != nil {
		return receiptData{}, err
	}
	return receiptData{Invoice: inv, Booking: b, Summary: summary}, nil
}

func (s DocsService) loadStatement(ctx context.Context, bookingID int64) (models.BookingDetail, error) {
	if s.StatementLoader != nil {
		return s.StatementLoader(ctx, bookingID)
	}
	return BookingService{Deps: s.Deps}.Get(ctx, bookingID)
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Commission Invoice", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "COMMISSION INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Invoice No   : %s", utils.FirstNonEmpty(d.Invoice.InvoiceNo, "-")),
		fmt.Sprintf("Invoice Date : %s", utils.FirstNonEmpty(d.Invoice.InvoiceDate.String(), "-")),
		fmt.Sprintf("Booking Ref  : %s", utils.FirstNonEmpty(d.Booking.RefNo, "-")),
		fmt.Sprintf("Passenger    : %s", utils.FirstNonEmpty(d.Booking.PaxName, "-")),
		fmt.Sprintf("Agent / Team : %s / %s", utils.FirstNonEmpty(d.Booking.AgentName, "-"), utils.FirstNonEmpty(d.Booking.TeamName, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Amount: "+utils.FormatCurrency(d.Invoice.Amount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Commission      : "+utils.FormatCurrency(d.Summary.CommissionAmount))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Total invoiced  : "+utils.FormatCurrency(d.Summary.TotalInvoiced))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Left to invoice : "+utils.FormatCurrency(d.Summary.Remaining))
	pdf.Ln(10)

	if notes := strings.TrimSpace(d.Invoice.Notes); notes != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Notes: "+notes, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("COMMISSION_%s.pdf", safeFilenamePart(d.Invoice.InvoiceNo))
	return buf.Bytes(), filename, nil
}

func buildStatementPDF(d models.BookingDetail) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Statement", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING STATEMENT")
	pdf.Ln(12)

	b := d.Booking
	pdf.SetFont("Helvetica", "", 12)
	for _, s := range []string{
		fmt.Sprintf("Ref No      : %s", utils.FirstNonEmpty(b.RefNo, "-")),
		fmt.Sprintf("Passenger   : %s", utils.FirstNonEmpty(b.PaxName, "-")),
		fmt.Sprintf("PNR         : %s", utils.FirstNonEmpty(b.PNR, "-")),
		fmt.Sprintf("Airline     : %s", utils.FirstNonEmpty(b.Airline, "-")),
		fmt.Sprintf("Route       : %s", utils.FirstNonEmpty(b.FromTo, "-")),
		fmt.Sprintf("Travel Date : %s", utils.FirstNonEmpty(b.TravelDate.String(), "-")),
		fmt.Sprintf("Payment     : %s", utils.FirstNonEmpty(string(b.PaymentMethod), "-")),
		fmt.Sprintf("Status      : %s / %s", utils.FirstNonEmpty(string(b.BookingStatus), "-"), utils.FirstNonEmpty(string(b.BookingType), "-")),
	} {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Financials")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range [][2]string{
		{"Revenue", utils.FormatCurrency(b.Revenue)},
		{"Product cost", utils.FormatCurrency(b.ProdCost)},
		{"Transaction fee", utils.FormatCurrency(b.TransFee)},
		{"Surcharge", utils.FormatCurrency(b.Surcharge)},
		{"Received", utils.FormatCurrency(b.Received)},
		{"Profit", utils.FormatCurrency(b.Profit)},
		{"Balance", utils.FormatCurrency(b.Balance)},
	} {
		pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "", 1, "R", false, 0, "")
	}

	if len(d.Instalments) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Instalments")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		for i, in := range d.Instalments {
			pdf.CellFormat(10, 6, fmt.Sprintf("%d", i+1), "", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, in.DueDate.String(), "", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, utils.FormatCurrency(in.Amount), "", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, utils.FormatCurrency(in.PaidAmount), "", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, string(in.Status), "", 1, "L", false, 0, "")
		}
	}

	if len(d.CostItems) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Supplier costs")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		for _, item := range d.CostItems {
			for _, sup := range item.Suppliers {
				pdf.CellFormat(40, 6, utils.FirstNonEmpty(item.Category, "-"), "", 0, "L", false, 0, "")
				pdf.CellFormat(45, 6, utils.FirstNonEmpty(sup.Supplier, "-"), "", 0, "L", false, 0, "")
				pdf.CellFormat(35, 6, utils.FormatCurrency(sup.Amount), "", 0, "R", false, 0, "")
				pdf.CellFormat(35, 6, utils.FormatCurrency(sup.PendingAmount), "", 0, "R", false, 0, "")
				pdf.CellFormat(25, 6, string(sup.Status), "", 1, "L", false, 0, "")
			}
		}
	}

	if c := d.Cancellation; c != nil {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Cancellation")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, "Supplier fee : "+utils.FormatCurrency(c.SupplierCancellationFee))
		pdf.Ln(6)
		if c.CreditNote != nil {
			pdf.Cell(0, 6, fmt.Sprintf("Credit note  : %s %s (%s left)", c.CreditNote.ReferenceNo,
				utils.FormatCurrency(c.CreditNote.InitialAmount), utils.FormatCurrency(c.CreditNote.RemainingAmount)))
			pdf.Ln(6)
		}
		for _, o := range []*models.Obligation{c.PassengerRefund, c.CustomerPayable, c.SupplierPayable} {
			if o == nil {
				continue
			}
			pdf.Cell(0, 6, fmt.Sprintf("%s : %s pending %s", o.Kind, utils.FormatCurrency(o.Amount), utils.FormatCurrency(o.PendingAmount)))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("STATEMENT_%s.pdf", safeFilenamePart(b.RefNo))
	return buf.Bytes(), filename, nil
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
