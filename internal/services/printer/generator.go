package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/maroso-log/devtrack/internal/models"
	qrcode "github.com/skip2/go-qrcode"
)

// GenerateProcessLabel renders a printable A4 summary sheet for one
// return process: a QR code resolving to the process ID, the shipment
// fields and the line items. The sheet travels with the physical
// return so warehouse staff can scan it back into the system.
func GenerateProcessLabel(p models.Process, items []models.Item) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	translate := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(130, 10, translate("Processo de Devolução"), "", 0, "L", false, 0, "")

	// QR code top right, resolving to the business key.
	qrPng, err := qrcode.Encode(p.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encoding QR: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr_process", opts, bytes.NewReader(qrPng))
	pdf.ImageOptions("qr_process", 160, 12, 35, 35, false, opts, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(130, 8, p.ID, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Shipment fields, two columns of label/value pairs.
	fields := []struct{ label, value string }{
		{"NF", p.NF},
		{"CTE", p.CTE},
		{"Status", p.Status},
		{"Status Fiscal", p.FiscalStatus},
		{"Data Emissão", p.IssueDate},
		{"Data Criação", p.CreatedAt},
		{"Veículo", p.Vehicle},
		{"Motorista", p.Driver},
		{"Local Atual", p.Location},
		{"Destino", p.Destination},
		{"OC", p.OC},
		{"Responsável", p.Responsible},
	}
	for _, f := range fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, translate(f.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, translate(f.value), "", 1, "L", false, 0, "")
	}

	if p.Reason != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Motivo", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, translate(p.Reason), "", "L", false)
	}

	// Item table
	if len(items) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Itens", "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(30, 7, translate("Código"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(85, 7, translate("Descrição"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, "Qtd", "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, "Valor Total", "1", 1, "R", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		var total float64
		for _, item := range items {
			pdf.CellFormat(30, 6, translate(item.Code), "1", 0, "L", false, 0, "")
			pdf.CellFormat(85, 6, translate(item.Description), "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%g", item.Quantity), "1", 0, "R", false, 0, "")
			pdf.CellFormat(45, 6, fmt.Sprintf("R$ %.2f", item.TotalValue), "1", 1, "R", false, 0, "")
			total += item.TotalValue
		}

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(135, 7, "Total", "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, fmt.Sprintf("R$ %.2f", total), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
