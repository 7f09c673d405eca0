package infra

// pdf.go renders a simplified DANFE (invoice summary) with go-pdf/fpdf.
// Layout: company header, access key with QR code, client/order block,
// labour and parts tables, total.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"christocar/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

// Company identifies the issuer printed on every document.
type Company struct {
	Name string
	CNPJ string
}

// GenerateInvoicePDF writes invoice_<id>.pdf under storagePath and returns its path.
func GenerateInvoicePDF(inv *model.Invoice, order *model.ServiceOrder, company Company, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("invoice_%d.pdf", inv.ID))

	qr, err := qrcode.Encode(inv.AccessKey, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("pdf: qr code: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// header
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(company.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "CNPJ: "+formatCNPJ(company.CNPJ), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("DANFE simplificado · Nota Fiscal Eletrônica"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// access key + QR
	top := pdf.GetY()
	pdf.RegisterImageOptionsReader("qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", pageW-12-32, top, 32, 32, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW-36, 5, "Chave de acesso", "", 1, "L", false, 0, "")
	pdf.SetFont("Courier", "", 9)
	pdf.CellFormat(contentW-36, 5, groupKey(inv.AccessKey), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW-36, 5, tr("Emissão: ")+inv.IssuedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW-36, 5, tr("Situação: ")+inv.Status, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW-36, 5, "Cliente: "+tr(inv.ClientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW-36, 5, tr("Ordem de serviço: ")+order.Number, "", 1, "L", false, 0, "")
	pdf.SetY(top + 36)

	colDesc := contentW * 0.55
	colQty := contentW * 0.12
	colPrice := contentW * 0.16
	colSub := contentW * 0.17
	header := func(title string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, tr(title), "", 1, "L", false, 0, "")
		pdf.CellFormat(colDesc, 5, tr("Descrição"), "B", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 5, "Qtd", "B", 0, "C", false, 0, "")
		pdf.CellFormat(colPrice, 5, "Unit.", "B", 0, "R", false, 0, "")
		pdf.CellFormat(colSub, 5, "Subtotal", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}

	if len(order.Services) > 0 {
		header("Serviços")
		for _, l := range order.Services {
			pdf.CellFormat(colDesc, 5, tr(l.Description), "", 0, "L", false, 0, "")
			pdf.CellFormat(colQty, 5, fmt.Sprintf("%d", l.Quantity), "", 0, "C", false, 0, "")
			pdf.CellFormat(colPrice, 5, "R$ "+l.Price.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(colSub, 5, "R$ "+l.Subtotal().StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(2)
	}
	if len(order.Parts) > 0 {
		header("Peças")
		for _, l := range order.Parts {
			pdf.CellFormat(colDesc, 5, tr(l.Code+" "+l.Name), "", 0, "L", false, 0, "")
			pdf.CellFormat(colQty, 5, fmt.Sprintf("%d", l.Quantity), "", 0, "C", false, 0, "")
			pdf.CellFormat(colPrice, 5, "R$ "+l.Price.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(colSub, 5, "R$ "+l.Subtotal().StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(2)
	}

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW-colSub, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(colSub, 7, "R$ "+inv.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// groupKey prints the access key in blocks of four, as on paper DANFEs.
func groupKey(k string) string {
	var b bytes.Buffer
	for i := 0; i < len(k); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := min(i+4, len(k))
		b.WriteString(k[i:end])
	}
	return b.String()
}

func formatCNPJ(c string) string {
	d := digits14(c)
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
}
