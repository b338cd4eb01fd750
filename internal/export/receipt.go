package export

import (
	"bytes"
	"strconv"
	"time"

	"hilanderia-pos/pkg/apperr"
	"hilanderia-pos/pkg/currency"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Company is printed in the receipt header.
type Company struct {
	Name    string
	RUC     string
	Address string
}

type ReceiptLine struct {
	Product   string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// ReceiptData is everything a boleta shows. TransactionCode is the QR payload.
type ReceiptData struct {
	Company         Company
	Customer        string
	DNI             string
	SoldAt          time.Time
	Seller          string
	Lines           []ReceiptLine
	Total           decimal.Decimal
	TransactionCode string
}

// Receipt renders the sale boleta: company header, customer block, item
// table with total, total in words and the QR of the transaction code.
func Receipt(r ReceiptData) ([]byte, error) {
	words, err := currency.ToWords(r.Total)
	if err != nil {
		return nil, err
	}

	var qrPNG []byte
	if r.TransactionCode != "" {
		if qrPNG, err = QR(r.TransactionCode); err != nil {
			return nil, err
		}
	}

	d := newDocument("P")
	d.SetMargins(20, 15, 20)
	d.SetY(15)

	d.centered(r.Company.Name, "B", 16, 8)
	d.centered("RUC: "+r.Company.RUC, "", 10, 6)
	d.centered(r.Company.Address, "", 10, 6)
	d.Ln(3)
	d.centered("BOLETA ELECTRÓNICA", "B", 14, 8)

	y := d.GetY() + 2
	d.Line(20, y, 190, y)
	d.SetY(y + 4)

	d.SetFont("Helvetica", "", 10)
	d.CellFormat(100, 6, d.tr("Cliente: "+r.Customer), "", 0, "L", false, 0, "")
	d.CellFormat(0, 6, d.tr("Fecha: "+r.SoldAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	d.CellFormat(100, 6, d.tr("DNI: "+r.DNI), "", 0, "L", false, 0, "")
	d.CellFormat(0, 6, d.tr("Vendedor: "+r.Seller), "", 1, "L", false, 0, "")
	d.Ln(4)

	widths := []float64{85, 25, 30, 30}
	d.SetFont("Helvetica", "B", 9)
	d.SetFillColor(52, 152, 219)
	d.SetTextColor(255, 255, 255)
	for i, h := range []string{"Producto", "Cant.", "P. Unit.", "Subtotal"} {
		d.CellFormat(widths[i], 7, d.tr(h), "1", 0, "C", true, 0, "")
	}
	d.Ln(-1)

	d.SetFont("Helvetica", "", 9)
	d.SetTextColor(0, 0, 0)
	for _, line := range r.Lines {
		d.CellFormat(widths[0], 6, d.tr(line.Product), "1", 0, "L", false, 0, "")
		d.CellFormat(widths[1], 6, strconv.Itoa(line.Quantity), "1", 0, "C", false, 0, "")
		d.CellFormat(widths[2], 6, currency.Format(line.UnitPrice), "1", 0, "R", false, 0, "")
		d.CellFormat(widths[3], 6, currency.Format(line.Subtotal), "1", 1, "R", false, 0, "")
	}

	d.SetFont("Helvetica", "B", 9)
	d.SetTextColor(255, 255, 255)
	d.CellFormat(widths[0]+widths[1], 7, "", "1", 0, "", true, 0, "")
	d.CellFormat(widths[2], 7, "TOTAL:", "1", 0, "R", true, 0, "")
	d.CellFormat(widths[3], 7, currency.Format(r.Total), "1", 1, "R", true, 0, "")
	d.SetTextColor(0, 0, 0)

	y = d.GetY() + 10
	d.SetXY(20, y)
	d.SetFont("Helvetica", "B", 10)
	d.CellFormat(0, 6, "Total:", "", 1, "L", false, 0, "")
	d.SetFont("Helvetica", "", 10)
	d.MultiCell(120, 6, d.tr(words), "", "L", false)

	if qrPNG != nil {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		d.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
		d.ImageOptions("qr", 150, y, 30, 30, false, opts, 0, "")
	}

	d.SetY(y + 40)
	d.centered("Representación impresa de la boleta de venta electrónica", "I", 8, 6)
	d.centered("Gracias por la Compra.", "I", 8, 6)

	if err := d.Error(); err != nil {
		return nil, apperr.ErrEncoding.Wrap(err)
	}
	return d.bytes()
}
