package export

import (
	"bytes"
	"time"

	"hilanderia-pos/pkg/apperr"

	"github.com/go-pdf/fpdf"
)

var now = time.Now

func today() string {
	return now().Format("2006-01-02")
}

type document struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newDocument(orientation string) *document {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return &document{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) centered(text, style string, size, h float64) {
	d.SetFont("Helvetica", style, size)
	d.CellFormat(0, h, d.tr(text), "", 1, "C", false, 0, "")
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, apperr.ErrEncoding.Wrap(err)
	}
	return buf.Bytes(), nil
}

// PDF renders the table as a report: centered title, date line and a
// striped grid. Wide tables switch to landscape.
func PDF(t Table) ([]byte, error) {
	orientation := "P"
	if len(t.Columns) > 6 {
		orientation = "L"
	}
	d := newDocument(orientation)

	d.centered(t.Title, "B", 16, 10)
	d.SetFont("Helvetica", "", 10)
	d.CellFormat(0, 8, d.tr("Fecha: "+now().Format("02/01/2006")), "", 1, "L", false, 0, "")
	d.Ln(2)

	if len(t.Columns) == 0 {
		return d.bytes()
	}

	pageW, _ := d.GetPageSize()
	left, _, right, _ := d.GetMargins()
	colW := (pageW - left - right) / float64(len(t.Columns))

	header := func() {
		d.SetFont("Helvetica", "B", 8)
		d.SetFillColor(41, 128, 185)
		d.SetTextColor(255, 255, 255)
		for _, c := range t.Columns {
			d.CellFormat(colW, 7, d.tr(c), "1", 0, "C", true, 0, "")
		}
		d.Ln(-1)
		d.SetFont("Helvetica", "", 8)
		d.SetTextColor(0, 0, 0)
	}
	header()

	_, pageH := d.GetPageSize()
	_, _, _, bottom := d.GetMargins()
	for i, row := range t.Rows {
		if d.GetY()+6 > pageH-bottom {
			d.AddPage()
			header()
		}
		fill := i%2 == 1
		d.SetFillColor(245, 245, 245)
		for j := range t.Columns {
			var v interface{}
			if j < len(row) {
				v = row[j]
			}
			d.CellFormat(colW, 6, d.tr(cellText(v)), "1", 0, "L", fill, 0, "")
		}
		d.Ln(-1)
	}

	return d.bytes()
}
