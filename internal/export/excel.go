package export

import (
	"fmt"
	"io"
	"strings"

	"hilanderia-pos/pkg/apperr"

	"github.com/xuri/excelize/v2"
)

// Excel renders a single-sheet workbook: header row, then one row per record.
func Excel(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.sheetName()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, apperr.ErrEncoding.Wrap(err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, apperr.ErrEncoding.Wrap(err)
	}

	if len(t.Columns) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"2980B9"}, Pattern: 1},
		})
		if err != nil {
			return nil, apperr.ErrEncoding.Wrap(err)
		}
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return nil, apperr.ErrEncoding.Wrap(err)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(t.Columns))
		if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
			return nil, apperr.ErrEncoding.Wrap(err)
		}
	}

	for i, row := range t.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, apperr.ErrEncoding.Wrap(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperr.ErrEncoding.Wrap(err)
	}
	return buf.Bytes(), nil
}

// ReadSheet reads the first sheet of a workbook into rows keyed by the
// lower-cased header cells. Blank rows are skipped.
func ReadSheet(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Invalid("unreadable spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Invalid("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Invalid("unreadable sheet %q: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var out []map[string]string
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		blank := true
		for i, key := range header {
			if key == "" || i >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[i])
			if v != "" {
				blank = false
			}
			record[key] = v
		}
		if !blank {
			out = append(out, record)
		}
	}
	return out, nil
}

// Import template columns, in sheet order.
var (
	ProductColumns  = []string{"nombre", "color", "descripcion", "estado", "precio_base", "precio_uni", "stock"}
	CustomerColumns = []string{"nombre", "telefono", "dni"}
)

// ProductTemplate is the bulk-load workbook with two sample rows.
func ProductTemplate() ([]byte, error) {
	return Excel(Table{
		Sheet:   "Productos",
		Columns: ProductColumns,
		Rows: [][]interface{}{
			{"Hilo Algodón", "Rojo", "Hilo de algodón 100%", "Conos Devanados", 10.50, 12.00, 100},
			{"Hilo Poliéster", "Azul", "Hilo sintético resistente", "Conos Veteados", 8.75, 10.00, 75},
		},
	})
}

// CustomerTemplate is the roster bulk-load workbook with two sample rows.
func CustomerTemplate() ([]byte, error) {
	return Excel(Table{
		Sheet:   "Clientes",
		Columns: CustomerColumns,
		Rows: [][]interface{}{
			{"Juan Pérez", "987654321", "12345678"},
			{"María González", "876543210", "87654321"},
		},
	})
}

// Filename builds a download name like "productos-2024-05-01.xlsx".
func Filename(base, ext string) string {
	return fmt.Sprintf("%s-%s.%s", base, today(), ext)
}
