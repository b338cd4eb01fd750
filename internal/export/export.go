// Package export renders report artifacts: xlsx workbooks, tabular pdf
// reports, sale receipts and QR codes. It also reads import spreadsheets.
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Table is a titled grid of values. Cells keep their Go type so
// spreadsheets get real numbers; pdf output uses their string form.
type Table struct {
	Title   string
	Sheet   string
	Columns []string
	Rows    [][]interface{}
}

func (t Table) sheetName() string {
	if t.Sheet != "" {
		return t.Sheet
	}
	return "Data"
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.StringFixed(2)
	case time.Time:
		return x.Format("02/01/2006 15:04")
	default:
		return fmt.Sprint(x)
	}
}

func cellValue(v interface{}) interface{} {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return x.InexactFloat64()
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x
	default:
		return v
	}
}
