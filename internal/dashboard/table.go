package dashboard

import (
	"fmt"
	"strconv"

	"github.com/user/sentineldash/internal/model"
)

const (
	// NoDataText fills the single fallback row of an empty table.
	NoDataText = "No data available."
	// MissingCell replaces absent values.
	MissingCell = "-"
	// DefaultFallbackColumns is the span of the fallback row.
	DefaultFallbackColumns = 5
)

// RenderTable replaces the surface content with rows. An empty input yields
// one row holding NoDataText across fallbackColumns columns. Row order is
// kept as given.
func RenderTable(surface TableSurface, rows [][]any, fallbackColumns int) {
	if fallbackColumns <= 0 {
		fallbackColumns = DefaultFallbackColumns
	}

	if len(rows) == 0 {
		surface.ReplaceRows([]TableRow{{
			Cells: []TableCell{{Text: NoDataText, Span: fallbackColumns}},
		}})
		return
	}

	out := make([]TableRow, 0, len(rows))
	for _, row := range rows {
		cells := make([]TableCell, 0, len(row))
		for _, value := range row {
			cells = append(cells, TableCell{Text: FormatCell(value), Span: 1})
		}
		out = append(out, TableRow{Cells: cells})
	}
	surface.ReplaceRows(out)
}

// FormatCell renders one value. Nil, including typed nil pointers, becomes
// MissingCell; empty strings stay empty.
func FormatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return MissingCell
	case string:
		return v
	case *string:
		if v == nil {
			return MissingCell
		}
		return *v
	case int:
		return strconv.Itoa(v)
	case *int:
		if v == nil {
			return MissingCell
		}
		return strconv.Itoa(*v)
	case float64:
		return model.FormatNumber(v)
	case *float64:
		if v == nil {
			return MissingCell
		}
		return model.FormatNumber(*v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
