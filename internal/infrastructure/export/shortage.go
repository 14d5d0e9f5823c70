// Package export renders reports as spreadsheet files.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"repairdesk/internal/domain/shortage"
)

// ContentTypeXLSX is the MIME type of the produced workbooks.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetShortage  = "Shortage"
	sheetBreakdown = "By Shop"
)

var (
	perShopHeader    = []string{"Shop", "Pool / Model", "Parts Type", "Shared", "Members", "Required", "Actual", "Shortage", "Status"}
	cumulativeHeader = []string{"Pool / Model", "Parts Type", "Supplier", "Shared", "Members", "Required", "Actual", "Shortage", "Status"}
	breakdownHeader  = []string{"Pool / Model", "Parts Type", "Supplier", "Shop", "Required", "Actual", "Shortage", "Status"}
)

type styles struct {
	header int
	short  int
}

// ShortageWorkbook renders a shortage report. Cumulative reports get a second
// sheet with the per-shop breakdown of every row.
func ShortageWorkbook(report *shortage.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetShortage)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if report.Cumulative {
		err = writeCumulative(f, st, report)
	} else {
		err = writePerShop(f, st, report)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create header style: %w", err)
	}
	short, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create shortage style: %w", err)
	}
	return styles{header: header, short: short}, nil
}

func writeHeader(f *excelize.File, sheet string, st styles, header []string) error {
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, st.header); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeRow(f *excelize.File, sheet string, st styles, row int, values []any, isShort bool) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	if !isShort {
		return nil
	}
	last, _ := excelize.CoordinatesToCellName(len(values), row)
	return f.SetCellStyle(sheet, cell, last, st.short)
}

func status(isShort bool) string {
	if isShort {
		return "SHORT"
	}
	return "OK"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func writePerShop(f *excelize.File, st styles, report *shortage.Report) error {
	if err := writeHeader(f, sheetShortage, st, perShopHeader); err != nil {
		return err
	}
	for i, r := range report.Rows {
		values := []any{
			r.ShopID, r.UnitKey, string(r.PartsType), yesNo(r.Shared), strings.Join(r.Members, ", "),
			r.TotalRequired, r.TotalActual, r.Shortage, status(r.IsShort),
		}
		if err := writeRow(f, sheetShortage, st, i+2, values, r.IsShort); err != nil {
			return err
		}
	}
	return nil
}

func writeCumulative(f *excelize.File, st styles, report *shortage.Report) error {
	if err := writeHeader(f, sheetShortage, st, cumulativeHeader); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetBreakdown); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeHeader(f, sheetBreakdown, st, breakdownHeader); err != nil {
		return err
	}

	line := 2
	for i, r := range report.Rows {
		values := []any{
			r.UnitKey, string(r.PartsType), r.SupplierID, yesNo(r.Shared), strings.Join(r.Members, ", "),
			r.TotalRequired, r.TotalActual, r.Shortage, status(r.IsShort),
		}
		if err := writeRow(f, sheetShortage, st, i+2, values, r.IsShort); err != nil {
			return err
		}
		for _, shop := range r.Shops {
			values := []any{
				r.UnitKey, string(r.PartsType), r.SupplierID, shop.ShopID,
				shop.TotalRequired, shop.TotalActual, shop.Shortage, status(shop.IsShort),
			}
			if err := writeRow(f, sheetBreakdown, st, line, values, shop.IsShort); err != nil {
				return err
			}
			line++
		}
	}
	return nil
}
