package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// AnalyticsRow is one line of the analytics workbook.
type AnalyticsRow struct {
	StoreNumber      string
	StoreName        string
	Month            string
	SalesTrend       float64
	StaffPerformance float64
	GoalProgress     float64
}

// BuildAnalyticsWorkbook renders analytics rows as an XLSX download.
func BuildAnalyticsWorkbook(rows []AnalyticsRow) (*Result, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Analytics"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Store #", "Store Name", "Month", "Sales Trend", "Staff Performance", "Goal Progress"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"EFEFEF"}, Pattern: 1},
	})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, headerStyle)
	}

	for i, row := range rows {
		values := []any{row.StoreNumber, row.StoreName, row.Month, row.SalesTrend, row.StaffPerformance, row.GoalProgress}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("set cell: %w", err)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 18)
	_ = f.SetColWidth(sheet, "C", "F", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Filename: "store-analytics.xlsx",
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}
