package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"photoshoot-bot/internal/domain"
)

const reportSheet = "Orders"

var reportHeaders = []string{
	"ID", "Created At", "User ID", "Type", "Starts At", "Hours",
	"Hour Price", "Price", "Promotions", "Cancelled",
}

// ExportOrders writes every order to an .xlsx file in dir and returns its path.
func (s *PostgresStorage) ExportOrders(ctx context.Context, dir string, loc *time.Location) (string, error) {
	const operation = "storage.ExportOrders"

	orders, err := s.AllOrders(ctx)
	if err != nil {
		return "", err
	}

	f, err := OrdersReport(orders, loc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", operation, err)
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: failed to create reports directory: %w", operation, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("orders_%s.xlsx", time.Now().In(loc).Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("%s: failed to save Excel file: %w", operation, err)
	}
	return path, nil
}

// OrdersReport builds the workbook of the orders report.
func OrdersReport(orders []domain.Order, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(reportSheet, cell, header)
	}

	for row, o := range orders {
		data := []interface{}{
			o.ID.String(),
			o.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			o.UserID.String(),
			o.Type.Name(),
			o.Interval.Start.In(loc).Format("2006-01-02 15:04"),
			o.Interval.Duration.Hours(),
			o.HourPrice,
			o.Price,
			len(o.Promotions),
			o.IsCancelled,
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(reportSheet, cell, value)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(reportHeaders), 1)
		f.SetCellStyle(reportSheet, "A1", last, style)
	}

	return f, nil
}
