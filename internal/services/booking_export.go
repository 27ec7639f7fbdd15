package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Lịch sử đặt lịch"

// BookingExportHeader is the first row of the exported workbook.
var BookingExportHeader = []string{
	"Mã đặt lịch",
	"Hồ sơ chăm sóc",
	"Ngày làm việc",
	"Số tiền",
	"Trạng thái",
	"Mã hóa đơn",
}

func (s *bookingService) ExportHistory(ctx context.Context, accountID int64) ([]byte, error) {
	views, err := s.BookingHistory(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return RenderBookingHistory(views)
}

// RenderBookingHistory writes views into an xlsx workbook, one row per booking.
func RenderBookingHistory(views []BookingView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range BookingExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, v := range views {
		invoiceID := ""
		if v.Invoice != nil {
			invoiceID = fmt.Sprintf("%d", v.Invoice.InvoiceID)
		}
		row := []any{
			v.Booking.BookingID,
			v.CareProfileName,
			v.WorkdateLabel,
			v.AmountLabel,
			v.StatusLabel,
			invoiceID,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	widths := []float64{14, 28, 22, 18, 18, 14}
	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, name, name, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
