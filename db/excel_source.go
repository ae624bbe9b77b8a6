package db

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"students-api-go/models"
)

// ReadExcel reads the first sheet of an Excel workbook. Row 1 is the header.
func ReadExcel(r io.Reader) ([]models.StudentRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open excel: %w", ErrSourceUnavailable, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("closing excel workbook", "err", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: excel file does not contain any sheets", ErrSourceUnavailable)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: read rows from sheet %s: %w", ErrSourceUnavailable, sheetName, err)
	}
	return rowsToRecords(rows)
}
