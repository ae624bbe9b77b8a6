package db

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"students-api-go/models"
)

var bom = []byte{0xef, 0xbb, 0xbf}

// ReadCSV parses a header-delimited CSV stream. A leading UTF-8 BOM is
// ignored, rows may have fewer fields than the header, and stray quotes
// inside a field are kept as literal characters.
func ReadCSV(r io.Reader) ([]models.StudentRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %w", ErrSourceUnavailable, err)
	}
	data = bytes.TrimPrefix(data, bom)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %w", ErrSourceUnavailable, err)
	}
	return rowsToRecords(rows)
}
