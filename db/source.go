package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"students-api-go/models"
)

const (
	DefaultSourceLocation  = "students.csv"      // Relative to the deployment root
	fallbackSourceLocation = "data/students.csv" // Tried when the default is missing

	studentIDColumn = "studentId"
	classColumn     = "class"
)

// ErrSourceUnavailable is returned when the tabular source cannot be opened
// or its header cannot be read.
var ErrSourceUnavailable = errors.New("source unavailable")

// LoaderFunc loads the full ordered dataset from a source location
type LoaderFunc func(ctx context.Context, location string) ([]models.StudentRecord, error)

// ResolveLocation returns the location to load. An empty location means the
// default; when the default file is missing, the fallback under data/ is used
// if it exists.
func ResolveLocation(location string) string {
	if location == "" {
		location = DefaultSourceLocation
	}
	if location != DefaultSourceLocation {
		return location
	}
	if _, err := os.Stat(location); err == nil {
		return location
	}
	if _, err := os.Stat(fallbackSourceLocation); err == nil {
		return fallbackSourceLocation
	}
	return location
}

// Load reads the dataset at location, in source row order.
// Supported locations: a local .csv/.xlsx path, s3://bucket/key and
// redis://host:port/db?key=name.
func Load(ctx context.Context, location string) ([]models.StudentRecord, error) {
	location = ResolveLocation(location)

	switch {
	case isS3Location(location):
		return LoadS3(ctx, location)
	case isRedisLocation(location):
		return loadRedisLocation(ctx, location)
	default:
		return LoadFile(location)
	}
}

// LoadFile reads a local CSV or Excel file
func LoadFile(path string) ([]models.StudentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	return decode(path, f)
}

// decode picks the reader from the file extension of name
func decode(name string, r io.Reader) ([]models.StudentRecord, error) {
	if isExcelFile(name) {
		return ReadExcel(r)
	}
	return ReadCSV(r)
}

func isExcelFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	}
	return false
}

// IsLocalFile reports whether location names a file on disk rather than
// an s3:// or redis:// source
func IsLocalFile(location string) bool {
	return !isS3Location(location) && !isRedisLocation(location)
}

// rowsToRecords maps a header row plus data rows onto StudentRecords.
// Columns are matched by header name, the last one winning when a name
// repeats; missing cells read as "".
func rowsToRecords(rows [][]string) ([]models.StudentRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrSourceUnavailable)
	}

	idCol, classCol := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case studentIDColumn:
			idCol = i
		case classColumn:
			classCol = i
		}
	}
	if idCol < 0 || classCol < 0 {
		return nil, fmt.Errorf("%w: header %q must contain %q and %q columns",
			ErrSourceUnavailable, rows[0], studentIDColumn, classColumn)
	}

	records := make([]models.StudentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		records = append(records, models.StudentRecord{
			StudentID: models.ParseStudentID(cell(row, idCol)),
			Class:     cell(row, classCol),
		})
	}
	return records, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
