package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"golife/domain/core"
	"golife/domain/life"
	"golife/internal"
	"golife/ports"
)

var _ ports.DatasetReader = (*DataReader)(nil)

// DataReader loads a life dataset from an Excel or CSV file. The expected
// layout is a header row followed by one observation per row: column A the
// time, column B the status (F/failure or S/suspension; blank means
// failure). Validation beyond parsing belongs to the domain constructors.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// Read parses the file into a validated dataset.
func (r *DataReader) Read(path string) (life.Dataset, error) {
	reader := NewDataReader(path)
	return reader.ReadDataset()
}

// ReadDataset reads the configured file.
func (r *DataReader) ReadDataset() (life.Dataset, error) {
	internal.DefaultLogger.Debug("reading %s life data from %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return life.Dataset{}, core.NewIncompatibleInputError(
			fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return life.Dataset{}, core.NewIncompatibleInputError("unsupported file type: " + r.fileType)
	}
}

func (r *DataReader) readExcel() (life.Dataset, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return life.Dataset{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return life.Dataset{}, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return r.processRows(rows)
}

func (r *DataReader) readCSV() (life.Dataset, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return life.Dataset{}, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return life.Dataset{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	return r.processRows(records)
}

func (r *DataReader) processRows(rows [][]string) (life.Dataset, error) {
	if len(rows) < 2 {
		return life.Dataset{}, core.NewIncompatibleInputError(
			"file must have a header row and at least one observation")
	}

	obs := make([]life.Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return life.Dataset{}, core.NewDomainErrorf("time", "row %d: %q is not numeric", i+2, row[0])
		}
		kind := life.EventFailure
		if len(row) > 1 {
			kind, err = parseStatus(row[1])
			if err != nil {
				return life.Dataset{}, core.NewDomainErrorf("status", "row %d: %v", i+2, err)
			}
		}
		obs = append(obs, life.Observation{Time: t, Event: kind})
	}

	ds, err := life.NewDataset(obs)
	if err != nil {
		return life.Dataset{}, err
	}
	internal.DefaultLogger.Info("loaded %d observations (%d failures, %d suspensions)",
		ds.Len(), ds.FailureCount(), ds.SuspensionCount())
	return ds, nil
}

func parseStatus(s string) (life.EventKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "f", "failure", "failed", "1":
		return life.EventFailure, nil
	case "s", "suspension", "suspended", "censored", "0":
		return life.EventSuspension, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}
