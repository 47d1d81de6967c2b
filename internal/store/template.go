package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/payment-reminder/internal/dateutils"
	"fjacquet/payment-reminder/internal/fileutils"
	"fjacquet/payment-reminder/internal/models"

	"github.com/gocarina/gocsv"
)

// CreateTemplate writes a new record store containing the full column set
// and one sample row demonstrating the expected format.
func CreateTemplate(path string, delimiter rune) error {
	if fileutils.FileExists(path) {
		return fmt.Errorf("file already exists: %s", path)
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}

	rows := []paymentRow{{
		Name:    "John Doe",
		Amount:  "1000.00",
		DueDate: dateutils.ToISODate(models.DateOnly(time.Now())),
		Email:   "john.doe@example.com",
		Status:  string(models.StatusUnpaid),
		Remarks: "Initial invoice",
	}}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating template file: %w", err)
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		_ = file.Close()
		return fmt.Errorf("error writing template file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error finalizing template file: %w", err)
	}
	return nil
}
