// Package store provides the payment store adapter: reading all records from
// one backing location and updating single rows in place.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"fjacquet/payment-reminder/internal/dateutils"
	"fjacquet/payment-reminder/internal/logging"
	"fjacquet/payment-reminder/internal/models"
	"fjacquet/payment-reminder/internal/storeerror"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// RequiredColumns must be present in every record store.
var RequiredColumns = []string{"Name", "Amount", "Due Date", "Status"}

// PaymentStore is the contract the rest of the core depends on. The adapter
// is the sole writer of persisted state; everything else goes through it.
type PaymentStore interface {
	// Location returns the opaque handle of the backing store.
	Location() string
	// City returns the city this store is scoped to.
	City() string
	// ReadAll returns every record in the store in row order.
	ReadAll() ([]models.PaymentRecord, error)
	// UpdateRow persists the changed fields of one row. Either all changed
	// fields land or none do.
	UpdateRow(row int, update RowUpdate) error
}

// RowUpdate names the fields of one row to change. Nil pointers leave the
// stored value untouched.
type RowUpdate struct {
	Amount      *decimal.Decimal
	DueDate     *time.Time
	Status      *models.Status
	Remarks     *string
	PaymentDate *time.Time
}

// paymentRow is the CSV codec for one store row. Column names match the
// store schema; optional columns may be absent from older stores.
type paymentRow struct {
	Name        string `csv:"Name"`
	Amount      string `csv:"Amount"`
	DueDate     string `csv:"Due Date"`
	Email       string `csv:"Email"`
	Status      string `csv:"Status"`
	Remarks     string `csv:"Remarks"`
	PaymentDate string `csv:"Payment Date"`
}

// CSVStore is a PaymentStore backed by one delimited file.
type CSVStore struct {
	location  string
	city      string
	delimiter rune
	logger    logging.Logger
}

// NewCSVStore creates a store adapter for one backing file.
func NewCSVStore(location, city string, delimiter rune, logger logging.Logger) *CSVStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CSVStore{
		location:  location,
		city:      city,
		delimiter: delimiter,
		logger:    logger.WithField(logging.FieldStore, location),
	}
}

// Location returns the path of the backing file.
func (s *CSVStore) Location() string {
	return s.location
}

// City returns the city this store is scoped to.
func (s *CSVStore) City() string {
	return s.city
}

// ReadAll reads every record from the backing file. It fails with a
// StoreReadError when the file is missing, malformed, or lacks required
// columns.
func (s *CSVStore) ReadAll() ([]models.PaymentRecord, error) {
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}

	records := make([]models.PaymentRecord, 0, len(rows))
	for i, row := range rows {
		records = append(records, s.toRecord(i, row))
	}

	s.logger.Debug("Read records from store", logging.F(logging.FieldCount, len(records)))
	return records, nil
}

// UpdateRow applies the changed fields to one row and persists the whole
// store atomically: rows are rewritten to a temporary file in the same
// directory which then replaces the original.
func (s *CSVStore) UpdateRow(row int, update RowUpdate) error {
	rows, err := s.readRows()
	if err != nil {
		return &storeerror.StoreWriteError{
			Location: s.location,
			Row:      row,
			Reason:   storeerror.WriteIOFailure,
			Err:      err,
		}
	}

	if row < 0 || row >= len(rows) {
		return &storeerror.StoreWriteError{
			Location: s.location,
			Row:      row,
			Reason:   storeerror.WriteIOFailure,
			Err:      fmt.Errorf("row index out of range: store has %d rows", len(rows)),
		}
	}

	applyUpdate(&rows[row], update)

	if err := s.writeRows(rows); err != nil {
		return &storeerror.StoreWriteError{
			Location: s.location,
			Row:      row,
			Reason:   writeReason(err),
			Err:      err,
		}
	}

	s.logger.Info("Updated store row", logging.F(logging.FieldRow, row))
	return nil
}

func applyUpdate(row *paymentRow, update RowUpdate) {
	if update.Amount != nil {
		row.Amount = models.FormatAmount(*update.Amount)
	}
	if update.DueDate != nil {
		row.DueDate = dateutils.ToISODate(*update.DueDate)
	}
	if update.Status != nil {
		row.Status = string(*update.Status)
	}
	if update.Remarks != nil {
		row.Remarks = *update.Remarks
	}
	if update.PaymentDate != nil {
		row.PaymentDate = dateutils.ToISODate(*update.PaymentDate)
	}
}

func (s *CSVStore) readRows() ([]paymentRow, error) {
	file, err := os.Open(s.location)
	if err != nil {
		return nil, &storeerror.StoreReadError{
			Location: s.location,
			Reason:   storeerror.ReadIOFailure,
			Err:      err,
		}
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close store file")
		}
	}()

	if err := s.checkColumns(file); err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, &storeerror.StoreReadError{
			Location: s.location,
			Reason:   storeerror.ReadIOFailure,
			Err:      err,
		}
	}

	reader := csv.NewReader(file)
	reader.Comma = s.delimiter

	var rows []paymentRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, &storeerror.StoreReadError{
			Location: s.location,
			Reason:   storeerror.ReadMalformed,
			Err:      err,
		}
	}
	return rows, nil
}

// checkColumns verifies the header row carries every required column.
func (s *CSVStore) checkColumns(file *os.File) error {
	reader := csv.NewReader(file)
	reader.Comma = s.delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return &storeerror.StoreReadError{
			Location: s.location,
			Reason:   storeerror.ReadMalformed,
			Err:      fmt.Errorf("cannot read header row: %w", err),
		}
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &storeerror.StoreReadError{
			Location: s.location,
			Reason:   storeerror.ReadMissingColumns,
			Missing:  missing,
		}
	}
	return nil
}

func (s *CSVStore) writeRows(rows []paymentRow) error {
	dir := filepath.Dir(s.location)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.location)+".tmp*")
	if err != nil {
		return fmt.Errorf("error creating temporary store file: %w", err)
	}
	tmpName := tmp.Name()

	csvWriter := csv.NewWriter(tmp)
	csvWriter.Comma = s.delimiter

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("error writing store data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error finalizing store data: %w", err)
	}

	if err := os.Rename(tmpName, s.location); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error replacing store file: %w", err)
	}
	return nil
}

func (s *CSVStore) toRecord(row int, r paymentRow) models.PaymentRecord {
	record := models.PaymentRecord{
		ID:      models.RecordID{Location: s.location, Row: row},
		City:    s.city,
		Name:    strings.TrimSpace(r.Name),
		Amount:  models.ParseAmount(r.Amount),
		Email:   strings.TrimSpace(r.Email),
		Status:  models.ParseStatus(r.Status),
		Remarks: strings.TrimSpace(r.Remarks),
	}

	if due, err := dateutils.ParseDateOnly(r.DueDate); err == nil {
		record.DueDate = due
	} else if strings.TrimSpace(r.DueDate) != "" {
		s.logger.Warn("Skipping unparseable due date",
			logging.F(logging.FieldRow, row),
			logging.F(logging.FieldDueDate, r.DueDate))
	}

	if paid, err := dateutils.ParseDateOnly(r.PaymentDate); err == nil {
		record.PaymentDate = paid
	}

	return record
}

// writeReason classifies a write failure. A file held open by another
// process surfaces differently per platform; EBUSY and EAGAIN map to Locked.
func writeReason(err error) storeerror.WriteReason {
	if errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EAGAIN) {
		return storeerror.WriteLocked
	}
	return storeerror.WriteIOFailure
}
