package store

import (
	"fjacquet/payment-reminder/internal/models"
)

// MockStore is an in-memory PaymentStore for tests. It counts writes so
// tests can assert that validation failures never touch the store.
type MockStore struct {
	Path       string
	CityName   string
	Records    []models.PaymentRecord
	ReadErr    error
	WriteErr   error
	WriteCount int
}

// Location returns the mock store's handle.
func (m *MockStore) Location() string { return m.Path }

// City returns the mock store's city.
func (m *MockStore) City() string { return m.CityName }

// ReadAll returns a copy of the in-memory records, or ReadErr when set.
func (m *MockStore) ReadAll() ([]models.PaymentRecord, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	out := make([]models.PaymentRecord, len(m.Records))
	copy(out, m.Records)
	return out, nil
}

// UpdateRow applies the update in memory, or returns WriteErr when set.
// Failed writes still increment WriteCount so tests can distinguish
// "rejected before write" from "write attempted and failed".
func (m *MockStore) UpdateRow(row int, update RowUpdate) error {
	m.WriteCount++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	r := &m.Records[row]
	if update.Amount != nil {
		r.Amount = *update.Amount
	}
	if update.DueDate != nil {
		r.DueDate = *update.DueDate
	}
	if update.Status != nil {
		r.Status = *update.Status
	}
	if update.Remarks != nil {
		r.Remarks = *update.Remarks
	}
	if update.PaymentDate != nil {
		r.PaymentDate = *update.PaymentDate
	}
	return nil
}
