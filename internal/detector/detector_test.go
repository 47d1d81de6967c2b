package detector

import (
	"errors"
	"testing"
	"time"

	"fjacquet/payment-reminder/internal/logging"
	"fjacquet/payment-reminder/internal/models"
	"fjacquet/payment-reminder/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(path string, row int, name string, amount int64, due time.Time, status models.Status) models.PaymentRecord {
	return models.PaymentRecord{
		ID:      models.RecordID{Location: path, Row: row},
		Name:    name,
		Amount:  decimal.NewFromInt(amount),
		DueDate: due,
		Status:  status,
	}
}

func TestFindDueAppliesDueRule(t *testing.T) {
	asOf := date(2024, 1, 15)
	mock := &store.MockStore{Path: "north/clients.csv", CityName: "North", Records: []models.PaymentRecord{
		record("north/clients.csv", 0, "Overdue", 500, date(2024, 1, 1), models.StatusUnpaid),
		record("north/clients.csv", 1, "DueToday", 100, asOf, models.StatusPartiallyPaid),
		record("north/clients.csv", 2, "Future", 200, date(2024, 1, 16), models.StatusUnpaid),
		record("north/clients.csv", 3, "Settled", 0, date(2024, 1, 1), models.StatusPaid),
		record("north/clients.csv", 4, "NoDate", 300, time.Time{}, models.StatusUnpaid),
	}}

	d := New(logging.NewMockLogger())
	due, diags := d.FindDue([]store.PaymentStore{mock}, asOf)

	require.Empty(t, diags)
	require.Len(t, due, 2)
	assert.Equal(t, "Overdue", due[0].Name)
	assert.Equal(t, "DueToday", due[1].Name)
}

func TestFindDueOrderIsTotal(t *testing.T) {
	asOf := date(2024, 1, 15)
	jan1 := date(2024, 1, 1)
	jan5 := date(2024, 1, 5)

	first := &store.MockStore{Path: "east/clients.csv", Records: []models.PaymentRecord{
		record("east/clients.csv", 0, "EastLate", 100, jan5, models.StatusUnpaid),
		record("east/clients.csv", 1, "EastEarlyB", 100, jan1, models.StatusUnpaid),
		record("east/clients.csv", 2, "EastEarlyC", 100, jan1, models.StatusUnpaid),
	}}
	second := &store.MockStore{Path: "west/clients.csv", Records: []models.PaymentRecord{
		record("west/clients.csv", 0, "WestEarly", 100, jan1, models.StatusUnpaid),
	}}

	d := New(logging.NewMockLogger())
	stores := []store.PaymentStore{first, second}

	due, diags := d.FindDue(stores, asOf)
	require.Empty(t, diags)

	names := make([]string, len(due))
	for i, r := range due {
		names[i] = r.Name
	}
	// Due date ascending, then store discovery order, then row index.
	assert.Equal(t, []string{"EastEarlyB", "EastEarlyC", "WestEarly", "EastLate"}, names)

	// Repeated scans over unchanged data yield the same sequence.
	again, _ := d.FindDue(stores, asOf)
	assert.Equal(t, due, again)
}

func TestFindDueIsolatesStoreFailures(t *testing.T) {
	asOf := date(2024, 1, 15)
	broken := &store.MockStore{Path: "north/broken.csv", ReadErr: errors.New("corrupt header")}
	healthy := &store.MockStore{Path: "south/clients.csv", Records: []models.PaymentRecord{
		record("south/clients.csv", 0, "Acme", 500, date(2024, 1, 1), models.StatusUnpaid),
	}}

	d := New(logging.NewMockLogger())
	due, diags := d.FindDue([]store.PaymentStore{broken, healthy}, asOf)

	require.Len(t, due, 1)
	assert.Equal(t, "Acme", due[0].Name)
	require.Len(t, diags, 1)
	assert.Equal(t, "north/broken.csv", diags[0].Location)
	assert.Error(t, diags[0].Err)
}

func TestFindUpcomingWindow(t *testing.T) {
	asOf := date(2024, 1, 15)
	mock := &store.MockStore{Path: "north/clients.csv", Records: []models.PaymentRecord{
		record("north/clients.csv", 0, "DueToday", 100, asOf, models.StatusUnpaid),
		record("north/clients.csv", 1, "Tomorrow", 100, date(2024, 1, 16), models.StatusUnpaid),
		record("north/clients.csv", 2, "EdgeOfWindow", 100, date(2024, 1, 22), models.StatusUnpaid),
		record("north/clients.csv", 3, "PastWindow", 100, date(2024, 1, 23), models.StatusUnpaid),
		record("north/clients.csv", 4, "SettledSoon", 0, date(2024, 1, 16), models.StatusPaid),
	}}

	d := New(logging.NewMockLogger())
	upcoming, diags := d.FindUpcoming([]store.PaymentStore{mock}, asOf, 7)

	require.Empty(t, diags)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Tomorrow", upcoming[0].Name)
	assert.Equal(t, "EdgeOfWindow", upcoming[1].Name)
}

func TestSummarize(t *testing.T) {
	asOf := date(2024, 1, 15)
	mock := &store.MockStore{Path: "north/clients.csv", Records: []models.PaymentRecord{
		record("north/clients.csv", 0, "Overdue", 500, date(2024, 1, 1), models.StatusUnpaid),
		record("north/clients.csv", 1, "DueToday", 300, asOf, models.StatusPartiallyPaid),
		record("north/clients.csv", 2, "Soon", 200, date(2024, 1, 20), models.StatusUnpaid),
		record("north/clients.csv", 3, "Settled", 0, date(2024, 1, 1), models.StatusPaid),
	}}

	d := New(logging.NewMockLogger())
	summary, diags := d.Summarize([]store.PaymentStore{mock}, asOf)

	require.Empty(t, diags)
	assert.Equal(t, 4, summary.TotalPayments)
	assert.Equal(t, 1, summary.Paid)
	assert.Equal(t, 1, summary.PartiallyPaid)
	assert.Equal(t, 2, summary.Unpaid)
	assert.Equal(t, 1, summary.Overdue)
	assert.Equal(t, 1, summary.DueToday)
	assert.Equal(t, 1, summary.Upcoming)
	assert.True(t, summary.TotalOutstanding.Equal(decimal.NewFromInt(1000)),
		"outstanding sums unpaid and partially paid balances")
}
