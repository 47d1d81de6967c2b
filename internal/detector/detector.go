// Package detector scans payment stores for records that require attention.
package detector

import (
	"sort"
	"time"

	"fjacquet/payment-reminder/internal/logging"
	"fjacquet/payment-reminder/internal/models"
	"fjacquet/payment-reminder/internal/store"

	"github.com/shopspring/decimal"
)

// Diagnostic reports a store that could not be scanned. Read failures are
// isolated per store: the scan continues and the caller gets the diagnostics
// alongside whatever records the healthy stores produced.
type Diagnostic struct {
	Location string
	Err      error
}

// Detector applies the due rule across a set of stores.
type Detector struct {
	logger logging.Logger
}

// New creates a Detector.
func New(logger logging.Logger) *Detector {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Detector{logger: logger.WithField(logging.FieldComponent, "detector")}
}

// candidate pairs a record with its store discovery index for sorting.
type candidate struct {
	record models.PaymentRecord
	order  int
}

// FindDue returns every record with dueDate <= asOf that is not yet Paid,
// sorted by due date ascending, then store discovery order, then row index.
// The order is a total order, so repeated scans on unchanged data present
// reminders in the same sequence.
func (d *Detector) FindDue(stores []store.PaymentStore, asOf time.Time) ([]models.PaymentRecord, []Diagnostic) {
	candidates, diags := d.collect(stores, func(r models.PaymentRecord) bool {
		return r.IsDue(asOf)
	})

	sortCandidates(candidates)

	records := make([]models.PaymentRecord, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, c.record)
	}

	d.logger.Info("Due scan complete",
		logging.F(logging.FieldCount, len(records)),
		logging.F("diagnostics", len(diags)))
	return records, diags
}

// FindUpcoming returns unsettled records whose due date falls strictly after
// asOf and within daysAhead days, sorted like FindDue.
func (d *Detector) FindUpcoming(stores []store.PaymentStore, asOf time.Time, daysAhead int) ([]models.PaymentRecord, []Diagnostic) {
	horizon := models.DateOnly(asOf).AddDate(0, 0, daysAhead)
	today := models.DateOnly(asOf)

	candidates, diags := d.collect(stores, func(r models.PaymentRecord) bool {
		if r.Status == models.StatusPaid || r.DueDate.IsZero() {
			return false
		}
		due := models.DateOnly(r.DueDate)
		return due.After(today) && !due.After(horizon)
	})

	sortCandidates(candidates)

	records := make([]models.PaymentRecord, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, c.record)
	}
	return records, diags
}

// Summary aggregates payment state across all stores.
type Summary struct {
	TotalPayments    int
	Paid             int
	PartiallyPaid    int
	Unpaid           int
	Overdue          int
	DueToday         int
	Upcoming         int
	TotalOutstanding decimal.Decimal
}

// Summarize walks every store and counts records by status and due state.
func (d *Detector) Summarize(stores []store.PaymentStore, asOf time.Time) (Summary, []Diagnostic) {
	summary := Summary{TotalOutstanding: decimal.Zero}
	var diags []Diagnostic
	today := models.DateOnly(asOf)

	for _, s := range stores {
		records, err := s.ReadAll()
		if err != nil {
			d.logger.WithError(err).Warn("Skipping unreadable store",
				logging.F(logging.FieldStore, s.Location()))
			diags = append(diags, Diagnostic{Location: s.Location(), Err: err})
			continue
		}

		for _, r := range records {
			summary.TotalPayments++
			switch r.Status {
			case models.StatusPaid:
				summary.Paid++
			case models.StatusPartiallyPaid:
				summary.PartiallyPaid++
				summary.TotalOutstanding = summary.TotalOutstanding.Add(r.Outstanding())
			default:
				summary.Unpaid++
				summary.TotalOutstanding = summary.TotalOutstanding.Add(r.Outstanding())
			}

			if r.Status == models.StatusPaid || r.DueDate.IsZero() {
				continue
			}
			due := models.DateOnly(r.DueDate)
			switch {
			case due.Before(today):
				summary.Overdue++
			case due.Equal(today):
				summary.DueToday++
			default:
				summary.Upcoming++
			}
		}
	}

	return summary, diags
}

func (d *Detector) collect(stores []store.PaymentStore, keep func(models.PaymentRecord) bool) ([]candidate, []Diagnostic) {
	var candidates []candidate
	var diags []Diagnostic

	for i, s := range stores {
		records, err := s.ReadAll()
		if err != nil {
			d.logger.WithError(err).Warn("Skipping unreadable store",
				logging.F(logging.FieldStore, s.Location()))
			diags = append(diags, Diagnostic{Location: s.Location(), Err: err})
			continue
		}

		for _, r := range records {
			if keep(r) {
				candidates = append(candidates, candidate{record: r, order: i})
			}
		}
	}

	return candidates, diags
}

// sortCandidates orders by (due date asc, store discovery order, row index).
// Ties are never left to map or scan randomness.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.record.DueDate.Equal(b.record.DueDate) {
			return a.record.DueDate.Before(b.record.DueDate)
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.record.ID.Row < b.record.ID.Row
	})
}
