package common

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"fjacquet/payment-reminder/internal/models"
	"fjacquet/payment-reminder/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notification() session.Notification {
	return session.Notification{
		Record:      models.RecordID{Location: "north/clients.csv", Row: 0},
		Name:        "Acme Corp",
		City:        "North",
		Outstanding: decimal.NewFromInt(500),
		DueDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DaysOverdue: 14,
		Priority:    models.PriorityMedium,
		Allowed:     []session.Action{session.ActionPay, session.ActionReschedule, session.ActionDefer},
	}
}

func present(t *testing.T, input string, n session.Notification) (session.Response, string, error) {
	t.Helper()
	var out bytes.Buffer
	p := NewTerminalPresenter(strings.NewReader(input), &out)
	resp, err := p.Present(context.Background(), n)
	return resp, out.String(), err
}

func TestPresentPay(t *testing.T) {
	resp, output, err := present(t, "p\n200\nwire transfer\n", notification())
	require.NoError(t, err)

	assert.Equal(t, session.ActionPay, resp.Action)
	decision, ok := resp.Decision.(models.PayDecision)
	require.True(t, ok)
	assert.True(t, decision.AmountPaid.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "wire transfer", decision.Note)

	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "$500.00")
	assert.Contains(t, output, "14 days overdue")
}

func TestPresentPayWithDollarSign(t *testing.T) {
	resp, _, err := present(t, "pay\n$150.50\n\n", notification())
	require.NoError(t, err)

	decision := resp.Decision.(models.PayDecision)
	assert.True(t, decision.AmountPaid.Equal(decimal.NewFromFloat(150.50)))
	assert.Empty(t, decision.Note)
}

func TestPresentReschedule(t *testing.T) {
	resp, _, err := present(t, "r\n2024-02-01\nclient asked for time\n", notification())
	require.NoError(t, err)

	assert.Equal(t, session.ActionReschedule, resp.Action)
	decision, ok := resp.Decision.(models.RescheduleDecision)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), decision.NewDueDate)
	assert.Equal(t, "client asked for time", decision.Remark)
}

func TestPresentDefer(t *testing.T) {
	resp, _, err := present(t, "d\n", notification())
	require.NoError(t, err)
	assert.Equal(t, session.ActionDefer, resp.Action)
	assert.Nil(t, resp.Decision)
}

func TestPresentRepromptsOnBadInput(t *testing.T) {
	resp, output, err := present(t, "x\nq\np\nabc\n200\n\n", notification())
	require.NoError(t, err)

	assert.Equal(t, session.ActionPay, resp.Action)
	assert.Contains(t, output, "Please answer p, r, or d.")
	assert.Contains(t, output, "Not a valid amount: abc")
}

func TestPresentRepromptsOnBadDate(t *testing.T) {
	resp, output, err := present(t, "r\nsoon\n2024-02-01\n\n", notification())
	require.NoError(t, err)
	assert.Equal(t, session.ActionReschedule, resp.Action)
	assert.Contains(t, output, "Not a valid date: soon")
}

func TestPresentEOF(t *testing.T) {
	_, _, err := present(t, "", notification())
	assert.ErrorIs(t, err, io.EOF)
}

func TestPresentCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	p := NewTerminalPresenter(strings.NewReader("p\n"), &out)
	_, err := p.Present(ctx, notification())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPresentShowsLastError(t *testing.T) {
	n := notification()
	n.LastError = "store north/clients.csv: update of row 0 failed"

	_, output, err := present(t, "d\n", n)
	require.NoError(t, err)
	assert.Contains(t, output, "!! Previous attempt failed")
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	PrintSummary(&out, session.CycleSummary{
		AsOf:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		DueFound:      3,
		Paid:          1,
		PartiallyPaid: 1,
		Deferred:      1,
	})

	text := out.String()
	assert.Contains(t, text, "2024-01-15")
	assert.Contains(t, text, "due found:      3")
	assert.NotContains(t, text, "aborted")
}
