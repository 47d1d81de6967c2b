// Package common provides shared functionality for the command layer.
package common

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"fjacquet/payment-reminder/internal/dateutils"
	"fjacquet/payment-reminder/internal/models"
	"fjacquet/payment-reminder/internal/session"

	"github.com/shopspring/decimal"
)

// TerminalPresenter implements session.Presenter on a line-based terminal.
// Each reminder is printed and the user is prompted until they choose pay,
// reschedule, or defer; there is no way to drop a reminder silently.
type TerminalPresenter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTerminalPresenter creates a presenter reading decisions from in and
// writing prompts to out.
func NewTerminalPresenter(in io.Reader, out io.Writer) *TerminalPresenter {
	return &TerminalPresenter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Present renders one reminder and blocks until the user answers.
func (p *TerminalPresenter) Present(ctx context.Context, n session.Notification) (session.Response, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "=== Payment Reminder ===")
	fmt.Fprintf(p.out, "Client:      %s (%s)\n", n.Name, n.City)
	fmt.Fprintf(p.out, "Outstanding: $%s\n", n.Outstanding.StringFixed(2))
	fmt.Fprintf(p.out, "Due date:    %s (%d days overdue, priority %s)\n",
		dateutils.ToISODate(n.DueDate), n.DaysOverdue, n.Priority)
	if n.Remarks != "" {
		fmt.Fprintf(p.out, "Remarks:     %s\n", n.Remarks)
	}
	if n.LastError != "" {
		fmt.Fprintf(p.out, "!! Previous attempt failed: %s\n", n.LastError)
	}

	for {
		if err := ctx.Err(); err != nil {
			return session.Response{}, err
		}

		answer, err := p.prompt("[p]ay, [r]eschedule, or [d]efer? ")
		if err != nil {
			return session.Response{}, err
		}

		switch strings.ToLower(answer) {
		case "p", "pay":
			decision, err := p.promptPay(n)
			if err != nil {
				return session.Response{}, err
			}
			return session.Response{Action: session.ActionPay, Decision: decision}, nil
		case "r", "reschedule":
			decision, err := p.promptReschedule()
			if err != nil {
				return session.Response{}, err
			}
			return session.Response{Action: session.ActionReschedule, Decision: decision}, nil
		case "d", "defer":
			return session.Response{Action: session.ActionDefer}, nil
		default:
			fmt.Fprintf(p.out, "Please answer p, r, or d.\n")
		}
	}
}

func (p *TerminalPresenter) promptPay(n session.Notification) (models.Decision, error) {
	for {
		answer, err := p.prompt(fmt.Sprintf("Amount paid (outstanding $%s): ", n.Outstanding.StringFixed(2)))
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(strings.TrimPrefix(answer, "$"))
		if err != nil {
			fmt.Fprintf(p.out, "Not a valid amount: %s\n", answer)
			continue
		}
		note, err := p.prompt("Note (optional): ")
		if err != nil {
			return nil, err
		}
		return models.PayDecision{AmountPaid: amount, Note: note}, nil
	}
}

func (p *TerminalPresenter) promptReschedule() (models.Decision, error) {
	for {
		answer, err := p.prompt("New due date (YYYY-MM-DD): ")
		if err != nil {
			return nil, err
		}
		newDue, err := dateutils.ParseDateOnly(answer)
		if err != nil {
			fmt.Fprintf(p.out, "Not a valid date: %s\n", answer)
			continue
		}
		remark, err := p.prompt("Remark (optional): ")
		if err != nil {
			return nil, err
		}
		return models.RescheduleDecision{NewDueDate: newDue, Remark: remark}, nil
	}
}

func (p *TerminalPresenter) prompt(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// PrintSummary renders a cycle summary.
func PrintSummary(out io.Writer, summary session.CycleSummary) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Check cycle for %s:\n", dateutils.ToISODate(summary.AsOf))
	fmt.Fprintf(out, "  due found:      %d\n", summary.DueFound)
	fmt.Fprintf(out, "  paid in full:   %d\n", summary.Paid)
	fmt.Fprintf(out, "  partially paid: %d\n", summary.PartiallyPaid)
	fmt.Fprintf(out, "  rescheduled:    %d\n", summary.Rescheduled)
	fmt.Fprintf(out, "  deferred:       %d\n", summary.Deferred)
	fmt.Fprintf(out, "  failed:         %d\n", summary.Failed)
	if summary.Aborted {
		fmt.Fprintln(out, "  (cycle aborted before draining; summary is incomplete)")
	}
	for _, diag := range summary.Diagnostics {
		fmt.Fprintf(out, "  warning: %s could not be scanned: %v\n", diag.Location, diag.Err)
	}
}
