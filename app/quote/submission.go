package quote

import (
	"context"
	"errors"
	"strings"
)

// Rejection reasons.
var (
	ErrEmptyQuote          = errors.New("empty quote")
	ErrMissingCustomerName = errors.New("missing customer name")
)

// RejectedError is returned when a ledger is not ready to be submitted.
type RejectedError struct {
	Reason error
}

func (e *RejectedError) Error() string { return e.Reason.Error() }

func (e *RejectedError) Unwrap() error { return e.Reason }

// SubmissionServiceError is returned when the order system failed. Message
// is the order system's own message.
type SubmissionServiceError struct {
	Message string
	Err     error
}

func (e *SubmissionServiceError) Error() string { return e.Message }

func (e *SubmissionServiceError) Unwrap() error { return e.Err }

// Submission is what the order system receives.
type Submission struct {
	Customer CustomerRecord `json:"customer"`
	Items    []Item         `json:"items"`
}

// OrderSystem turns a submission into a quotation and returns its identifier.
type OrderSystem interface {
	SubmitQuote(ctx context.Context, s Submission) (string, error)
}

// PrepareSubmission checks the ledger has items and a customer name and
// returns a copy of them.
func PrepareSubmission(l *Ledger) (Submission, error) {
	customer, items := l.snapshot()
	if len(items) == 0 {
		return Submission{}, &RejectedError{Reason: ErrEmptyQuote}
	}
	if strings.TrimSpace(customer.Name) == "" {
		return Submission{}, &RejectedError{Reason: ErrMissingCustomerName}
	}
	return Submission{Customer: customer, Items: items}, nil
}

// Submit prepares the ledger and hands it to the order system once. The
// ledger is not modified, whatever the outcome.
func Submit(ctx context.Context, l *Ledger, orders OrderSystem) (string, error) {
	s, err := PrepareSubmission(l)
	if err != nil {
		return "", err
	}
	id, err := orders.SubmitQuote(ctx, s)
	if err != nil {
		return "", &SubmissionServiceError{Message: err.Error(), Err: err}
	}
	return id, nil
}
