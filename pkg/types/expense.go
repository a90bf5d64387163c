package types

import (
	"errors"
	"time"
)

// DateLayout is the calendar-date form stored in the expenses table and in
// backup snapshots.
const DateLayout = "2006-01-02"

// AmountEpsilon is the tolerance used when comparing income and expense
// amounts for duplicate detection. Part of the public contract.
const AmountEpsilon = 0.001

// ExpenseRecord is a single row of the expense ledger. Balance is derived,
// never stored. The JSON field names are the backup snapshot wire format.
type ExpenseRecord struct {
	ID          int64   `json:"id"`
	Date        string  `json:"expense_date"`
	Description string  `json:"expense_description"`
	Category    string  `json:"expense_category"`
	Merchant    string  `json:"merchant_name"`
	PaidThrough string  `json:"paid_through"`
	Income      float64 `json:"income_amount"`
	Expense     float64 `json:"expense_amount"`
	ReportName  string  `json:"report_name,omitempty"`
}

// Record validation errors.
var (
	ErrInvalidDate    = errors.New("date must be in YYYY-MM-DD form")
	ErrNegativeAmount = errors.New("amounts must be non-negative")
)

// Balance returns income minus expense.
func (r ExpenseRecord) Balance() float64 {
	return r.Income - r.Expense
}

// Validate checks that the record is well-formed enough to store: a parseable
// calendar date and non-negative amounts.
func (r ExpenseRecord) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	if r.Income < 0 || r.Expense < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// SameEntry reports whether other matches r on date, description, category,
// and merchant exactly, with income and expense within AmountEpsilon. This is
// the duplicate-detection equality used during import and restore.
func (r ExpenseRecord) SameEntry(other ExpenseRecord) bool {
	if r.Date != other.Date || r.Description != other.Description {
		return false
	}
	if r.Category != other.Category || r.Merchant != other.Merchant {
		return false
	}
	return withinEpsilon(r.Income, other.Income) && withinEpsilon(r.Expense, other.Expense)
}

func withinEpsilon(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < AmountEpsilon
}
