// Package flatfile reads and writes the flat tabular export format of the
// expense ledger. The wire contract is fixed: the header row below, every
// text field enclosed in double quotes with embedded quotes doubled, and
// numeric fields bare. The writer is hand-rolled because encoding/csv only
// quotes when forced to; the parser is built on encoding/csv, which accepts
// both quoted and bare fields.
package flatfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

// Header is the exact header row of the flat export format.
const Header = "Expense Date,Expense Description,Expense Category,Merchant Name,Paid Through,Income Amount,Expense Amount,Report Name"

// Parse errors.
var (
	ErrBadHeader = errors.New("unexpected header row")
)

// headerFields is Header split on commas, for header validation.
var headerFields = strings.Split(Header, ",")

// WriteFlat serializes records to w in the flat export format.
func WriteFlat(w io.Writer, records []types.ExpenseRecord) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := strings.Join([]string{
			quote(r.Date),
			quote(r.Description),
			quote(r.Category),
			quote(r.Merchant),
			quote(r.PaidThrough),
			formatAmount(r.Income),
			formatAmount(r.Expense),
			quote(r.ReportName),
		}, ",")
		if _, err := io.WriteString(w, row+"\n"); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return nil
}

// ExportFlat serializes records to a byte slice in the flat export format.
func ExportFlat(records []types.ExpenseRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFlat(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseFlat reads the flat export format and returns the records it holds.
// Record IDs are left unset; they are assigned on insert.
func ParseFlat(r io.Reader) ([]types.ExpenseRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(headerFields)

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrBadHeader
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, want := range headerFields {
		if header[i] != want {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i, header[i], want)
		}
	}

	var records []types.ExpenseRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		income, err := parseAmount(row[5])
		if err != nil {
			return nil, fmt.Errorf("row %d income: %w", line, err)
		}
		expense, err := parseAmount(row[6])
		if err != nil {
			return nil, fmt.Errorf("row %d expense: %w", line, err)
		}

		records = append(records, types.ExpenseRecord{
			Date:        row[0],
			Description: row[1],
			Category:    row[2],
			Merchant:    row[3],
			PaidThrough: row[4],
			Income:      income,
			Expense:     expense,
			ReportName:  row[7],
		})
	}
	return records, nil
}

// quote encloses a text field in double quotes, doubling embedded quotes.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// formatAmount renders a numeric field bare, with the shortest representation
// that round-trips.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return v, nil
}
