package flatfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

func TestWriteFlatFormat(t *testing.T) {
	records := []types.ExpenseRecord{
		{
			Date:        "2024-03-05",
			Description: `Coffee "to go"`,
			Category:    "Food",
			Merchant:    "Cafe",
			PaidThrough: "Card",
			Expense:     4.5,
			ReportName:  "March",
		},
	}

	out, err := ExportFlat(records)
	if err != nil {
		t.Fatalf("ExportFlat: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != Header {
		t.Errorf("header = %q", lines[0])
	}
	want := `"2024-03-05","Coffee ""to go""","Food","Cafe","Card",0,4.5,"March"`
	if lines[1] != want {
		t.Errorf("row = %q\nwant %q", lines[1], want)
	}
}

func TestParseFlatRejectsBadHeader(t *testing.T) {
	_, err := ParseFlat(strings.NewReader("Date,Amount\n"))
	if !errors.Is(err, ErrBadHeader) {
		t.Errorf("ParseFlat = %v, want ErrBadHeader", err)
	}

	_, err = ParseFlat(strings.NewReader(""))
	if !errors.Is(err, ErrBadHeader) {
		t.Errorf("ParseFlat on empty input = %v, want ErrBadHeader", err)
	}
}

func TestRoundTrip(t *testing.T) {
	in := []types.ExpenseRecord{
		{Date: "2024-03-05", Description: "Coffee", Category: "Food", Merchant: "Cafe", PaidThrough: "Cash", Expense: 4.5},
		{Date: "2024-03-06", Description: `He said "hi", twice`, Category: "Misc", Merchant: "Shop, Inc.", Income: 10.25},
		{Date: "2024-03-07", Description: "Refund", Income: 99.99, Expense: 0.01, ReportName: "Q1"},
	}

	out, err := ExportFlat(in)
	if err != nil {
		t.Fatalf("ExportFlat: %v", err)
	}
	back, err := ParseFlat(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("ParseFlat: %v", err)
	}

	if len(back) != len(in) {
		t.Fatalf("round trip count = %d, want %d", len(back), len(in))
	}
	for i := range in {
		if back[i] != in[i] {
			t.Errorf("record %d mismatch:\n got %+v\nwant %+v", i, back[i], in[i])
		}
	}
}

func TestParseFlatRejectsMalformedAmount(t *testing.T) {
	input := Header + "\n" + `"2024-03-05","Coffee","Food","Cafe","Cash",zero,4.5,""` + "\n"
	if _, err := ParseFlat(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}
