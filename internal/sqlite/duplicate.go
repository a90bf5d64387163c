package sqlite

import (
	"fmt"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

// IsDuplicate reports whether an equivalent record already exists in the
// active database: exact match on date, description, category, and merchant,
// with income and expense within types.AmountEpsilon. Used during import and
// restore only; manual re-entry is trusted.
func (s *Store) IsDuplicate(candidate types.ExpenseRecord) (bool, error) {
	db, err := s.handle()
	if err != nil {
		return false, err
	}

	rows, err := db.Query(
		`SELECT `+expenseColumns+` FROM expenses
         WHERE expense_date = ? AND expense_description = ?
           AND expense_category = ? AND merchant_name = ?`,
		candidate.Date, candidate.Description, candidate.Category, candidate.Merchant,
	)
	if err != nil {
		return false, fmt.Errorf("querying duplicate candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		existing, err := scanExpense(rows)
		if err != nil {
			return false, fmt.Errorf("scanning duplicate candidate: %w", err)
		}
		if existing.SameEntry(candidate) {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterating duplicate candidates: %w", err)
	}
	return false, nil
}
