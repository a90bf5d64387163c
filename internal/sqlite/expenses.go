package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

const expenseColumns = `id, expense_date, expense_description, expense_category,
    merchant_name, paid_through, income_amount, expense_amount, report_name`

// Insert adds a record to the active database and returns its assigned ID.
func (s *Store) Insert(record types.ExpenseRecord) (int64, error) {
	if err := record.Validate(); err != nil {
		return 0, err
	}
	db, err := s.handle()
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(
		`INSERT INTO expenses (expense_date, expense_description, expense_category,
            merchant_name, paid_through, income_amount, expense_amount, report_name)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Date, record.Description, record.Category,
		record.Merchant, record.PaidThrough, record.Income, record.Expense, record.ReportName,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted expense id: %w", err)
	}
	return id, nil
}

// Update rewrites an existing record in place.
func (s *Store) Update(record types.ExpenseRecord) error {
	if record.ID <= 0 {
		return types.ErrInvalidID
	}
	if err := record.Validate(); err != nil {
		return err
	}
	db, err := s.handle()
	if err != nil {
		return err
	}

	res, err := db.Exec(
		`UPDATE expenses SET expense_date = ?, expense_description = ?,
            expense_category = ?, merchant_name = ?, paid_through = ?,
            income_amount = ?, expense_amount = ?, report_name = ?
         WHERE id = ?`,
		record.Date, record.Description, record.Category, record.Merchant,
		record.PaidThrough, record.Income, record.Expense, record.ReportName, record.ID,
	)
	if err != nil {
		return fmt.Errorf("updating expense %d: %w", record.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating expense %d: %w", record.ID, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Delete removes a record by ID.
func (s *Store) Delete(id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	db, err := s.handle()
	if err != nil {
		return err
	}

	res, err := db.Exec(`DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting expense %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Get retrieves a record by ID.
func (s *Store) Get(id int64) (types.ExpenseRecord, error) {
	if id <= 0 {
		return types.ExpenseRecord{}, types.ErrInvalidID
	}
	db, err := s.handle()
	if err != nil {
		return types.ExpenseRecord{}, err
	}

	row := db.QueryRow(`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	record, err := scanExpense(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.ExpenseRecord{}, types.ErrNotFound
		}
		return types.ExpenseRecord{}, fmt.Errorf("getting expense %d: %w", id, err)
	}
	return record, nil
}

// Count returns the number of records in the active database.
func (s *Store) Count() (int, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM expenses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting expenses: %w", err)
	}
	return n, nil
}

// scanner abstracts sql.Row and sql.Rows for hydration.
type scanner interface {
	Scan(dest ...any) error
}

// scanExpense hydrates one expenses row.
func scanExpense(row scanner) (types.ExpenseRecord, error) {
	var r types.ExpenseRecord
	err := row.Scan(
		&r.ID, &r.Date, &r.Description, &r.Category,
		&r.Merchant, &r.PaidThrough, &r.Income, &r.Expense, &r.ReportName,
	)
	return r, err
}
