// Package sqlite implements the ledgerbook storage engine: a single active
// embedded SQLite database handle with schema management, ledger queries,
// duplicate detection, and bulk import.
package sqlite

import (
	"database/sql"
	"strings"

	"go.uber.org/zap"
)

// Schema DDL. Every statement is idempotent; EnsureSchema runs on each
// database open and after every switch.
const (
	createExpenses = `CREATE TABLE IF NOT EXISTS expenses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    expense_date TEXT NOT NULL,
    expense_description TEXT NOT NULL,
    expense_category TEXT NOT NULL DEFAULT '',
    merchant_name TEXT NOT NULL DEFAULT '',
    paid_through TEXT NOT NULL DEFAULT '',
    income_amount REAL NOT NULL DEFAULT 0,
    expense_amount REAL NOT NULL DEFAULT 0
);`

	createBudgets = `CREATE TABLE IF NOT EXISTS budgets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    amount REAL NOT NULL DEFAULT 0,
    period TEXT NOT NULL DEFAULT ''
);`

	createBudgetSplits = `CREATE TABLE IF NOT EXISTS budget_splits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    budget_id INTEGER NOT NULL,
    label TEXT NOT NULL,
    amount REAL NOT NULL DEFAULT 0,
    FOREIGN KEY (budget_id) REFERENCES budgets(id)
);`

	createTodos = `CREATE TABLE IF NOT EXISTS todos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    due_date TEXT NOT NULL DEFAULT '',
    done INTEGER NOT NULL DEFAULT 0
);`

	createNotes = `CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT ''
);`

	createInvoices = `CREATE TABLE IF NOT EXISTS invoices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice_date TEXT NOT NULL,
    client TEXT NOT NULL DEFAULT '',
    amount REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT ''
);`

	idxExpensesDate     = `CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(expense_date);`
	idxExpensesCategory = `CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(expense_category);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createExpenses,
	createBudgets,
	createBudgetSplits,
	createTodos,
	createNotes,
	createInvoices,
	idxExpensesDate,
	idxExpensesCategory,
}

// additiveColumns lists columns introduced after the initial release. Each is
// applied with ALTER TABLE ADD COLUMN; the "duplicate column name" failure on
// databases that already carry the column is expected and absorbed.
var additiveColumns = []struct {
	table, column, decl string
}{
	{"expenses", "report_name", "TEXT NOT NULL DEFAULT ''"},
	{"invoices", "paid_at", "TEXT NOT NULL DEFAULT ''"},
}

// EnsureSchema guarantees the required tables and additive columns exist in
// the given handle. Failures are logged but non-fatal: the engine continues
// with a possibly-incomplete schema rather than refusing to start. Additive-
// only schema evolution, no rollback semantics.
func EnsureSchema(db *sql.DB, logger *zap.Logger) {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			logger.Error("schema statement failed", zap.Error(err))
		}
	}

	for _, col := range additiveColumns {
		stmt := "ALTER TABLE " + col.table + " ADD COLUMN " + col.column + " " + col.decl
		if _, err := db.Exec(stmt); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			logger.Warn("additive column failed",
				zap.String("table", col.table),
				zap.String("column", col.column),
				zap.Error(err))
		}
	}
}

// isDuplicateColumn recognizes SQLite's error for adding a column that
// already exists.
func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}
