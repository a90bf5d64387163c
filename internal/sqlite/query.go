package sqlite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

// List returns all records matching the filter, ordered by date descending
// with the insertion id as a stable tiebreak. Dimensions left empty or set to
// types.FilterAll are unconstrained.
func (s *Store) List(filter types.Filter) ([]types.ExpenseRecord, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var conditions []string
	var args []any

	if !types.Unconstrained(filter.Search) {
		conditions = append(conditions, "LOWER(expense_description) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if !types.Unconstrained(filter.Year) {
		conditions = append(conditions, "strftime('%Y', expense_date) = ?")
		args = append(args, filter.Year)
	}
	if !types.Unconstrained(filter.Month) {
		conditions = append(conditions, "strftime('%m', expense_date) = ?")
		args = append(args, padMonth(filter.Month))
	}
	if !types.Unconstrained(filter.Category) {
		conditions = append(conditions, "expense_category = ?")
		args = append(args, filter.Category)
	}
	if !types.Unconstrained(filter.Merchant) {
		conditions = append(conditions, "merchant_name = ?")
		args = append(args, filter.Merchant)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY expense_date DESC, id DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	records := []types.ExpenseRecord{}
	for rows.Next() {
		r, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}
	return records, nil
}

// CategoryTotals groups records matching year and month by category and sums
// the selected amount. Records with an empty category fall under
// types.UncategorizedLabel; zero-amount records are excluded. The result is
// sorted by total descending. Aggregation scans the full matching listing;
// ledger sizes are modest and correctness wins over micro-optimization.
func (s *Store) CategoryTotals(year, month string, kind types.AmountKind) ([]types.CategoryTotal, error) {
	if kind != types.KindIncome && kind != types.KindExpense {
		return nil, types.ErrUnknownKind
	}

	records, err := s.List(types.Filter{Year: year, Month: month})
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, r := range records {
		amount := r.Expense
		if kind == types.KindIncome {
			amount = r.Income
		}
		if amount == 0 {
			continue
		}
		category := r.Category
		if category == "" {
			category = types.UncategorizedLabel
		}
		totals[category] += amount
	}

	result := make([]types.CategoryTotal, 0, len(totals))
	for category, total := range totals {
		result = append(result, types.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// FilterOptions returns the distinct years, categories, and merchants present
// in the ledger, each sorted ascending, for populating filter pickers.
func (s *Store) FilterOptions() (types.FilterOptions, error) {
	records, err := s.List(types.Filter{})
	if err != nil {
		return types.FilterOptions{}, err
	}

	years := make(map[string]bool)
	categories := make(map[string]bool)
	merchants := make(map[string]bool)
	for _, r := range records {
		if len(r.Date) >= 4 {
			years[r.Date[:4]] = true
		}
		if r.Category != "" {
			categories[r.Category] = true
		}
		if r.Merchant != "" {
			merchants[r.Merchant] = true
		}
	}

	return types.FilterOptions{
		Years:      sortedKeys(years),
		Categories: sortedKeys(categories),
		Merchants:  sortedKeys(merchants),
	}, nil
}

// UniqueValues returns the distinct non-empty values of a single record
// field, sorted ascending. The column name must be one of the expenses text
// columns.
func (s *Store) UniqueValues(column string) ([]string, error) {
	records, err := s.List(types.Filter{})
	if err != nil {
		return nil, err
	}

	values := make(map[string]bool)
	for _, r := range records {
		var v string
		switch column {
		case "expense_date":
			v = r.Date
		case "expense_description":
			v = r.Description
		case "expense_category":
			v = r.Category
		case "merchant_name":
			v = r.Merchant
		case "paid_through":
			v = r.PaidThrough
		case "report_name":
			v = r.ReportName
		default:
			return nil, types.ErrUnknownColumn
		}
		if v != "" {
			values[v] = true
		}
	}
	return sortedKeys(values), nil
}

// padMonth normalizes a single-digit month to the two-digit form strftime
// produces.
func padMonth(month string) string {
	if len(month) == 1 {
		return "0" + month
	}
	return month
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
