package types

import "errors"

// FilterAll is the sentinel filter value meaning "no constraint". It is part
// of the query contract, not an incidental UI string.
const FilterAll = "All"

// UncategorizedLabel is the grouping label used for records with an empty
// category.
const UncategorizedLabel = "Uncategorized"

// Filter narrows a ledger listing. Search is a case-insensitive substring
// match on the description; the remaining fields are exact matches. An empty
// value or FilterAll leaves that dimension unconstrained. Year and Month are
// calendar components as text ("2024", "03").
type Filter struct {
	Search   string
	Year     string
	Month    string
	Category string
	Merchant string
}

// Unconstrained reports whether a filter value places no constraint.
func Unconstrained(v string) bool {
	return v == "" || v == FilterAll
}

// AmountKind selects which amount column an aggregation sums.
type AmountKind string

// Supported amount kinds.
const (
	KindIncome  AmountKind = "income"
	KindExpense AmountKind = "expense"
)

// ErrUnknownKind is returned for an AmountKind other than income or expense.
var ErrUnknownKind = errors.New("unknown amount kind")

// CategoryTotal is one row of a category aggregation.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// FilterOptions holds the distinct values present in the ledger, for
// populating filter pickers.
type FilterOptions struct {
	Years      []string `json:"years"`
	Categories []string `json:"categories"`
	Merchants  []string `json:"merchants"`
}
