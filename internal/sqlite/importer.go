package sqlite

import "github.com/ledgerbook/ledgerbook/pkg/types"

// ImportRecords appends records to the active database in order, tagged with
// the provenance label, and returns the count actually inserted. With
// suppressDuplicates, rows that duplicate-match an existing record are
// skipped. Insertion is per-row, not transactional across the batch: a
// failure partway through leaves prior rows committed, and the error reports
// how many made it.
func (s *Store) ImportRecords(records []types.ExpenseRecord, label string, suppressDuplicates bool) (int, error) {
	inserted := 0
	for _, record := range records {
		record.ID = 0
		if label != "" {
			record.ReportName = label
		}

		if suppressDuplicates {
			dup, err := s.IsDuplicate(record)
			if err != nil {
				return inserted, err
			}
			if dup {
				continue
			}
		}

		if _, err := s.Insert(record); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
