package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bokisim/bokisim/internal/model"
)

const (
	numFields   = 4
	colName     = 0
	colStmt     = 1
	colCategory = 2
	colSubCat   = 3
)

// ReadChart reads a chart-of-accounts CSV (header row followed by
// name,statement,category,sub_category rows).
func ReadChart(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, acct)
	}
	return accts, nil
}

// WriteChart writes a chart-of-accounts CSV.
func WriteChart(w io.Writer, accts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"name", "statement", "category", "sub_category"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row. Balances are not
// persisted here; the chart describes structure only.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colName] = acct.Name
	row[colStmt] = string(acct.Statement)
	row[colCategory] = string(acct.Category)
	row[colSubCat] = acct.SubCategory
	return row
}

// UnmarshalAccount converts a CSV row to an Account with a zero balance.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	category := model.Category(record[colCategory])
	if !category.Valid() {
		return model.Account{}, fmt.Errorf("unknown category %q for account %q", record[colCategory], record[colName])
	}

	statement := model.Statement(record[colStmt])
	if !statement.Valid() {
		return model.Account{}, fmt.Errorf("unknown statement %q for account %q", record[colStmt], record[colName])
	}

	return model.Account{
		Name:        record[colName],
		Statement:   statement,
		Category:    category,
		SubCategory: record[colSubCat],
	}, nil
}
