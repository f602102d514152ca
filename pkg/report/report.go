// maestro/pkg/report/report.go

// Package report holds the tabular performance report shared by the
// rule engine, enrichment fetchers and exclusion actors. A report is an
// ordered set of named columns plus rows of values; rows are read-only
// views that fail hard on unknown field names.
package report

import (
	"fmt"
)

type Report struct {
	columns []string
	index   map[string]int
	rows    [][]interface{}
}

// New builds a report from column names and row values. Every row must
// be exactly as wide as the column list.
func New(columns []string, rows [][]interface{}) (*Report, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("report requires at least one column")
	}
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("empty column name at position %d", i)
		}
		if _, ok := index[name]; ok {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		index[name] = i
	}
	r := &Report{
		columns: columns,
		index:   index,
		rows:    make([][]interface{}, 0, len(rows)),
	}
	for _, row := range rows {
		if err := r.Append(row); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Empty returns a report with the same columns and no rows.
func (r *Report) Empty() *Report {
	out, _ := New(r.columns, nil)
	return out
}

func (r *Report) Columns() []string {
	return r.columns
}

func (r *Report) Len() int {
	return len(r.rows)
}

func (r *Report) Row(i int) Row {
	return Row{report: r, idx: i}
}

// Append adds one row of values; width must match the column list.
func (r *Report) Append(values []interface{}) error {
	if len(values) != len(r.columns) {
		return fmt.Errorf("row has %d values, report has %d columns", len(values), len(r.columns))
	}
	r.rows = append(r.rows, values)
	return nil
}

// AppendRow copies a row from another report with the same columns.
func (r *Report) AppendRow(row Row) error {
	return r.Append(row.Values())
}

// Equal reports structural equality: same columns in the same order and
// the same row values in the same order.
func (r *Report) Equal(other *Report) bool {
	if other == nil || len(r.columns) != len(other.columns) || len(r.rows) != len(other.rows) {
		return false
	}
	for i, name := range r.columns {
		if other.columns[i] != name {
			return false
		}
	}
	for i, row := range r.rows {
		for j, value := range row {
			if fmt.Sprintf("%v", value) != fmt.Sprintf("%v", other.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// Column returns all values of one column in row order.
func (r *Report) Column(name string) ([]interface{}, error) {
	pos, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("field not found: %q", name)
	}
	values := make([]interface{}, 0, len(r.rows))
	for _, row := range r.rows {
		values = append(values, row[pos])
	}
	return values, nil
}

// Row is a read-only view over one report line.
type Row struct {
	report *Report
	idx    int
}

// Get looks up a field by name. An unknown field is a hard error so a
// misconfigured rule never silently evaluates to false.
func (row Row) Get(field string) (interface{}, error) {
	pos, ok := row.report.index[field]
	if !ok {
		return nil, fmt.Errorf("field not found: %q", field)
	}
	return row.report.rows[row.idx][pos], nil
}

func (row Row) Has(field string) bool {
	_, ok := row.report.index[field]
	return ok
}

// Values returns a copy of the row's values in column order.
func (row Row) Values() []interface{} {
	src := row.report.rows[row.idx]
	out := make([]interface{}, len(src))
	copy(out, src)
	return out
}
