// maestro/pkg/report/json.go

package report

import (
	"encoding/json"
	"os"
)

type jsonReport struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// LoadJSON reads a report from a JSON file of the shape
// {"columns": [...], "rows": [[...], ...]}.
func LoadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var decoded jsonReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}
	return New(decoded.Columns, decoded.Rows)
}

// SaveJSON writes the report as indented JSON.
func (r *Report) SaveJSON(path string) error {
	encoded := jsonReport{Columns: r.columns, Rows: r.rows}
	data, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
