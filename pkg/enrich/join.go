// maestro/pkg/enrich/join.go

package enrich

import (
	"fmt"

	"maestro/pkg/logging"
	"maestro/pkg/report"
	"maestro/pkg/store"
)

// Join builds a new report carrying the base columns plus the given
// enrichment fields, matched by the identifier column. Rows with no
// enrichment record are dropped from the candidate set: they cannot be
// evaluated against enrichment fields, and a dropped candidate is never
// excluded by mistake.
func Join(base *report.Report, idColumn string, fields []string, records map[string]store.Record) (*report.Report, error) {
	columns := append(append([]string{}, base.Columns()...), fields...)
	out, err := report.New(columns, nil)
	if err != nil {
		return nil, err
	}

	for i := 0; i < base.Len(); i++ {
		row := base.Row(i)
		idValue, err := row.Get(idColumn)
		if err != nil {
			return nil, err
		}
		id := fmt.Sprintf("%v", idValue)

		record, ok := records[id]
		if !ok {
			logging.Logger.Debug().Str("id", id).Msg("No enrichment record, dropping row")
			continue
		}

		values := row.Values()
		for _, field := range fields {
			values = append(values, record[field])
		}
		if err := out.Append(values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
