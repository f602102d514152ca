// maestro/pkg/specification/filter.go

package specification

import (
	"maestro/pkg/logging"
	"maestro/pkg/report"
)

// Filter returns the subsequence of rows satisfying the specification,
// preserving row order and all columns. An inactive specification
// yields an empty report.
func Filter(spec *ExclusionSpecification, rep *report.Report) (*report.Report, error) {
	out := rep.Empty()
	if !spec.IsActive() {
		logging.Logger.Debug().Msg("Inactive specification, nothing to filter")
		return out, nil
	}
	for i := 0; i < rep.Len(); i++ {
		row := rep.Row(i)
		ok, err := spec.Satisfies(row)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := out.AppendRow(row); err != nil {
				return nil, err
			}
		}
	}
	logging.Logger.Debug().Int("input_rows", rep.Len()).Int("matched_rows", out.Len()).Msg("Applied specification")
	return out, nil
}
