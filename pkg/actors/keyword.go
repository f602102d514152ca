// maestro/pkg/actors/keyword.go

package actors

import (
	"fmt"

	"maestro/pkg/report"
)

// KeywordActor excludes keywords; the search-term column takes
// precedence over the keyword column when both are present.
type KeywordActor struct {
	level ExclusionLevel
}

func (a *KeywordActor) Name() string { return "keyword" }

func (a *KeywordActor) CreateMutateOperation(row report.Row) (*MutateOperation, error) {
	customerID, path, err := entityPath(a.level, row)
	if err != nil {
		return nil, err
	}

	field := "keyword"
	if row.Has("search_term") {
		field = "search_term"
	}
	text, err := row.Get(field)
	if err != nil {
		return nil, err
	}

	return &MutateOperation{
		CustomerID: customerID,
		Level:      a.level,
		EntityPath: path,
		Criterion: Criterion{
			Negative:         true,
			KeywordText:      fmt.Sprintf("%v", text),
			KeywordMatchType: "EXACT",
		},
	}, nil
}
