// maestro/pkg/actors/actors.go

// Package actors turns approved report rows into negative-criterion
// mutate operations. Operations are built in memory; pushing them to
// the Ads API is the caller's concern.
package actors

import (
	"fmt"
	"sort"
	"strings"

	"maestro/pkg/report"
)

// ExclusionLevel selects where the negative criterion is attached.
type ExclusionLevel string

const (
	LevelAdGroup  ExclusionLevel = "AD_GROUP"
	LevelCampaign ExclusionLevel = "CAMPAIGN"
	LevelAccount  ExclusionLevel = "ACCOUNT"
)

// Criterion is the negative criterion payload of one operation. Only
// the fields of the matching criterion kind are set.
type Criterion struct {
	Negative         bool
	AppID            string
	PlacementURL     string
	VideoID          string
	ChannelID        string
	KeywordText      string
	KeywordMatchType string
}

// MutateOperation is one exclusion against an external account.
type MutateOperation struct {
	CustomerID string
	Level      ExclusionLevel
	EntityPath string
	Criterion  Criterion
}

// Actor builds mutate operations for one excludable entity kind.
type Actor interface {
	Name() string
	CreateMutateOperation(row report.Row) (*MutateOperation, error)
}

// ActorFactory builds an actor operating at the given exclusion level.
type ActorFactory func(level ExclusionLevel) Actor

var actorFactories = map[string]ActorFactory{
	"placement": func(level ExclusionLevel) Actor { return &PlacementActor{level: level} },
	"keyword":   func(level ExclusionLevel) Actor { return &KeywordActor{level: level} },
}

// LoadActor locates an actor by name, failing with the list of
// available actors when the name is unknown.
func LoadActor(name string, level ExclusionLevel) (Actor, error) {
	factory, ok := actorFactories[name]
	if !ok {
		return nil, fmt.Errorf(
			"unsupported actor %q, select one of available: %s",
			name, strings.Join(ListActors(), ", "))
	}
	return factory(level), nil
}

// ListActors returns the available actor names sorted.
func ListActors() []string {
	names := make([]string, 0, len(actorFactories))
	for name := range actorFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// entityPath builds the resource the criterion attaches to. Account
// level criteria attach to the customer itself and carry no path.
func entityPath(level ExclusionLevel, row report.Row) (customerID, path string, err error) {
	rawCustomer, err := row.Get("customer_id")
	if err != nil {
		return "", "", err
	}
	customerID = fmt.Sprintf("%v", rawCustomer)

	switch level {
	case LevelAdGroup:
		adGroupID, err := row.Get("ad_group_id")
		if err != nil {
			return "", "", err
		}
		return customerID, fmt.Sprintf("customers/%s/adGroups/%v", customerID, adGroupID), nil
	case LevelCampaign:
		campaignID, err := row.Get("campaign_id")
		if err != nil {
			return "", "", err
		}
		return customerID, fmt.Sprintf("customers/%s/campaigns/%v", customerID, campaignID), nil
	case LevelAccount:
		return customerID, "", nil
	default:
		return "", "", fmt.Errorf("unsupported exclusion level %q", level)
	}
}
