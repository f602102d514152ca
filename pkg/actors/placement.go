// maestro/pkg/actors/placement.go

package actors

import (
	"fmt"
	"strings"

	"maestro/pkg/report"
)

// PlacementActor excludes performance placements: websites, mobile
// applications, YouTube videos and channels.
type PlacementActor struct {
	level ExclusionLevel
}

func (a *PlacementActor) Name() string { return "placement" }

func (a *PlacementActor) CreateMutateOperation(row report.Row) (*MutateOperation, error) {
	customerID, path, err := entityPath(a.level, row)
	if err != nil {
		return nil, err
	}

	rawType, err := row.Get("placement_type")
	if err != nil {
		return nil, err
	}
	rawPlacement, err := row.Get("placement")
	if err != nil {
		return nil, err
	}
	placement := fmt.Sprintf("%v", rawPlacement)

	criterion := Criterion{}
	switch fmt.Sprintf("%v", rawType) {
	case "MOBILE_APPLICATION":
		criterion.AppID = FormatAppID(placement)
	case "WEBSITE":
		criterion.PlacementURL = FormatWebsite(placement)
	case "YOUTUBE_VIDEO":
		criterion.VideoID = placement
	case "YOUTUBE_CHANNEL":
		criterion.ChannelID = placement
	default:
		return nil, fmt.Errorf("unsupported placement type %q for placement %q", rawType, placement)
	}
	// Account level criteria are implicitly negative.
	if a.level != LevelAccount {
		criterion.Negative = true
	}

	return &MutateOperation{
		CustomerID: customerID,
		Level:      a.level,
		EntityPath: path,
		Criterion:  criterion,
	}, nil
}

// FormatAppID rewrites a report app placement id into an acceptable
// negative criterion. Report ids look like `mobileapp::1000<store>-<app>`;
// the criterion form is `<store>-<app>`.
func FormatAppID(appID string) string {
	if !strings.HasPrefix(appID, "mobileapp::") {
		return appID
	}
	criteria := strings.Split(appID, "-")
	app := criteria[len(criteria)-1]
	storeParts := strings.Split(criteria[0], "::")
	appStore := storeParts[len(storeParts)-1]
	appStore = strings.ReplaceAll(appStore, "mobileapp::1000", "")
	appStore = strings.ReplaceAll(appStore, "1000", "")
	return fmt.Sprintf("%s-%s", appStore, app)
}

// FormatWebsite trims a placement URL down to its host, the only form
// accepted as a negative criterion.
func FormatWebsite(websiteURL string) string {
	return strings.Split(websiteURL, "/")[0]
}
