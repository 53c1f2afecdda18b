package config

// MarkerConfig names the external permission markers (chat roles) the league grants.
// Newcomer is the marker every member receives on joining; it is dropped at the
// first lifecycle decision.
type MarkerConfig struct {
	Driver               string
	Steward              string
	Commentator          string
	DriverApplicant      string
	StewardApplicant     string
	CommentatorApplicant string
	UnderReview          string
	UnderTesting         string
	Newcomer             string
	Banned               string
}

func loadMarkers() MarkerConfig {
	return MarkerConfig{
		Driver:               envOrDefault(envMarkerDriver, "driver"),
		Steward:              envOrDefault(envMarkerSteward, "steward"),
		Commentator:          envOrDefault(envMarkerCommentator, "commentator"),
		DriverApplicant:      envOrDefault(envMarkerDriverApp, "driver-applicant"),
		StewardApplicant:     envOrDefault(envMarkerStewardApp, "steward-applicant"),
		CommentatorApplicant: envOrDefault(envMarkerCommentatorApp, "commentator-applicant"),
		UnderReview:          envOrDefault(envMarkerUnderReview, "under-review"),
		UnderTesting:         envOrDefault(envMarkerUnderTesting, "under-testing"),
		Newcomer:             envOrDefault(envMarkerNewcomer, "newcomer"),
		Banned:               envOrDefault(envMarkerBanned, "banned-driver"),
	}
}
