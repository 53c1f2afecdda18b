package domain

// Failure names a domain outcome that is not a fault: the operation was
// understood but could not apply. The empty Failure means success.
type Failure string

const (
	PlayerNotFound       Failure = "PlayerNotFound"
	TeamNotFound         Failure = "TeamNotFound"
	TeamFull             Failure = "TeamFull"
	LimitExceeded        Failure = "LimitExceeded"
	ApplicantDataMissing Failure = "ApplicantDataMissing"
	InvalidTransition    Failure = "InvalidTransition"
	MissingAnswers       Failure = "MissingAnswers"
	InvalidInput         Failure = "InvalidInput"
	NotADriver           Failure = "NotADriver"
	IncidentNotFound     Failure = "IncidentNotFound"
	RaceNotFound         Failure = "RaceNotFound"
)

var failureMessages = map[Failure]string{
	PlayerNotFound:       "player is not registered",
	TeamNotFound:         "team does not exist",
	TeamFull:             "team has no free seat",
	LimitExceeded:        "penalty points are above the league limit",
	ApplicantDataMissing: "application data was not found",
	InvalidTransition:    "application cannot move to that state",
	MissingAnswers:       "application is missing required answers",
	InvalidInput:         "request is invalid",
	NotADriver:           "player is not an active driver",
	IncidentNotFound:     "incident report was not found",
	RaceNotFound:         "race is not on the calendar",
}

// OK reports whether f denotes success.
func (f Failure) OK() bool {
	return f == ""
}

// Message returns a human-readable explanation.
func (f Failure) Message() string {
	if msg, ok := failureMessages[f]; ok {
		return msg
	}
	if f == "" {
		return ""
	}
	return string(f)
}

// IsNotFound reports whether the failure refers to a missing entity.
func (f Failure) IsNotFound() bool {
	switch f {
	case PlayerNotFound, TeamNotFound, ApplicantDataMissing, IncidentNotFound, RaceNotFound:
		return true
	}
	return false
}
