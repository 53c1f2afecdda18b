package attendance

import (
	"strings"
	"time"
)

// Status is a member's declared intent for the next race.
type Status string

const (
	StatusConfirmedDriver Status = "confirmed_driver"
	StatusCommentator     Status = "commentator"
	StatusMarshal         Status = "marshal"
	StatusMaybe           Status = "maybe"
	StatusDeclined        Status = "declined"
)

var aliases = map[string]Status{
	"driver": StatusConfirmedDriver,
	"no":     StatusDeclined,
}

// ParseStatus normalizes a status label, case-insensitively. The sign-up
// button labels "Driver" and "No" are accepted as aliases.
func ParseStatus(raw string) (Status, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	if alias, ok := aliases[key]; ok {
		return alias, true
	}
	status := Status(key)
	switch status {
	case StatusConfirmedDriver, StatusCommentator, StatusMarshal, StatusMaybe, StatusDeclined:
		return status, true
	}
	return status, false
}

// Record is the latest attendance declaration of one member.
type Record struct {
	DisplayName string    `json:"displayName"`
	Status      Status    `json:"status"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
