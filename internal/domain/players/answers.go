package players

import "strings"

var requiredAnswers = map[Role][]string{
	RoleDriver:      {"ea_id", "silverstone_tt", "baku_tt", "experience", "skill_review"},
	RoleSteward:     {"ea_id", "rules", "conflict", "availability"},
	RoleCommentator: {"ea_id", "setup", "portfolio", "style_commitment", "vod_review"},
}

// RequiredAnswers lists the application questions a role must answer.
func RequiredAnswers(role Role) []string {
	return append([]string(nil), requiredAnswers[role]...)
}

// MissingAnswers returns the required keys that are absent or blank.
func MissingAnswers(role Role, answers map[string]string) []string {
	var missing []string
	for _, key := range requiredAnswers[role] {
		if strings.TrimSpace(answers[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// AnswerKey normalizes a free-form column or question name to the stored key form.
func AnswerKey(raw string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
}
