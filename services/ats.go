package services

import (
	"strings"
	"unicode"
)

// ScoreResume matches requiredSkills against resumeText and returns the
// percentage of skills found (rounded half up) plus the skills that were not
// found, in their original spelling and order.
//
// Matching is a substring test on normalized keys (letters and digits only,
// lower-cased), so "Next.js", "NextJS" and "next js" are all the same skill.
func ScoreResume(resumeText string, requiredSkills []string) (int, []string) {
	missing := make([]string, 0, len(requiredSkills))
	if len(requiredSkills) == 0 || resumeText == "" {
		missing = append(missing, requiredSkills...)
		return 0, missing
	}

	resumeKey := normalizeSkillKey(resumeText)
	matched := 0
	for _, skill := range requiredSkills {
		key := normalizeSkillKey(skill)
		// A skill with no letters or digits ("++") never matches.
		if key != "" && strings.Contains(resumeKey, key) {
			matched++
			continue
		}
		missing = append(missing, skill)
	}

	total := len(requiredSkills)
	score := (200*matched + total) / (2 * total)
	return score, missing
}

func normalizeSkillKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
