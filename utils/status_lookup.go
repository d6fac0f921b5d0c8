package utils

import (
	"strings"

	"hirehub-api/models"
)

var (
	statusSynonyms = map[models.ApplicationStatus][]string{
		models.StatusApplied: {
			"applied",
			"apply",
			"new",
		},
		models.StatusShortlisted: {
			"shortlisted",
			"shortlist",
			"short_listed",
			"screened",
		},
		models.StatusInterview: {
			"interview",
			"interviewing",
			"interview_scheduled",
		},
		models.StatusOffered: {
			"offered",
			"offer",
			"offer_extended",
		},
		models.StatusHired: {
			"hired",
			"hire",
			"accepted",
		},
		models.StatusRejected: {
			"rejected",
			"reject",
			"declined",
		},
	}
	statusAliasToCanonical = buildStatusAliasMap()
)

func buildStatusAliasMap() map[string]models.ApplicationStatus {
	aliasMap := make(map[string]models.ApplicationStatus)
	for canonical, synonyms := range statusSynonyms {
		aliasMap[normalizeStatusCode(string(canonical))] = canonical
		for _, alias := range synonyms {
			if normalized := normalizeStatusCode(alias); normalized != "" {
				aliasMap[normalized] = canonical
			}
		}
	}
	return aliasMap
}

func normalizeStatusCode(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return strings.ReplaceAll(normalized, " ", "_")
}

// ParseApplicationStatus resolves a client supplied status (any case, common aliases)
// to the canonical pipeline status.
func ParseApplicationStatus(raw string) (models.ApplicationStatus, bool) {
	status, ok := statusAliasToCanonical[normalizeStatusCode(raw)]
	return status, ok
}
