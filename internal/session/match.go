package session

import (
	"regexp"
	"strings"
)

var digitRuns = regexp.MustCompile(`\d+`)

var monthTokens = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
}

var weekdayTokens = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"mon", "tue", "wed", "thu", "fri", "sat", "sun",
}

// Matches reports whether two free-text date/time descriptions refer to the
// same slot. The site's wording and whatever the user typed are rarely
// byte-identical ("Tue 4th Nov" vs "November 4 - 8:00pm"), so after a direct
// containment check it falls back to structural agreement: same first digit
// run (the day of month), same month token, and no contradicting weekday.
// Commutative.
func Matches(a, b string) bool {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	numsA := digitRuns.FindAllString(na, -1)
	numsB := digitRuns.FindAllString(nb, -1)
	if len(numsA) == 0 || len(numsB) == 0 {
		return false
	}

	// A month absent from either side is never agreement.
	monthA := findToken(na, monthTokens)
	monthB := findToken(nb, monthTokens)
	if monthA == "" || monthA != monthB {
		return false
	}

	// Only the first digit run is compared; trailing runs are times.
	if numsA[0] != numsB[0] {
		return false
	}

	// The weekday corroborates but is not required: users usually omit it.
	dayA := findToken(na, weekdayTokens)
	dayB := findToken(nb, weekdayTokens)
	return dayA == dayB || dayA == "" || dayB == ""
}

// findToken returns the 3-letter abbreviation of the first token contained in
// s, or "" when none are.
func findToken(s string, tokens []string) string {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return t[:3]
		}
	}
	return ""
}
