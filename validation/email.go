package validation

import "strings"

// IsEmailWellFormed reports whether candidate matches the local@domain.tld
// shape: a non-empty local part, a single @, a domain whose final label is
// at least two letters. This is a shape check only, never a deliverability
// check.
func IsEmailWellFormed(candidate string) bool {
	at := strings.IndexByte(candidate, '@')
	if at <= 0 || at != strings.LastIndexByte(candidate, '@') {
		return false
	}
	domain := candidate[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || strings.ContainsAny(domain, " \t") {
		return false
	}
	tld := domain[dot+1:]
	if len(tld) < 2 {
		return false
	}
	for _, r := range tld {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

// IsUsernameNonEmpty reports whether candidate contains anything besides
// whitespace.
func IsUsernameNonEmpty(candidate string) bool {
	return strings.TrimSpace(candidate) != ""
}

// IsNameNonEmpty reports whether a first or last name field is filled in.
// Same trim rule as usernames; profile names have no charset constraint.
func IsNameNonEmpty(candidate string) bool {
	return strings.TrimSpace(candidate) != ""
}
