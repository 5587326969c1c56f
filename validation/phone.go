package validation

import "strings"

// phoneDigits is the full length of a subscriber number in the Russian
// numbering plan: country code + area code + subscriber number.
const phoneDigits = 11

// NormalizePhoneDigits strips every non-digit character from raw masked
// input. No length is enforced at this layer; the result is whatever digits
// the user has typed so far.
func NormalizePhoneDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsPhoneComplete reports whether digits form a complete phone number.
// The input is expected to be the output of [NormalizePhoneDigits].
func IsPhoneComplete(digits string) bool {
	if len(digits) != phoneDigits {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsCodeWellFormed reports whether candidate is a well-formed SMS
// verification code: exactly four decimal digits.
func IsCodeWellFormed(candidate string) bool {
	if len(candidate) != 4 {
		return false
	}
	for _, r := range candidate {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
