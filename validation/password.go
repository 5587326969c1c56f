package validation

// PasswordFacets defines a public type used by authflow APIs.
//
// Each field is an independent character-class check over the whole
// candidate. All six are always computed so a UI can show per-rule
// feedback; none of them short-circuits the others.
type PasswordFacets struct {
	Length bool // at least 8 characters
	Upper  bool // contains an uppercase Latin letter
	Lower  bool // contains a lowercase Latin letter
	Digit  bool // contains a decimal digit
	Symbol bool // contains a non-alphanumeric character
	Latin  bool // every character is ASCII letter, digit, or punctuation
}

// All reports whether every facet holds.
func (f PasswordFacets) All() bool {
	return f.Length && f.Upper && f.Lower && f.Digit && f.Symbol && f.Latin
}

// ClassifyPassword computes the six strength facets for candidate.
//
// ClassifyPassword does not mutate shared global state and can be used
// concurrently.
func ClassifyPassword(candidate string) PasswordFacets {
	f := PasswordFacets{
		Length: len(candidate) >= 8,
		Latin:  candidate != "",
	}
	for _, r := range candidate {
		switch {
		case r >= 'A' && r <= 'Z':
			f.Upper = true
		case r >= 'a' && r <= 'z':
			f.Lower = true
		case r >= '0' && r <= '9':
			f.Digit = true
		}
		if !isLatinChar(r) {
			f.Latin = false
		}
		if !isAlnum(r) {
			f.Symbol = true
		}
	}
	return f
}

// IsPasswordStrong reports whether candidate satisfies all six facets.
func IsPasswordStrong(candidate string) bool {
	return ClassifyPassword(candidate).All()
}

// isLatinChar reports whether r is printable ASCII excluding space.
// Non-Latin scripts (Cyrillic in particular) must fail this check.
func isLatinChar(r rune) bool {
	return r > 0x20 && r < 0x7f
}

func isAlnum(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
