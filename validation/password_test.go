package validation

import "testing"

func TestClassifyPasswordFacetsAreIndependent(t *testing.T) {
	f := ClassifyPassword("abcdefgh")
	if !f.Length || !f.Lower || !f.Latin {
		t.Errorf("length/lower/latin should hold for %q: %+v", "abcdefgh", f)
	}
	if f.Upper || f.Digit || f.Symbol {
		t.Errorf("upper/digit/symbol should not hold for %q: %+v", "abcdefgh", f)
	}
	if f.All() {
		t.Error("All() must be false when any facet fails")
	}
}

func TestClassifyPasswordStrong(t *testing.T) {
	f := ClassifyPassword("Aa1!aaaa")
	if !f.All() {
		t.Errorf("every facet should hold for %q: %+v", "Aa1!aaaa", f)
	}
	if !IsPasswordStrong("Aa1!aaaa") {
		t.Error("IsPasswordStrong should agree with All()")
	}
}

func TestClassifyPasswordRejectsNonLatinScripts(t *testing.T) {
	f := ClassifyPassword("Пароль1!")
	if f.Latin {
		t.Error("Cyrillic characters must fail the latin facet")
	}
	if IsPasswordStrong("Пароль1!") {
		t.Error("non-Latin password must never be strong")
	}
}

func TestClassifyPasswordEdges(t *testing.T) {
	cases := []struct {
		candidate string
		want      PasswordFacets
	}{
		{"", PasswordFacets{}},
		{"SHORT1!", PasswordFacets{Upper: true, Digit: true, Symbol: true, Latin: true}},
		{"passw0rdA", PasswordFacets{Length: true, Upper: true, Lower: true, Digit: true, Latin: true}},
		{"with space1A!", PasswordFacets{Length: true, Upper: true, Lower: true, Digit: true, Symbol: true}},
	}
	for _, tc := range cases {
		if got := ClassifyPassword(tc.candidate); got != tc.want {
			t.Errorf("ClassifyPassword(%q) = %+v, want %+v", tc.candidate, got, tc.want)
		}
	}
}
