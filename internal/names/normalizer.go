// Package names canonicalizes free-text player names and computes fuzzy
// similarity between them, so that the same player spelled differently by
// two feeds ("Gardner Minshew II" vs "Gardner Minshew") reconciles to one
// identity.
package names

import (
	"regexp"
	"strings"
)

// DefaultSimilarityThreshold is the ratio at or above which two normalized
// names are considered the same player. Tunable per call site; short names
// can false-positive, so treat this as a knob, not a law.
const DefaultSimilarityThreshold = 0.85

// generational suffixes stripped from the end of a name (case-insensitive,
// with or without a trailing period)
var suffixTokens = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
	"v":   {},
	"2nd": {},
	"3rd": {},
	"4th": {},
	"5th": {},
}

// lookupSuffixes are appended by Variants for defensive lookups against
// stores that were never normalized
var lookupSuffixes = []string{"II", "III", "Jr.", "Sr."}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	initialsRe   = regexp.MustCompile(`\b(?:[A-Z]\.){2,}`)
)

// Normalize maps a raw name variant to its canonical form. It trims and
// collapses whitespace, strips trailing generational suffixes, and collapses
// dotted initials ("A.J. Brown" -> "AJ Brown"). Pure and idempotent:
// normalizing a canonical name returns it unchanged. Empty input yields "".
func Normalize(name string) string {
	s := whitespaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
	if s == "" {
		return ""
	}

	s = strings.Join(stripSuffixTokens(strings.Fields(s)), " ")

	// Collapse runs of dotted single capitals: "A.J." -> "AJ"
	s = initialsRe.ReplaceAllStringFunc(s, func(run string) string {
		return strings.ReplaceAll(run, ".", "")
	})

	// Collapsing can surface a new trailing suffix ("John I.V." -> "John IV"),
	// so strip once more to keep the output stable under re-normalization.
	s = strings.Join(stripSuffixTokens(strings.Fields(s)), " ")

	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// stripSuffixTokens drops suffix tokens from the tail while at least a name
// remains. Stripping repeatedly keeps Normalize idempotent for stacked
// suffixes like "Name III Jr.".
func stripSuffixTokens(fields []string) []string {
	for len(fields) > 1 {
		last := strings.ToLower(strings.TrimSuffix(fields[len(fields)-1], "."))
		if _, ok := suffixTokens[last]; !ok {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return fields
}

// Similar reports whether two raw names refer to the same player. Both are
// normalized first; equal canonical forms match immediately regardless of
// threshold. Otherwise a case-insensitive LCS ratio in [0,1] is compared
// against the threshold. Symmetric in its arguments.
func Similar(a, b string, threshold float64) bool {
	na := Normalize(a)
	nb := Normalize(b)
	if na == nb {
		return true
	}
	return Ratio(na, nb) >= threshold
}

// Ratio computes a case-insensitive longest-common-subsequence similarity
// ratio between two strings: 2*LCS / (len(a)+len(b)). Returns 1.0 for two
// empty strings.
func Ratio(a, b string) float64 {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if len(la)+len(lb) == 0 {
		return 1.0
	}
	return 2.0 * float64(lcsLength(la, lb)) / float64(len(la)+len(lb))
}

// lcsLength computes the byte-level longest common subsequence length using
// a rolling single-row table.
func lcsLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// Variants returns the canonical form of name followed by the canonical form
// with each common generational suffix appended, for defensive lookups
// against un-normalized stores. The canonical form is always first.
func Variants(name string) []string {
	canonical := Normalize(name)
	out := make([]string, 0, len(lookupSuffixes)+1)
	out = append(out, canonical)
	if canonical == "" {
		return out
	}
	for _, suffix := range lookupSuffixes {
		out = append(out, canonical+" "+suffix)
	}
	return out
}
