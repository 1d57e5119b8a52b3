package metadata

import (
	"slices"
	"strconv"
	"strings"
)

// qualifiers in ascending precedence. A missing or unknown qualifier ranks as
// RELEASE. BUILD-SNAPSHOT is the legacy spelling that predates SNAPSHOT.
var qualifiers = []string{"M", "RC", "BUILD-SNAPSHOT", "SNAPSHOT", "RELEASE"}

// MatchRange reports whether version falls inside rng. Supported forms are
// "[a,b]", "[a,b)", "(a,b]" and a bare lower bound "a" (inclusive).
func MatchRange(version, rng string) bool {
	rng = strings.TrimSpace(rng)
	if len(rng) >= 2 && strings.Contains(rng, ",") {
		open, end := rng[0], rng[len(rng)-1]
		lo, hi, _ := strings.Cut(rng[1:len(rng)-1], ",")
		lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
		switch {
		case open == '[' && end == ']':
			return CompareVersions(lo, version) <= 0 && CompareVersions(hi, version) >= 0
		case open == '[' && end == ')':
			return CompareVersions(lo, version) <= 0 && CompareVersions(hi, version) > 0
		case open == '(' && end == ']':
			return CompareVersions(lo, version) < 0 && CompareVersions(hi, version) >= 0
		}
	}
	return CompareVersions(rng, version) <= 0
}

// CompareVersions orders platform versions written either as
// "major.minor.patch.QUALIFIER" or "major.minor.patch-QUALIFIER". It returns
// a negative number, zero or a positive number when a is lower than, equal
// to or greater than b.
func CompareVersions(a, b string) int {
	pa, pb := versionParts(a), versionParts(b)
	for i := 0; i < 3; i++ {
		if d := leadingInt(part(pa, i)) - leadingInt(part(pb, i)); d != 0 {
			return d
		}
	}
	qa, qb := part(pa, 3), part(pb, 3)
	if qa == "" {
		qa = "RELEASE"
	}
	if qb == "" {
		qb = "RELEASE"
	}
	if d := qualifierRank(qa) - qualifierRank(qb); d != 0 {
		return d
	}
	if d := trailingInt(qa) - trailingInt(qb); d != 0 {
		return d
	}
	return strings.Compare(qa, qb)
}

func versionParts(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == '.' || r == '-' })
	if len(parts) == 5 {
		// "2.4.0.BUILD-SNAPSHOT" splits the qualifier in two.
		parts[3] = parts[3] + "-" + parts[4]
		parts = parts[:4]
	}
	return parts
}

func part(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

// trailingInt reads the milestone or candidate number, as in "M10".
func trailingInt(s string) int {
	start := len(s)
	for start > 0 && s[start-1] >= '0' && s[start-1] <= '9' {
		start--
	}
	n, _ := strconv.Atoi(s[start:])
	return n
}

func qualifierRank(q string) int {
	stripped := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, q)
	if i := slices.Index(qualifiers, stripped); i >= 0 {
		return i
	}
	return slices.Index(qualifiers, "RELEASE")
}
