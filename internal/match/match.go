package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Thresholds for titles of at least longTitleLength runes.
const (
	longTitleLength  = 30
	longMaxDistance  = 0.15
	longMaxLenDiff   = 0.25
	longMinPrefix    = 0.85
	shortMinPrefix   = 0.85
	shortMinDistance = 2
)

// Accepts reports whether observed is close enough to expected to be treated
// as its sidecar title. The expected extension is a hard gate: a title that
// does not end with it is rejected regardless of distance, which keeps a .mov
// sidecar from claiming a .mp4 file with an identical stem. Casing and
// Unicode composition are folded for comparison only.
func Accepts(observed, expected, expectedExt string) bool {
	obs := []rune(strings.ToLower(norm.NFC.String(observed)))
	exp := []rune(strings.ToLower(norm.NFC.String(expected)))

	if !strings.HasSuffix(string(obs), strings.ToLower(expectedExt)) {
		return false
	}

	dist := Distance(string(obs), string(exp))
	prefix := commonPrefixLen(obs, exp)
	lenDiff := len(obs) - len(exp)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}

	if len(exp) >= longTitleLength {
		maxDist := int(float64(len(exp)) * longMaxDistance)
		maxLenDiff := int(float64(len(exp)) * longMaxLenDiff)
		minPrefix := int(float64(len(exp)) * longMinPrefix)
		return dist <= maxDist && prefix >= minPrefix && lenDiff <= maxLenDiff
	}

	maxDist := shortMinDistance
	if lenDiff > maxDist {
		maxDist = lenDiff
	}
	shorter := len(obs)
	if len(exp) < shorter {
		shorter = len(exp)
	}
	return dist <= maxDist && prefix >= int(float64(shorter)*shortMinPrefix)
}

// Distance is the classic insert/delete/substitute cost-1 edit distance,
// computed over runes.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// commonPrefixLen counts equal runes at equal positions from index 0 until
// the first mismatch. Strictly positional; not a longest common subsequence.
func commonPrefixLen(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
