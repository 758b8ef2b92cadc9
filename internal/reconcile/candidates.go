package reconcile

import (
	"path"
	"strings"

	"reunite/internal/tuning"
)

// Generator produces the ordered candidate patterns probed against a
// directory's sidecar files. Order is a correctness property: the first
// accepting match must be deterministic, so patterns are never reordered.
type Generator struct {
	params tuning.Parameters
}

// NewGenerator builds a Generator around an immutable parameter set.
func NewGenerator(params tuning.Parameters) *Generator {
	return &Generator{params: params}
}

// NamedPatterns returns the exact-suffix tier followed by the generic
// wildcard tier for one media file. Exact suffix shapes come first so a
// vocabulary hit always beats a wildcard, and within each suffix the shapes
// that retain more of the media filename are probed before the ones that
// drop the extension or the duplicate counter.
func (g *Generator) NamedPatterns(base, ext, dupSuffix string) []string {
	base = escapeGlob(base)
	ext = escapeGlob(ext)
	dupSuffix = escapeGlob(dupSuffix)
	patterns := make([]string, 0, len(g.params.SuffixVariants)*5+6)
	for _, suffix := range g.params.SuffixVariants {
		suffix = escapeGlob(suffix)
		if dupSuffix != "" {
			// Canonical layout for duplicates puts the counter before the
			// extension; probing it first keeps a second pass over an
			// already-normalized tree rename-free.
			patterns = append(patterns, base+dupSuffix+ext+"."+suffix+".json")
		}
		patterns = append(patterns,
			base+ext+"."+suffix+dupSuffix+".json",
			base+ext+"."+suffix+".json",
			base+"."+suffix+dupSuffix+".json",
			base+"."+suffix+".json",
		)
	}
	patterns = append(patterns,
		base+ext+".*metadata"+dupSuffix+"*.json",
		base+ext+".*metadata*.json",
		base+ext+".*.json",
		base+".*metadata"+dupSuffix+"*.json",
		base+".*metadata*.json",
		base+".*.json",
	)
	return patterns
}

// TruncationPatterns sweeps prefix from its full length down to
// max(20, floor(len*MinPrefixFactor)), longest first so the least-truncated
// candidate always wins. The step grows with the distance to the floor so
// long names stay bounded to roughly TruncationStepDivisor probes. A prefix
// already shorter than the floor yields no patterns.
func (g *Generator) TruncationPatterns(prefix string) []string {
	runes := []rune(prefix)
	total := len(runes)
	minLen := int(float64(total) * g.params.MinPrefixFactor)
	if minLen < 20 {
		minLen = 20
	}
	step := (total - minLen) / g.params.TruncationStepDivisor
	if step < 1 {
		step = 1
	}

	var patterns []string
	for length := total; length >= minLen; length -= step {
		patterns = append(patterns, escapeGlob(string(runes[:length]))+"*.json")
	}
	return patterns
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)

// escapeGlob quotes glob metacharacters so filename fragments always match
// themselves literally. Without it a name containing an unbalanced '[' makes
// path.Match return ErrBadPattern and the file can never match any sidecar.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

// matchName reports whether a sidecar filename matches a shell-style glob
// pattern, case-insensitively. Literal fragments are escaped by the
// generators, so an error here means a broken suffix variant; it matches
// nothing.
func matchName(pattern, name string) bool {
	ok, err := path.Match(strings.ToLower(pattern), strings.ToLower(name))
	return err == nil && ok
}
