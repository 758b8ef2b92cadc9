package tuning

// Parameters controls candidate generation and fuzzy title matching. A value
// is supplied once per run, either from Defaults or from Analyze, and is
// never modified by the engine.
type Parameters struct {
	// SuffixVariants is the ordered sidecar suffix vocabulary probed by the
	// exact-suffix pattern tier, most specific first.
	SuffixVariants []string
	// AverageNameLength is the estimated mean filename length of the tree.
	AverageNameLength float64
	// MinPrefixFactor bounds how far the truncation sweep may shorten a
	// prefix, as a fraction of its full length. Must be in (0, 1].
	MinPrefixFactor float64
	// TruncationStepDivisor controls sweep granularity: larger divisors
	// produce finer steps and more probes.
	TruncationStepDivisor int
}

// defaultSuffixVariants mirrors the progressively truncated vocabulary the
// export process produces when it cuts "supplemental-metadata" to fit a
// filename length limit.
var defaultSuffixVariants = []string{
	"supplemental-metadata", "supplemental-metadat", "supplemental-meta",
	"supplemental-met", "supplemental-me", "supplemental-m", "supplemental-",
	"supplementa", "supplement", "supplemen", "suppleme", "supplem",
	"supple", "suppl", "supp", "sup", "su", "s",
}

// Defaults returns the tuning used when pre-analysis is skipped.
func Defaults() Parameters {
	return Parameters{
		SuffixVariants:        append([]string(nil), defaultSuffixVariants...),
		AverageNameLength:     30,
		MinPrefixFactor:       0.7,
		TruncationStepDivisor: 20,
	}
}
