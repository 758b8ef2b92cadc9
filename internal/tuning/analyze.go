package tuning

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"reunite/internal/names"
)

// Per-directory cap on filename length samples; keeps analysis cheap on
// directories with tens of thousands of entries.
const sampleLimitPerDir = 1000

// coreVariants are always probed first regardless of what the tree contains.
var coreVariants = []string{"supplemental-metadata", "metadata", "suppl"}

// SuffixCount pairs an observed sidecar suffix with its occurrence count.
type SuffixCount struct {
	Suffix string
	Count  int
}

// Analysis summarizes a pre-analysis pass over an export tree.
type Analysis struct {
	Directories       int
	Sidecars          int
	SampledNames      int
	AverageNameLength float64
	MedianNameLength  float64
	Suffixes          []SuffixCount
	Parameters        Parameters
}

// Analyze walks root, samples filename lengths, and tallies the sidecar
// suffix vocabulary, then derives tuning parameters from the aggregates.
func Analyze(root string) (*Analysis, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("analyze root %q: not a directory", root)
	}

	analysis := &Analysis{}
	var lengths []int
	suffixCounts := map[string]int{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			analysis.Directories++
			sampled := 0
			entries, readErr := os.ReadDir(path)
			if readErr != nil {
				return nil
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				name := entry.Name()
				if sampled < sampleLimitPerDir {
					lengths = append(lengths, len([]rune(name)))
					sampled++
				}
				if names.IsSidecar(name) {
					analysis.Sidecars++
					if suffix := sidecarSuffix(name); suffix != "" {
						suffixCounts[suffix]++
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	analysis.SampledNames = len(lengths)
	analysis.AverageNameLength, analysis.MedianNameLength = lengthStats(lengths)
	analysis.Suffixes = rankSuffixes(suffixCounts)
	analysis.Parameters = deriveParameters(analysis.AverageNameLength, analysis.Suffixes)
	return analysis, nil
}

// sidecarSuffix extracts the suffix vocabulary of a sidecar filename: the
// dot-joined segments after the first dot of the stem. The media extension
// embedded in the name stays part of the suffix on purpose; it is what the
// export actually wrote.
func sidecarSuffix(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	if idx := strings.IndexByte(stem, '.'); idx >= 0 {
		return stem[idx+1:]
	}
	return ""
}

func lengthStats(lengths []int) (mean, median float64) {
	if len(lengths) == 0 {
		// Matches the default average when the tree is empty.
		return 30, 30
	}
	total := 0
	for _, l := range lengths {
		total += l
	}
	mean = float64(total) / float64(len(lengths))

	sorted := append([]int(nil), lengths...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		median = float64(sorted[mid])
	} else {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return mean, median
}

func rankSuffixes(counts map[string]int) []SuffixCount {
	ranked := make([]SuffixCount, 0, len(counts))
	for suffix, count := range counts {
		ranked = append(ranked, SuffixCount{Suffix: suffix, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Suffix < ranked[j].Suffix
	})
	return ranked
}

// deriveParameters applies the tuning heuristics: core variants always lead,
// followed by the ten most common observed suffixes; longer average names get
// a higher prefix floor and a coarser sweep.
func deriveParameters(avgLen float64, ranked []SuffixCount) Parameters {
	isCore := map[string]bool{}
	for _, v := range coreVariants {
		isCore[v] = true
	}

	variants := append([]string(nil), coreVariants...)
	added := 0
	for _, sc := range ranked {
		if added >= 10 {
			break
		}
		if isCore[sc.Suffix] {
			continue
		}
		variants = append(variants, sc.Suffix)
		added++
	}

	params := Parameters{
		SuffixVariants:        variants,
		AverageNameLength:     avgLen,
		MinPrefixFactor:       0.7,
		TruncationStepDivisor: 15,
	}
	if avgLen >= 50 {
		params.MinPrefixFactor = 0.75
		params.TruncationStepDivisor = 10
	}
	return params
}
