package match

import (
	"reflect"
	"sort"
)

// Source describes one candidate accessor on the source type: an exported
// struct field or a zero-argument getter. Path is the spelling the access
// layer compiles ("Email" or "GetEmail()").
type Source struct {
	Name string
	Path string
	Type reflect.Type
}

// Candidate represents a potential binding from a source accessor to a target field.
type Candidate struct {
	Source Source
	Target string

	// Scoring components
	NameScore  float64                 // Normalized Levenshtein similarity (0-1)
	TypeCompat TypeCompatibilityResult // Type compatibility result

	// Combined score for ranking (higher is better)
	CombinedScore float64

	// Metadata for debugging/explanation
	NormalizedSourceName string
	NormalizedTargetName string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates ranks potential source accessors for a target field.
// Returns candidates sorted by combined score (descending).
func RankCandidates(targetName string, targetType reflect.Type, sources []Source) CandidateList {
	var candidates CandidateList

	targetNorm := NormalizeIdent(targetName)
	targetLoose := NormalizeLoose(targetName)

	for _, source := range sources {
		sourceNorm := NormalizeIdent(source.Name)
		sourceLoose := NormalizeLoose(source.Name)

		// Name similarity: max of strict and loose comparison, so a getter
		// spelling never scores worse than its bare field twin.
		nameScore := LevenshteinNormalized(sourceNorm, targetNorm)
		if loose := LevenshteinNormalized(sourceLoose, targetLoose); loose > nameScore {
			nameScore = loose
		}

		// Check type compatibility
		var typeCompat TypeCompatibilityResult
		if source.Type != nil && targetType != nil {
			typeCompat = ScorePointerCompatibility(source.Type, targetType)
		} else {
			typeCompat = TypeCompatibilityResult{
				Compatibility: TypeIncompatible,
				Reason:        "type information unavailable",
			}
		}

		combinedScore := calculateCombinedScore(nameScore, typeCompat.Compatibility)

		candidates = append(candidates, Candidate{
			Source:               source,
			Target:               targetName,
			NameScore:            nameScore,
			TypeCompat:           typeCompat,
			CombinedScore:        combinedScore,
			NormalizedSourceName: sourceNorm,
			NormalizedTargetName: targetNorm,
		})
	}

	// Sort by combined score (descending), then by name for determinism
	sort.Sort(candidates)

	return candidates
}

// calculateCombinedScore computes a combined score from name similarity and type compatibility.
// Weights:
//   - Name similarity: 60% (0.0-0.6)
//   - Type compatibility: 40% (0.0-0.4)
func calculateCombinedScore(nameScore float64, typeCompat TypeCompatibility) float64 {
	const (
		nameWeight = 0.6
		typeWeight = 0.4
	)

	// Normalize type compatibility to 0-1 range
	var typeScore float64
	switch typeCompat {
	case TypeIdentical:
		typeScore = 1.0
	case TypeAssignable:
		typeScore = 0.9
	case TypeConvertible:
		typeScore = 0.7
	case TypeNeedsTransform:
		typeScore = 0.4
	case TypeIncompatible:
		typeScore = 0.0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by combined score descending, then by source name for determinism.
func (c CandidateList) Less(i, j int) bool {
	// Higher score comes first
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}
	// Tie-breaker: alphabetical by source name
	return c[i].Source.Name < c[j].Source.Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}
	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}
	diff := c[0].CombinedScore - c[1].CombinedScore
	return diff < threshold
}

// AboveThreshold returns candidates with combined score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.CombinedScore >= threshold {
			result = append(result, cand)
		}
	}
	return result
}

// HighConfidence returns the best candidate if it's significantly better than alternatives.
// Returns nil if no clear winner exists.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	if len(c) == 0 {
		return nil
	}
	best := &c[0]

	// Must meet minimum score threshold
	if best.CombinedScore < minScore {
		return nil
	}

	// Must be compatible (at least needs transform)
	if best.TypeCompat.Compatibility < TypeNeedsTransform {
		return nil
	}

	// If there's a second candidate, must have sufficient gap
	if len(c) > 1 {
		gap := c[0].CombinedScore - c[1].CombinedScore
		if gap < minGap {
			return nil
		}
	}

	return best
}

// Confidence thresholds for auto-accepting matches.
const (
	// DefaultMinScore is the minimum combined score for auto-acceptance.
	DefaultMinScore = 0.7
	// DefaultMinGap is the minimum score gap between top candidates.
	DefaultMinGap = 0.15
	// DefaultAmbiguityThreshold is the score difference that marks ambiguity.
	DefaultAmbiguityThreshold = 0.1
)
