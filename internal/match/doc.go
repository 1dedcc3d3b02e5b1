// Package match provides name normalization, Levenshtein distance calculation,
// type compatibility scoring, and candidate ranking for deducing which source
// accessor should feed a target field.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - ScoreTypeCompatibility: scores type compatibility using reflect
//   - RankCandidates: ranks candidate source accessors for a target field
package match
