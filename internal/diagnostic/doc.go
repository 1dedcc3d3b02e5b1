// Package diagnostic provides structured warnings, errors, and
// "why this bound" explanations for mapping plan resolution.
//
// Key capabilities:
//   - Unbound target field warnings
//   - Ambiguous match reports with top-N candidates
//   - Unsafe conversion warnings
//   - Explanation of binding decisions
package diagnostic
