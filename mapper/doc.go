// Package mapper executes struct-to-struct mappings at runtime over compiled
// access paths.
//
// A Mapper is built once from options (rules, example types, transforms) and
// is then safe for concurrent use:
//
//	rules, _ := mapping.LoadFile("rules.yaml")
//	m, err := mapper.New(
//		mapper.WithRules(rules),
//		mapper.WithTypes(store.Order{}, warehouse.Order{}),
//		mapper.WithTransforms(CentsToDecimal),
//	)
//	...
//	var out warehouse.Order
//	err = m.Map(&out, order)
//
// Resolution pipeline per type pair:
//  1. Apply YAML-pinned rules in priority order (121 > fields > ignore > auto)
//  2. For remaining target slots, rank source candidates with the fuzzy
//     matcher and auto-accept only on high confidence
//  3. Compile every binding into accessor closures and a value converter
//  4. Emit diagnostics (unmapped targets, overrides, missing transforms)
//
// Nested struct pairs discovered during resolution are resolved with the
// same pipeline and invoked through the plan cache, so cyclic type graphs
// terminate. Pairs never declared in the rules are resolved on first use by
// auto-matching alone.
package mapper
