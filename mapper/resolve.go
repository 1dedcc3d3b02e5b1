package mapper

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"pathcaster/internal/diagnostic"
	"pathcaster/internal/match"
	"pathcaster/mapping"
)

// Diagnostic codes emitted during resolution.
const (
	codeResolveFailed     = "resolve_failed"
	code121MappingError   = "121_mapping_error"
	codeFieldMappingError = "field_mapping_error"
	codeAutoMappingError  = "auto_mapping_error"
	codeIgnoreParseError  = "ignore_parse_error"
	codeMappingOverride   = "mapping_override"
	codeUnmappedField     = "unmapped_field"
	codeMaxRecursionDepth = "max_recursion_depth"
	codeMissingTransform  = "missing_transform"
	codeInvalidExpr       = "invalid_expr"
	codeDefaultParseError = "default_parse_error"
	codeTransformMismatch = "transform_mismatch"
)

// resolver builds TypePlans for every requested pair plus the nested pairs
// their conversions pull in. Plans stay local until commit publishes them,
// so a failed resolution never leaves half-built state on the mapper.
type resolver struct {
	m     *Mapper
	diags *diagnostic.Diagnostics
	plans map[typePair]*TypePlan
	order []typePair
	queue pairQueue
}

func newResolver(m *Mapper, diags *diagnostic.Diagnostics) *resolver {
	return &resolver{
		m:     m,
		diags: diags,
		plans: map[typePair]*TypePlan{},
		queue: newPairQueue(),
	}
}

// resolveDeclared resolves every type pair named by the rule file, then
// drains the nested pairs those resolutions queued.
func (r *resolver) resolveDeclared(file *mapping.File) {
	if file == nil {
		return
	}

	var pairs []typePair

	for i := range file.Mappings {
		tm := &file.Mappings[i]

		src, err := r.m.types.Resolve(tm.Source)
		if err != nil {
			r.diags.AddError(codeResolveFailed,
				fmt.Sprintf("source type %q: %v", tm.Source, err), tm.Pair(), "")

			continue
		}

		dst, err := r.m.types.Resolve(tm.Target)
		if err != nil {
			r.diags.AddError(codeResolveFailed,
				fmt.Sprintf("target type %q: %v", tm.Target, err), tm.Pair(), "")

			continue
		}

		pair := typePair{Src: src, Dst: dst}
		if _, dup := r.m.declared[pair]; dup {
			r.diags.AddWarning(codeResolveFailed,
				fmt.Sprintf("pair %s is declared twice, keeping the first declaration", tm.Pair()),
				tm.Pair(), "")

			continue
		}

		r.m.declared[pair] = tm
		pairs = append(pairs, pair)
	}

	for _, pair := range pairs {
		r.typeMapping(r.m.declared[pair], pair, 0)
	}

	r.drain()
}

// resolvePair resolves one pair requested outside construction, typically by
// a Map call. Rule-file entries still apply when the pair has one.
func (r *resolver) resolvePair(pair typePair) {
	if tm := r.m.declaredFor(pair); tm != nil {
		r.typeMapping(tm, pair, 0)
	} else {
		r.autoPair(pair, 0)
	}

	r.drain()
}

// drain resolves queued nested pairs until none remain. Pairs past the depth
// limit are reported and left without a plan; conversions that need them
// fail at run time.
func (r *resolver) drain() {
	for {
		pair, depth, ok := r.queue.Next()
		if !ok {
			return
		}

		if _, done := r.plans[pair]; done {
			continue
		}

		// Pairs published by an earlier resolution are reused as is.
		if _, published := r.m.pairs.Load(pair); published {
			continue
		}

		if depth > r.m.cfg.maxDepth {
			key := pair.label()
			r.diags.AddWarning(codeMaxRecursionDepth, "max recursion depth reached for "+key, key, "")

			continue
		}

		if tm := r.m.declaredFor(pair); tm != nil {
			r.typeMapping(tm, pair, depth)
			continue
		}

		r.autoPair(pair, depth)
	}
}

// commit publishes the resolved plans in resolution order.
func (r *resolver) commit() {
	for _, pair := range r.order {
		tp := r.plans[pair]
		r.m.pairs.Store(pair, tp)
		r.m.plan.Pairs = append(r.m.plan.Pairs, tp)
	}
}

func (r *resolver) newPlan(pair typePair) *TypePlan {
	tp := &TypePlan{Source: pair.Src, Target: pair.Dst}

	r.plans[pair] = tp
	r.order = append(r.order, pair)
	r.queue.Done(pair)

	return tp
}

// typeMapping resolves one declared pair through the rule tiers: 121
// shorthand, explicit fields, ignores, the frozen auto section, and finally
// best-effort matching for whatever is still unmapped. Higher tiers claim
// target keys; lower tiers reaching a claimed key are dropped.
func (r *resolver) typeMapping(tm *mapping.TypeMapping, pair typePair, depth int) {
	if _, ok := r.plans[pair]; ok {
		return
	}

	tp := r.newPlan(pair)

	pairLabel := tm.Pair()
	mapped := map[string]struct{}{}

	claim := func(key string) bool {
		if _, taken := mapped[key]; taken {
			return false
		}

		mapped[key] = struct{}{}

		return true
	}

	for _, srcKey := range slices.Sorted(maps.Keys(tm.OneToOne)) {
		tgtKey := tm.OneToOne[srcKey]

		fb := mapping.FieldBinding{
			Target: mapping.StringArray{tgtKey},
			Source: mapping.FieldRef{Path: srcKey},
		}

		b, expl, err := r.bindField(pair, OriginOneToOne, fb, depth)
		if err != nil {
			r.ruleError(code121MappingError, pairLabel, tgtKey, err)
			continue
		}

		key := b.target()
		if !claim(key) {
			r.diags.AddWarning(codeMappingOverride,
				fmt.Sprintf("field %q already mapped by higher priority rule", key), pairLabel, key)

			continue
		}

		b.Explanation = fmt.Sprintf("explicit 121 mapping: %s -> %s (%s)", b.Source, key, expl)

		tp.Bindings = append(tp.Bindings, b)
	}

	for i := range tm.Fields {
		fb := tm.Fields[i]

		b, err := r.fieldBinding(pair, OriginFields, fb, depth)
		if err != nil {
			r.ruleError(codeFieldMappingError, pairLabel, fb.Target.First(), err)
			continue
		}

		if b = r.claimTargets(b, claim, pairLabel, true); len(b.Targets) == 0 {
			continue
		}

		tp.Bindings = append(tp.Bindings, b)
	}

	dstEntry := reflect.PointerTo(pair.Dst)

	for _, raw := range tm.Ignore {
		wp, err := r.writablePath(dstEntry, raw)
		if err != nil {
			r.diags.AddWarning(codeIgnoreParseError, err.Error(), pairLabel, raw)
			continue
		}

		key := wp.Key()
		if !claim(key) {
			r.diags.AddWarning(codeMappingOverride,
				fmt.Sprintf("field %q already mapped by higher priority rule", key), pairLabel, key)

			continue
		}

		tp.Bindings = append(tp.Bindings, Binding{
			Origin:      OriginIgnore,
			Strategy:    StrategyIgnore,
			Targets:     []string{key},
			Confidence:  1,
			Explanation: "explicitly ignored",
		})
	}

	for i := range tm.Auto {
		fb := tm.Auto[i]

		b, err := r.fieldBinding(pair, OriginAuto, fb, depth)
		if err != nil {
			r.ruleError(codeAutoMappingError, pairLabel, fb.Target.First(), err)
			continue
		}

		// The auto section is frozen best-effort output, so losing a
		// target to a hand-written rule is expected and silent.
		if b = r.claimTargets(b, claim, pairLabel, false); len(b.Targets) == 0 {
			continue
		}

		tp.Bindings = append(tp.Bindings, b)
	}

	r.autoMatch(tp, pair, pairLabel, mapped, depth)

	sortPlan(tp)
}

// autoPair resolves a pair with no rule-file entry: best-effort matching
// only.
func (r *resolver) autoPair(pair typePair, depth int) {
	if _, ok := r.plans[pair]; ok {
		return
	}

	tp := r.newPlan(pair)

	r.autoMatch(tp, pair, pair.label(), map[string]struct{}{}, depth)

	sortPlan(tp)
}

// fieldBinding dispatches one fields-section entry on its value origin.
func (r *resolver) fieldBinding(pair typePair, origin Origin, fb mapping.FieldBinding, depth int) (Binding, error) {
	switch {
	case fb.HasExpr():
		b, err := r.bindExpr(pair, fb)
		if err != nil {
			return Binding{}, err
		}

		b.Origin = origin

		return b, nil

	case fb.HasSource():
		b, expl, err := r.bindField(pair, origin, fb, depth)
		if err != nil {
			return Binding{}, err
		}

		b.Explanation = ruleExplanation(origin, fb, expl)

		return b, nil

	case fb.HasDefault():
		b, err := r.bindDefault(pair, fb)
		if err != nil {
			return Binding{}, err
		}

		b.Origin = origin

		return b, nil
	}

	return Binding{}, fmt.Errorf("binding for %q has no source, expr, or default", fb.Target.First())
}

func ruleExplanation(origin Origin, fb mapping.FieldBinding, expl string) string {
	prefix := "field mapping: 1:1"
	if origin == OriginAuto {
		prefix = "auto mapping: 1:1"
	}

	switch {
	case fb.Transform != "":
		return prefix + " (transform)"
	case expl == "identical" || expl == "assignable":
		return prefix
	default:
		return prefix + " (" + expl + ")"
	}
}

// claimTargets drops the binding's targets that a higher tier already
// mapped; loud reports each drop as a mapping_override warning.
func (r *resolver) claimTargets(b Binding, claim func(string) bool, pairLabel string, loud bool) Binding {
	var (
		keep   []string
		writes []boundWrite
	)

	for i, key := range b.Targets {
		if !claim(key) {
			if loud {
				r.diags.AddWarning(codeMappingOverride,
					fmt.Sprintf("field %q already mapped by higher priority rule", key), pairLabel, key)
			}

			continue
		}

		keep = append(keep, key)
		writes = append(writes, b.writes[i])
	}

	b.Targets, b.writes = keep, writes

	return b
}

// ruleError classifies a binding failure: unknown transforms are hard
// errors, unparseable expressions and defaults degrade to warnings, and
// anything else carries the tier's code.
func (r *resolver) ruleError(defaultCode, pairLabel, fieldPath string, err error) {
	switch {
	case errors.Is(err, ErrUnknownTransform):
		r.diags.AddError(codeMissingTransform, err.Error(), pairLabel, fieldPath)
	case errors.Is(err, ErrInvalidExpr):
		r.diags.AddWarning(codeInvalidExpr, err.Error(), pairLabel, fieldPath)
	case errors.Is(err, ErrBadDefault):
		r.diags.AddWarning(codeDefaultParseError, err.Error(), pairLabel, fieldPath)
	default:
		r.diags.AddError(defaultCode, err.Error(), pairLabel, fieldPath)
	}
}

// autoMatch fills the still-unmapped target slots by ranking source
// accessors against each slot. Accepted matches become OriginMatched
// bindings; rejections are recorded with their reason.
func (r *resolver) autoMatch(tp *TypePlan, pair typePair, pairLabel string, mapped map[string]struct{}, depth int) {
	conv := r.m.compiler.Conventions()

	sources := sourceAccessors(pair.Src, conv)
	dstEntry := reflect.PointerTo(pair.Dst)

	for _, slot := range targetSlots(pair.Dst, conv) {
		wp, err := r.writablePath(dstEntry, slot.Path)
		if err != nil {
			continue
		}

		key := wp.Key()
		if _, taken := mapped[key]; taken {
			continue
		}

		cands := match.RankCandidates(slot.Name, slot.Type, sources)

		best := cands.HighConfidence(r.m.cfg.minScore, r.m.cfg.minGap)
		if best == nil {
			best = structuralMatch(cands, slot.Type)
		}

		if best == nil {
			r.rejectSlot(tp, pairLabel, key, slot.Type, cands, r.unmatchedReason(cands))
			continue
		}

		fb := mapping.FieldBinding{
			Target: mapping.StringArray{slot.Path},
			Source: mapping.FieldRef{Path: best.Source.Path},
		}

		b, expl, err := r.bindField(pair, OriginMatched, fb, depth)
		if err != nil {
			r.rejectSlot(tp, pairLabel, key, slot.Type, cands, err.Error())
			continue
		}

		b.Confidence = best.CombinedScore
		b.Explanation = fmt.Sprintf("auto-matched: %s -> %s (score: %.2f, %s)",
			best.Source.Path, slot.Path, best.CombinedScore, expl)

		mapped[key] = struct{}{}

		tp.Bindings = append(tp.Bindings, b)
	}
}

func (r *resolver) rejectSlot(tp *TypePlan, pairLabel, key string, slotType reflect.Type, cands match.CandidateList, reason string) {
	tp.Unmapped = append(tp.Unmapped, UnmappedTarget{
		Path:       key,
		Type:       slotType,
		Candidates: cands.Top(r.m.cfg.maxCandidates),
		Reason:     reason,
	})

	r.diags.AddWarning(codeUnmappedField,
		fmt.Sprintf("target field %q: %s", key, reason), pairLabel, key)
}

// unmatchedReason explains why no candidate was accepted, looking only at
// candidates that are at least transformable.
func (r *resolver) unmatchedReason(c match.CandidateList) string {
	var usable match.CandidateList

	for _, cand := range c {
		if cand.TypeCompat.Compatibility >= match.TypeNeedsTransform {
			usable = append(usable, cand)
		}
	}

	if len(usable) == 0 {
		return "no compatible source fields found"
	}

	best := usable[0]
	if best.CombinedScore < r.m.cfg.minScore {
		return fmt.Sprintf("best match %q (%.2f) below threshold %.2f",
			best.Source.Path, best.CombinedScore, r.m.cfg.minScore)
	}

	if len(usable) > 1 {
		if gap := usable[0].CombinedScore - usable[1].CombinedScore; gap < r.m.cfg.minGap {
			return fmt.Sprintf("ambiguous: top candidates %q (%.2f) and %q (%.2f) are too close",
				usable[0].Source.Path, usable[0].CombinedScore,
				usable[1].Source.Path, usable[1].CombinedScore)
		}
	}

	return "no high-confidence match"
}

// structuralMatch rescues strongly name-matched candidates whose types score
// incompatible only because both sides are container or struct shapes that
// need their own nested plan, like *store.Customer against *warehouse.Customer.
func structuralMatch(c match.CandidateList, target reflect.Type) *match.Candidate {
	const minNameScore = 0.8

	var best *match.Candidate

	for i := range c {
		cand := &c[i]
		if cand.NameScore < minNameScore {
			continue
		}

		if !structuralKin(cand.Source.Type, target) {
			continue
		}

		if best == nil || cand.NameScore > best.NameScore {
			best = cand
		}
	}

	return best
}

func structuralKin(src, dst reflect.Type) bool {
	s, d := derefOnce(src), derefOnce(dst)
	if s.Kind() != d.Kind() {
		return false
	}

	switch s.Kind() {
	case reflect.Struct:
		return isPlainStruct(s) && isPlainStruct(d)
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}

	return false
}

func derefOnce(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}

// sortPlan orders bindings by tier then first target, and unmapped slots by
// path, so plans render and execute deterministically.
func sortPlan(tp *TypePlan) {
	slices.SortStableFunc(tp.Bindings, func(a, b Binding) int {
		if a.Origin != b.Origin {
			return int(a.Origin) - int(b.Origin)
		}

		return strings.Compare(a.target(), b.target())
	})

	slices.SortFunc(tp.Unmapped, func(a, b UnmappedTarget) int {
		return strings.Compare(a.Path, b.Path)
	})
}

// pairQueue tracks nested pairs waiting for resolution. Next hands back the
// lexically smallest pending pair so nested resolution order is stable.
type pairQueue struct {
	pending map[typePair]int
	done    map[typePair]struct{}
}

func newPairQueue() pairQueue {
	return pairQueue{
		pending: map[typePair]int{},
		done:    map[typePair]struct{}{},
	}
}

func (q *pairQueue) Add(p typePair, depth int) {
	if _, ok := q.done[p]; ok {
		return
	}

	if d, ok := q.pending[p]; ok && d <= depth {
		return
	}

	q.pending[p] = depth
}

func (q *pairQueue) Next() (typePair, int, bool) {
	if len(q.pending) == 0 {
		return typePair{}, 0, false
	}

	var (
		best  typePair
		label string
	)

	for p := range q.pending {
		if l := p.label(); label == "" || l < label {
			best, label = p, l
		}
	}

	depth := q.pending[best]
	q.Done(best)

	return best, depth, true
}

func (q *pairQueue) Done(p typePair) {
	delete(q.pending, p)
	q.done[p] = struct{}{}
}
