package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"pathcaster/access"
	"pathcaster/mapping"
	"pathcaster/primitive"
)

// ErrBadDefault marks default literals that do not parse into the leaf type
// they should fill.
var ErrBadDefault = errors.New("default literal does not parse")

// readFunc reads the bound source value off a source pointer. A false
// boolean skips every write of the binding for this run.
type readFunc func(src any) (reflect.Value, bool, error)

// boundWrite converts the read value for one target slot and writes it.
type boundWrite struct {
	convert converter
	set     access.Setter
}

// bindField resolves a source-driven field binding into an executable
// Binding. The returned explanation is the conversion explanation for the
// first target, for the caller to fold into its tier's phrasing.
func (r *resolver) bindField(pair typePair, origin Origin, fb mapping.FieldBinding, depth int) (Binding, string, error) {
	if len(fb.Target) == 0 {
		return Binding{}, "", fmt.Errorf("binding for %q has no target", fb.Source.Path)
	}

	srcEntry := reflect.PointerTo(pair.Src)
	dstEntry := reflect.PointerTo(pair.Dst)

	srcPath, err := access.ParsePath(srcEntry, fb.Source.Path)
	if err != nil {
		return Binding{}, "", err
	}

	srcLeaf := srcPath.ValueType()

	read, err := r.buildRead(srcPath, fb.Read, fb.Default)
	if err != nil {
		return Binding{}, "", err
	}

	b := Binding{
		Origin:     origin,
		Source:     srcPath.Key(),
		Default:    fb.Default,
		Transform:  fb.Transform,
		Read:       effectiveRead(fb.Read),
		Write:      effectiveWrite(fb.Write),
		Hint:       fb.Source.Hint,
		Confidence: 1,
		read:       read,
	}

	firstExpl := ""

	for i, raw := range fb.Target {
		wp, err := r.writablePath(dstEntry, raw)
		if err != nil {
			return Binding{}, "", err
		}

		var (
			conv  converter
			strat Strategy
			expl  string
		)

		if fb.Transform != "" {
			conv, err = r.transformConverter(fb.Transform, srcLeaf, wp.ValueType(), fb.Source.Hint, depth)
			strat, expl = StrategyTransform, "transform"
		} else {
			conv, strat, expl, err = r.buildConverter(srcLeaf, wp.ValueType(), fb.Source.Hint, depth)
		}

		if err != nil {
			return Binding{}, "", fmt.Errorf("target %q: %w", raw, err)
		}

		w, err := r.buildWrite(wp, fb.Write, conv)
		if err != nil {
			return Binding{}, "", fmt.Errorf("target %q: %w", raw, err)
		}

		if i == 0 {
			b.Strategy, firstExpl = strat, expl
		}

		b.Targets = append(b.Targets, wp.Key())
		b.writes = append(b.writes, w)
	}

	return b, firstExpl, nil
}

// bindDefault resolves a source-less binding that fills its targets with a
// parsed literal on every run.
func (r *resolver) bindDefault(pair typePair, fb mapping.FieldBinding) (Binding, error) {
	if len(fb.Target) == 0 {
		return Binding{}, fmt.Errorf("default binding has no target")
	}

	dstEntry := reflect.PointerTo(pair.Dst)

	lit := *fb.Default

	b := Binding{
		Origin:      OriginFields,
		Strategy:    StrategyDefault,
		Default:     fb.Default,
		Write:       effectiveWrite(fb.Write),
		Confidence:  1,
		Explanation: "default value: " + lit,
		read: func(any) (reflect.Value, bool, error) {
			return reflect.Value{}, true, nil
		},
	}

	for _, raw := range fb.Target {
		wp, err := r.writablePath(dstEntry, raw)
		if err != nil {
			return Binding{}, err
		}

		val, err := parseDefault(lit, wp.ValueType())
		if err != nil {
			return Binding{}, fmt.Errorf("target %q: %w", raw, err)
		}

		w, err := r.buildWrite(wp, fb.Write, constConverter(val))
		if err != nil {
			return Binding{}, fmt.Errorf("target %q: %w", raw, err)
		}

		b.Targets = append(b.Targets, wp.Key())
		b.writes = append(b.writes, w)
	}

	return b, nil
}

// writablePath parses a target spelling and rewrites a trailing getter into
// its conventional setter, so "GetName()" and "SetName()" land on the same
// canonical key.
func (r *resolver) writablePath(dstEntry reflect.Type, raw string) (access.Path, error) {
	p, err := access.ParsePath(dstEntry, raw)
	if err != nil {
		return access.Path{}, fmt.Errorf("target %q: %w", raw, err)
	}

	wp, err := r.m.compiler.WritablePath(p)
	if err != nil {
		return access.Path{}, fmt.Errorf("target %q: %w", raw, err)
	}

	return wp, nil
}

// buildRead compiles the source chain under the effective read policy. A
// default literal turns the read into an option probe with a parsed
// fallback, so broken chains fill the target instead of skipping it.
func (r *resolver) buildRead(srcPath access.Path, pol mapping.ReadPolicy, def *string) (readFunc, error) {
	leaf := srcPath.ValueType()

	if def != nil {
		fallback, err := parseDefault(*def, leaf)
		if err != nil {
			return nil, err
		}

		og, err := r.m.optionGetter(srcPath)
		if err != nil {
			return nil, err
		}

		read := func(src any) (reflect.Value, bool, error) {
			if v, ok := og(src).Get(); ok {
				return leafValue(v, leaf), true, nil
			}

			return fallback, true, nil
		}

		return read, nil
	}

	switch pol {
	case mapping.ReadDefault, mapping.ReadZero:
		g, err := r.m.getter(srcPath, access.PolicyZero)
		if err != nil {
			return nil, err
		}

		return func(src any) (reflect.Value, bool, error) {
			return leafValue(g(src), leaf), true, nil
		}, nil

	case mapping.ReadStrict:
		g, err := r.m.getter(srcPath, access.PolicyRaw)
		if err != nil {
			return nil, err
		}

		return func(src any) (reflect.Value, bool, error) {
			return leafValue(g(src), leaf), true, nil
		}, nil

	case mapping.ReadSkip:
		og, err := r.m.optionGetter(srcPath)
		if err != nil {
			return nil, err
		}

		return func(src any) (reflect.Value, bool, error) {
			v, ok := og(src).Get()
			if !ok {
				return reflect.Value{}, false, nil
			}

			return leafValue(v, leaf), true, nil
		}, nil
	}

	return nil, fmt.Errorf("read policy %q is not supported", pol)
}

// buildWrite compiles the target chain under the effective write policy and
// pairs it with the value converter.
func (r *resolver) buildWrite(wp access.Path, pol mapping.WritePolicy, conv converter) (boundWrite, error) {
	var (
		set access.Setter
		err error
	)

	switch pol {
	case mapping.WriteDefault, mapping.WriteAlloc:
		set, err = r.m.setter(wp, access.PolicyAlloc)
	case mapping.WriteStrict:
		set, err = r.m.setter(wp, access.PolicyRaw)
	case mapping.WriteSkip:
		set, err = r.m.setter(wp, access.PolicySkip)
	default:
		err = fmt.Errorf("write policy %q is not supported", pol)
	}

	if err != nil {
		return boundWrite{}, err
	}

	return boundWrite{convert: conv, set: set}, nil
}

// transformConverter builds the transform pipeline for one target: adapt the
// source leaf to the transform input, apply it, then convert its output to
// the target leaf.
func (r *resolver) transformConverter(name string, srcLeaf, tgtLeaf reflect.Type, hint mapping.IntrospectionHint, depth int) (converter, error) {
	t, ok := r.m.transforms.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}

	feed, err := feedConverter(srcLeaf, t.Src)
	if err != nil {
		return nil, fmt.Errorf("transform %q: %w", name, err)
	}

	tail, _, _, err := r.buildConverter(t.Dst, tgtLeaf, hint, depth)
	if err != nil {
		return nil, fmt.Errorf("transform %q output: %w", name, err)
	}

	conv := func(v reflect.Value) (reflect.Value, bool, error) {
		out, ok, err := t.Apply(feed(v))
		if err != nil {
			return reflect.Value{}, false, err
		}

		if !ok {
			return reflect.Value{}, false, nil
		}

		return tail(out)
	}

	return conv, nil
}

// feedConverter adapts the source leaf to the transform's input type. Only
// assignment and plain conversion qualify; anything richer should be part of
// the transform itself.
func feedConverter(from, to reflect.Type) (func(reflect.Value) reflect.Value, error) {
	switch {
	case from == to, from.AssignableTo(to):
		return func(v reflect.Value) reflect.Value { return v }, nil
	case from.ConvertibleTo(to):
		return func(v reflect.Value) reflect.Value { return v.Convert(to) }, nil
	}

	return nil, fmt.Errorf("cannot feed %s into %s", typeLabel(from), typeLabel(to))
}

// parseDefault parses a default literal into the wanted leaf type using the
// textual conversion categories.
func parseDefault(lit string, want reflect.Type) (reflect.Value, error) {
	str := reflect.ValueOf(lit)

	if want == str.Type() {
		return str, nil
	}

	if primitive.FromReflectType(want) == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %q as %s", ErrBadDefault, lit, typeLabel(want))
	}

	const categories = primitive.CategoryTextNumber | primitive.CategoryTextualBool |
		primitive.CategoryDatetime | primitive.CategoryDuration | primitive.CategoryEnumString

	out, err := primitive.Convert(str, want, categories)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %q: %v", ErrBadDefault, lit, err)
	}

	return out, nil
}

func constConverter(v reflect.Value) converter {
	return func(reflect.Value) (reflect.Value, bool, error) {
		return v, true, nil
	}
}

// leafValue re-types a getter result. Nil-safe getters box nilable zero
// values as untyped nils, which reflect reports as invalid.
func leafValue(v any, want reflect.Type) reflect.Value {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Zero(want)
	}

	return rv
}

func effectiveRead(p mapping.ReadPolicy) mapping.ReadPolicy {
	if p == mapping.ReadDefault {
		return mapping.ReadZero
	}

	return p
}

func effectiveWrite(p mapping.WritePolicy) mapping.WritePolicy {
	if p == mapping.WriteDefault {
		return mapping.WriteAlloc
	}

	return p
}

// accessorKey identifies one compiled accessor in the mapper's cache.
type accessorKey struct {
	entry reflect.Type
	path  string
	write bool
	pol   access.Policy
}

func (m *Mapper) getter(p access.Path, pol access.Policy) (access.Getter, error) {
	key := accessorKey{entry: p.EntryType(), path: p.Key(), pol: pol}
	if fn, ok := m.accessors.Load(key); ok {
		return fn.(access.Getter), nil
	}

	var (
		g   access.Getter
		err error
	)

	switch pol {
	case access.PolicyRaw:
		g, err = m.compiler.Getter(p)
	case access.PolicyZero:
		g, err = m.compiler.NilSafeGetter(p)
	default:
		return nil, fmt.Errorf("getter policy %s: %w", pol, access.ErrWrongPolicy)
	}

	if err != nil {
		return nil, err
	}

	m.accessors.Store(key, g)

	return g, nil
}

func (m *Mapper) optionGetter(p access.Path) (access.OptionGetter, error) {
	key := accessorKey{entry: p.EntryType(), path: p.Key(), pol: access.PolicyOption}
	if fn, ok := m.accessors.Load(key); ok {
		return fn.(access.OptionGetter), nil
	}

	og, err := m.compiler.OptionGetter(p)
	if err != nil {
		return nil, err
	}

	m.accessors.Store(key, og)

	return og, nil
}

func (m *Mapper) setter(p access.Path, pol access.Policy) (access.Setter, error) {
	key := accessorKey{entry: p.EntryType(), path: p.Key(), write: true, pol: pol}
	if fn, ok := m.accessors.Load(key); ok {
		return fn.(access.Setter), nil
	}

	var (
		s   access.Setter
		err error
	)

	switch pol {
	case access.PolicyRaw:
		s, err = m.compiler.Setter(p)
	case access.PolicySkip:
		s, err = m.compiler.NilSafeSetter(p)
	case access.PolicyAlloc:
		s, err = m.compiler.AllocSetter(p)
	default:
		return nil, fmt.Errorf("setter policy %s: %w", pol, access.ErrWrongPolicy)
	}

	if err != nil {
		return nil, err
	}

	m.accessors.Store(key, s)

	return s, nil
}
