package mapper

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"pathcaster/access"
	"pathcaster/internal/diagnostic"
	"pathcaster/mapping"
)

var (
	ErrBadDestination = errors.New("destination must be a non-nil struct pointer")
	ErrBadSource      = errors.New("source must be a struct or non-nil struct pointer")
)

// Mapper maps values between struct types at run time. Construction resolves
// every pair the rule file declares; pairs first seen by a Map call are
// resolved on demand and cached.
//
// A Mapper is safe for concurrent use once New returns.
type Mapper struct {
	cfg        config
	compiler   *access.Compiler
	types      *typeRegistry
	transforms *transformRegistry
	file       *mapping.File
	plan       *Plan

	declared map[typePair]*mapping.TypeMapping

	pairs     sync.Map // typePair -> *TypePlan
	accessors sync.Map // accessorKey -> compiled accessor

	mu sync.Mutex // guards on-demand resolution and plan growth
}

// New builds a Mapper from the given options. Registration problems and rule
// file errors fail construction; resolution problems accumulate on the plan
// as diagnostics unless Strict is set, in which case any diagnostic fails
// construction too.
func New(opts ...Option) (*Mapper, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Mapper{
		cfg:        cfg,
		compiler:   access.NewCompiler(cfg.conventions),
		types:      newTypeRegistry(),
		transforms: newTransformRegistry(),
		file:       cfg.rules,
		plan:       &Plan{},
		declared:   map[typePair]*mapping.TypeMapping{},
	}

	for _, v := range cfg.types {
		if err := m.types.Register(v); err != nil {
			return nil, fmt.Errorf("mapper: register type: %w", err)
		}
	}

	for _, fn := range cfg.transforms {
		if err := m.transforms.Add(fn); err != nil {
			return nil, fmt.Errorf("mapper: register transform: %w", err)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.named)) {
		if err := m.transforms.AddNamed(name, cfg.named[name]); err != nil {
			return nil, fmt.Errorf("mapper: register transform %q: %w", name, err)
		}
	}

	if m.file != nil {
		if diags := mapping.Validate(m.file); diags.HasErrors() {
			return nil, fmt.Errorf("mapper: invalid rules: %w", diags.Error())
		}

		m.checkTransformDecls()
	}

	r := newResolver(m, &m.plan.Diagnostics)
	r.resolveDeclared(m.file)

	if m.cfg.strict {
		promoteWarnings(&m.plan.Diagnostics)

		if err := m.plan.Diagnostics.Error(); err != nil {
			return nil, fmt.Errorf("mapper: strict resolution: %w", err)
		}
	}

	r.commit()

	return m, nil
}

// Map copies src into dst through the pair's resolved plan. dst must be a
// non-nil struct pointer; src may be a struct value or struct pointer.
func (m *Mapper) Map(dst, src any) error {
	dv := reflect.ValueOf(dst)
	if !dv.IsValid() || dv.Kind() != reflect.Pointer || dv.IsNil() ||
		dv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("mapper: %w, got %T", ErrBadDestination, dst)
	}

	sv := reflect.ValueOf(src)
	if !sv.IsValid() {
		return fmt.Errorf("mapper: %w, got %T", ErrBadSource, src)
	}

	var srcPtr reflect.Value

	switch {
	case sv.Kind() == reflect.Pointer && sv.Type().Elem().Kind() == reflect.Struct:
		if sv.IsNil() {
			return fmt.Errorf("mapper: %w, got nil %T", ErrBadSource, src)
		}

		srcPtr = sv

	case sv.Kind() == reflect.Struct:
		srcPtr = reflect.New(sv.Type())
		srcPtr.Elem().Set(sv)

	default:
		return fmt.Errorf("mapper: %w, got %T", ErrBadSource, src)
	}

	pair := typePair{Src: srcPtr.Type().Elem(), Dst: dv.Type().Elem()}

	tp, err := m.planFor(pair)
	if err != nil {
		return err
	}

	return tp.run(dst, srcPtr.Interface())
}

// Into maps src into a fresh D value.
func Into[D any](m *Mapper, src any) (D, error) {
	var dst D

	if err := m.Map(&dst, src); err != nil {
		return dst, err
	}

	return dst, nil
}

// planFor returns the pair's plan, resolving it on demand the first time the
// pair is seen.
func (m *Mapper) planFor(pair typePair) (*TypePlan, error) {
	if tp, ok := m.pairs.Load(pair); ok {
		return tp.(*TypePlan), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tp, ok := m.pairs.Load(pair); ok {
		return tp.(*TypePlan), nil
	}

	var diags diagnostic.Diagnostics

	r := newResolver(m, &diags)
	r.resolvePair(pair)

	if m.cfg.strict {
		promoteWarnings(&diags)

		if err := diags.Error(); err != nil {
			m.plan.Diagnostics.Merge(diags)

			return nil, fmt.Errorf("mapper: strict resolution of %s: %w", pair.label(), err)
		}
	}

	m.plan.Diagnostics.Merge(diags)
	r.commit()

	tp, ok := m.pairs.Load(pair)
	if !ok {
		return nil, fmt.Errorf("mapper: no mapping plan for %s", pair.label())
	}

	return tp.(*TypePlan), nil
}

// declaredFor finds the rule-file entry for a pair. Pairs whose type names
// did not resolve during construction are matched lazily by label, so rules
// still apply when the types were never registered but Map presents them.
func (m *Mapper) declaredFor(pair typePair) *mapping.TypeMapping {
	if tm, ok := m.declared[pair]; ok {
		return tm
	}

	if m.file == nil {
		return nil
	}

	srcLabel, dstLabel := typeLabel(pair.Src), typeLabel(pair.Dst)

	for i := range m.file.Mappings {
		tm := &m.file.Mappings[i]
		if tm.Source == srcLabel && tm.Target == dstLabel {
			m.declared[pair] = tm

			return tm
		}
	}

	return nil
}

// Plan returns the resolved plan with its diagnostics. The plan grows as Map
// resolves new pairs on demand.
func (m *Mapper) Plan() *Plan {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.plan
}

// Freeze renders the current resolution as a rule file: declared sections
// are carried over and every auto-matched binding is written into the pair's
// auto section, ready for review and pinning.
func (m *Mapper) Freeze() *mapping.File {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := &mapping.File{}

	if m.file != nil {
		out.Version = m.file.Version
		out.Transforms = slices.Clone(m.file.Transforms)
	}

	for _, tp := range m.plan.Pairs {
		pair := typePair{Src: tp.Source, Dst: tp.Target}

		tm := mapping.TypeMapping{
			Source: typeLabel(tp.Source),
			Target: typeLabel(tp.Target),
		}

		if decl, ok := m.declared[pair]; ok {
			tm.Source, tm.Target = decl.Source, decl.Target
			tm.OneToOne = maps.Clone(decl.OneToOne)
			tm.Fields = slices.Clone(decl.Fields)
			tm.Ignore = slices.Clone(decl.Ignore)
		}

		for _, b := range tp.Bindings {
			if b.Origin != OriginMatched {
				continue
			}

			tm.Auto = append(tm.Auto, mapping.FieldBinding{
				Target: slices.Clone(b.Targets),
				Source: mapping.FieldRef{Path: b.Source},
			})
		}

		out.Mappings = append(out.Mappings, tm)
	}

	return out
}

// checkTransformDecls cross-checks the rule file's transform declarations
// against the registered functions.
func (m *Mapper) checkTransformDecls() {
	for _, decl := range m.file.Transforms {
		t, ok := m.transforms.Lookup(decl.Name)
		if !ok {
			m.plan.Diagnostics.AddWarning(codeTransformMismatch,
				fmt.Sprintf("transform %q is declared but not registered", decl.Name), "", decl.Name)

			continue
		}

		if decl.SourceType != "" && decl.SourceType != typeLabel(t.Src) {
			m.plan.Diagnostics.AddWarning(codeTransformMismatch,
				fmt.Sprintf("transform %q takes %s, declared %s",
					decl.Name, typeLabel(t.Src), decl.SourceType), "", decl.Name)
		}

		if decl.TargetType != "" && decl.TargetType != typeLabel(t.Dst) {
			m.plan.Diagnostics.AddWarning(codeTransformMismatch,
				fmt.Sprintf("transform %q returns %s, declared %s",
					decl.Name, typeLabel(t.Dst), decl.TargetType), "", decl.Name)
		}
	}
}

// promoteWarnings reclassifies every warning as an error, for strict mode.
func promoteWarnings(d *diagnostic.Diagnostics) {
	for _, w := range d.Warnings {
		w.Severity = diagnostic.DiagnosticError
		d.Errors = append(d.Errors, w)
	}

	d.Warnings = nil
}
