package access

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNeedPointer = errors.New("setter requires a pointer, interface, or map entry type")
	ErrUnwritable  = errors.New("write would mutate a copy")
	ErrNotWritable = errors.New("final step cannot be written")
	ErrCannotAlloc = errors.New("link type cannot be auto-allocated")
)

// Setter compiles p into its raw writing closure: intermediate hops are
// replayed verbatim and a nil link panics, exactly like the hand-written
// assignment would. The empty path has no slot, so its setter is a no-op.
func (c *Compiler) Setter(p Path) (Setter, error) {
	if err := c.checkPath(p); err != nil {
		return nil, err
	}
	if len(p.steps) == 0 {
		return func(any, any) {}, nil
	}

	sc, err := compileSetterChain(p)
	if err != nil {
		return nil, fmt.Errorf("compile setter for %s: %w", p, err)
	}

	entry := p.entry
	hops, w := sc.hops, sc.w

	return func(instance, value any) {
		leaf := prepValue(value, w.want)

		v := entryValue(instance, entry)
		for i := range hops {
			v = hops[i].fn(v)
		}

		w.set(v, leaf)
	}, nil
}

// NilSafeSetter compiles p into a writing closure that silently abandons the
// write on the first nil link, the entry instance included. An abandoned
// write leaves the object graph untouched.
func (c *Compiler) NilSafeSetter(p Path) (Setter, error) {
	if err := c.checkPath(p); err != nil {
		return nil, err
	}
	if len(p.steps) == 0 {
		return func(any, any) {}, nil
	}

	sc, err := compileSetterChain(p)
	if err != nil {
		return nil, fmt.Errorf("compile nil-safe setter for %s: %w", p, err)
	}

	entry := p.entry
	hops, w := sc.hops, sc.w

	return func(instance, value any) {
		leaf := prepValue(value, w.want)

		v := entryValue(instance, entry)
		if v.IsNil() {
			return
		}

		for i := range hops {
			next, ok := hops[i].read(v)
			if !ok || (hops[i].guard && next.IsNil()) {
				return
			}

			v = next
		}

		w.setSafe(v, leaf)
	}, nil
}

// AllocSetter compiles p into a writing closure that allocates every missing
// link, attaches it to its parent, and then performs the write. A field link
// is attached by assigning the slot; a getter link is attached through the
// setter method derived from the getter's name by the compiler's convention
// table. Exactly one allocation happens per nil link.
//
// The entry instance itself has no parent slot, so a nil entry abandons the
// write like NilSafeSetter does.
func (c *Compiler) AllocSetter(p Path) (Setter, error) {
	if err := c.checkPath(p); err != nil {
		return nil, err
	}
	if len(p.steps) == 0 {
		return func(any, any) {}, nil
	}

	sc, err := compileSetterChain(p)
	if err != nil {
		return nil, fmt.Errorf("compile alloc setter for %s: %w", p, err)
	}

	vivs, err := c.compileVivifiers(p.entry, sc.hops)
	if err != nil {
		return nil, fmt.Errorf("compile alloc setter for %s: %w", p, err)
	}

	entry := p.entry
	hops, w := sc.hops, sc.w

	return func(instance, value any) {
		leaf := prepValue(value, w.want)

		v := entryValue(instance, entry)
		if v.IsNil() {
			return
		}

		for i := range hops {
			next := hops[i].vivify(v)
			if hops[i].guard && next.IsNil() {
				fresh := vivs[i].make()
				vivs[i].attach(v, fresh)
				next = fresh
			}

			v = next
		}

		w.setAlloc(v, leaf)
	}, nil
}

// WritablePath rewrites a reading path into its writing twin: a final getter
// step is replaced by the conventional setter derived from its name, with the
// compiler's rewrite table deciding the spelling. Paths already ending in a
// field or setter step come back unchanged, so callers can feed any path
// through before compiling a setter for it.
func (c *Compiler) WritablePath(p Path) (Path, error) {
	n := len(p.steps)
	if n == 0 {
		return p, nil
	}

	last := p.steps[n-1]
	if last.kind != StepGetter {
		return p, nil
	}

	set, err := c.resolveSetter(last.declaring, last.name, last.value)
	if err != nil {
		return Path{}, fmt.Errorf("writable path for %s: %w", p, err)
	}

	steps := append(p.Steps()[:n-1], set)

	return NewPath(p.entry, steps...)
}

// setterChain is the compiled body of a setter: the intermediate read hops
// and the final write hop.
type setterChain struct {
	hops []hop
	w    writer
}

func compileSetterChain(p Path) (setterChain, error) {
	if !writableEntry(p.entry) {
		return setterChain{}, fmt.Errorf("entry %s: %w", p.entry, ErrNeedPointer)
	}

	n := len(p.steps)

	hops, err := compileChain(p.entry, p.steps[:n-1])
	if err != nil {
		return setterChain{}, err
	}

	// Track whether mutations through the running value still reach the
	// caller's instance. Reference kinds re-root the chain; a getter
	// returning a plain value hands out a copy.
	writable := true
	for i := range hops {
		hops[i].parentWritable = writable

		switch {
		case refKind(hops[i].out):
			writable = true
		case hops[i].step.kind == StepGetter:
			writable = false
		}
	}

	last := p.steps[n-1]
	if !writable {
		return setterChain{}, fmt.Errorf("final step %s: %w", last, ErrUnwritable)
	}

	running := p.entry
	if n > 1 {
		running = hops[n-2].out
	}

	w, err := compileWriter(running, last)
	if err != nil {
		return setterChain{}, err
	}

	return setterChain{hops: hops, w: w}, nil
}

// writableEntry reports whether mutations through an instance of t are
// visible to the caller holding it.
func writableEntry(t reflect.Type) bool {
	switch t.Kind() {
	default:
		return false
	case reflect.Ptr, reflect.Interface, reflect.Map:
		return true
	}
}

// writer is the compiled final hop of a setter chain. The three flavors
// differ only in how a nil embedded pointer inside a final field step is
// treated: panic, abandon, or allocate.
type writer struct {
	want     reflect.Type
	set      func(parent, value reflect.Value)
	setSafe  func(parent, value reflect.Value) bool
	setAlloc func(parent, value reflect.Value)
}

func compileWriter(running reflect.Type, s Step) (writer, error) {
	switch s.kind {
	case StepField:
		return compileFieldWriter(running, s)
	case StepSetter:
		return compileMethodWriter(running, s)
	default:
		return writer{}, fmt.Errorf("final step %s: %w", s, ErrNotWritable)
	}
}

func compileFieldWriter(running reflect.Type, s Step) (writer, error) {
	pre, err := conform(running, s.declaring)
	if err != nil {
		return writer{}, err
	}

	w := writer{want: s.value}

	idx := s.index
	if len(idx) == 1 {
		i0 := idx[0]
		set := func(parent, value reflect.Value) {
			if pre != nil {
				parent = pre(parent)
			}
			parent.Field(i0).Set(value)
		}

		w.set = set
		w.setSafe = func(parent, value reflect.Value) bool {
			set(parent, value)
			return true
		}
		w.setAlloc = set

		return w, nil
	}

	w.set = func(parent, value reflect.Value) {
		if pre != nil {
			parent = pre(parent)
		}
		parent.FieldByIndex(idx).Set(value)
	}
	w.setSafe = func(parent, value reflect.Value) bool {
		if pre != nil {
			parent = pre(parent)
		}

		slot, ok := walkField(parent, idx)
		if !ok {
			return false
		}

		slot.Set(value)

		return true
	}
	w.setAlloc = func(parent, value reflect.Value) {
		if pre != nil {
			parent = pre(parent)
		}
		walkFieldAlloc(parent, idx).Set(value)
	}

	return w, nil
}

func compileMethodWriter(running reflect.Type, s Step) (writer, error) {
	pre, err := conform(running, s.declaring)
	if err != nil {
		return writer{}, err
	}

	var call func(parent, value reflect.Value)
	if s.declaring.Kind() == reflect.Interface {
		mi := s.method.Index
		call = func(parent, value reflect.Value) {
			parent.Method(mi).Call([]reflect.Value{value})
		}
	} else {
		fn := s.method.Func
		call = func(parent, value reflect.Value) {
			fn.Call([]reflect.Value{parent, value})
		}
	}

	if pre != nil {
		inner := call
		call = func(parent, value reflect.Value) {
			inner(pre(parent), value)
		}
	}

	return writer{
		want: s.value,
		set:  call,
		setSafe: func(parent, value reflect.Value) bool {
			call(parent, value)
			return true
		},
		setAlloc: call,
	}, nil
}

// vivifier builds and attaches one missing link.
type vivifier struct {
	make   func() reflect.Value
	attach func(parent, fresh reflect.Value)
}

// compileVivifiers prepares a vivifier for every guarded intermediate hop.
// Hops of value kinds can never be nil and get none.
func (c *Compiler) compileVivifiers(entry reflect.Type, hops []hop) ([]vivifier, error) {
	vivs := make([]vivifier, len(hops))

	parentType := entry
	for i := range hops {
		if hops[i].guard {
			viv, err := c.compileVivifier(parentType, hops[i])
			if err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i, hops[i].step, err)
			}

			vivs[i] = viv
		}

		parentType = hops[i].out
	}

	return vivs, nil
}

func (c *Compiler) compileVivifier(parentType reflect.Type, h hop) (vivifier, error) {
	if !h.parentWritable {
		return vivifier{}, ErrUnwritable
	}

	mk, err := newLink(h.out)
	if err != nil {
		return vivifier{}, err
	}

	s := h.step
	if s.kind == StepField {
		pre, err := conform(parentType, s.declaring)
		if err != nil {
			return vivifier{}, err
		}

		idx := s.index

		return vivifier{
			make: mk,
			attach: func(parent, fresh reflect.Value) {
				if pre != nil {
					parent = pre(parent)
				}
				walkFieldAlloc(parent, idx).Set(fresh)
			},
		}, nil
	}

	set, err := c.resolveSetter(s.declaring, s.name, s.value)
	if err != nil {
		return vivifier{}, err
	}

	w, err := compileMethodWriter(parentType, set)
	if err != nil {
		return vivifier{}, err
	}

	return vivifier{make: mk, attach: w.set}, nil
}

// newLink builds the constructor for an absent link of type t. Interfaces,
// funcs, and chans have no canonical fresh value, so paths with such links
// refuse to compile under PolicyAlloc.
func newLink(t reflect.Type) (func() reflect.Value, error) {
	switch t.Kind() {
	default:
		return nil, fmt.Errorf("%s: %w", t, ErrCannotAlloc)
	case reflect.Ptr:
		elem := t.Elem()
		return func() reflect.Value { return reflect.New(elem) }, nil
	case reflect.Map:
		return func() reflect.Value { return reflect.MakeMap(t) }, nil
	case reflect.Slice:
		return func() reflect.Value { return reflect.MakeSlice(t, 0, 0) }, nil
	}
}
