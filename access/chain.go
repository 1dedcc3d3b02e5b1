package access

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrNotReadable = errors.New("setter method step cannot be read")

// hop is one compiled chain position, ready for replay.
//
// fn replays the hop verbatim and panics on nil links, exactly like the
// hand-written chain. read is the guarded flavor: it reports false instead
// of panicking when an embedded pointer inside the hop is nil. vivify is the
// auto-allocating flavor and is only built for setter chains.
type hop struct {
	step  Step
	out   reflect.Type
	guard bool // out is nilable, so the running value must be checked after this hop

	// parentWritable records whether a write into this hop's parent still
	// reaches the caller's instance. Setter compilation fills it in.
	parentWritable bool

	fn     stepFn
	read   func(reflect.Value) (reflect.Value, bool)
	vivify stepFn
}

// compileChain resolves the adjustment and the action for every step of a
// read chain anchored at entry.
func compileChain(entry reflect.Type, steps []Step) ([]hop, error) {
	chain := make([]hop, 0, len(steps))

	running := entry
	for i, s := range steps {
		h, err := compileHop(running, s)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, s, err)
		}

		chain = append(chain, h)
		running = h.out
	}

	return chain, nil
}

func compileHop(running reflect.Type, s Step) (hop, error) {
	switch s.kind {
	case StepField:
		return compileFieldHop(running, s)
	case StepGetter:
		return compileGetterHop(running, s)
	default:
		return hop{}, fmt.Errorf("%s: %w", s, ErrNotReadable)
	}
}

func compileFieldHop(running reflect.Type, s Step) (hop, error) {
	pre, err := conform(running, s.declaring)
	if err != nil {
		return hop{}, err
	}

	h := hop{step: s, out: s.value, guard: nilable(s.value)}

	idx := s.index
	if len(idx) == 1 {
		// The common case: a direct field, no embedded hops to guard.
		i0 := idx[0]
		h.fn = chainFn(pre, func(v reflect.Value) reflect.Value {
			return v.Field(i0)
		})
		h.read = alwaysOK(h.fn)
		h.vivify = h.fn

		return h, nil
	}

	h.fn = chainFn(pre, func(v reflect.Value) reflect.Value {
		return v.FieldByIndex(idx)
	})
	h.read = func(v reflect.Value) (reflect.Value, bool) {
		if pre != nil {
			v = pre(v)
		}

		return walkField(v, idx)
	}
	h.vivify = chainFn(pre, func(v reflect.Value) reflect.Value {
		return walkFieldAlloc(v, idx)
	})

	return h, nil
}

func compileGetterHop(running reflect.Type, s Step) (hop, error) {
	pre, err := conform(running, s.declaring)
	if err != nil {
		return hop{}, err
	}

	var call stepFn
	if s.declaring.Kind() == reflect.Interface {
		// Interface methods carry no Func; dispatch through the value's
		// method table instead.
		mi := s.method.Index
		call = func(v reflect.Value) reflect.Value {
			return v.Method(mi).Call(nil)[0]
		}
	} else {
		fn := s.method.Func
		call = func(v reflect.Value) reflect.Value {
			return fn.Call([]reflect.Value{v})[0]
		}
	}

	h := hop{step: s, out: s.value, guard: nilable(s.value)}
	h.fn = chainFn(pre, call)
	h.read = alwaysOK(h.fn)
	h.vivify = h.fn

	return h, nil
}

// chainFn composes an optional adjustment with a hop action.
func chainFn(pre, action stepFn) stepFn {
	if pre == nil {
		return action
	}

	return func(v reflect.Value) reflect.Value {
		return action(pre(v))
	}
}

func alwaysOK(fn stepFn) func(reflect.Value) (reflect.Value, bool) {
	return func(v reflect.Value) (reflect.Value, bool) {
		return fn(v), true
	}
}
