// Package access compiles member access paths into reusable accessor
// closures.
//
// An access path is an ordered chain of member hops (struct fields and
// getter/setter methods) anchored at an entry type. Compiling a path walks
// it once with reflection, resolves every hop, inserts the pointer/interface
// adjustments the hops need to compose, and returns a closure that replays
// the chain without any per-call lookup. Compile once, invoke many times.
//
// # Accessor variants
//
// A Compiler turns one Path into six accessor shapes, differing only in how
// they treat nil links in the middle of the chain:
//
//   - Getter: replays the chain verbatim; a nil link panics, exactly like
//     the hand-written expression would.
//   - NilSafeGetter: returns the zero value of the path's value type as soon
//     as a nil link is hit.
//   - OptionGetter: returns optional.None() when the chain breaks and
//     optional.Some(v) otherwise, so a legitimately zero leaf stays
//     distinguishable from a broken chain.
//   - Setter: writes through the chain verbatim; a nil link panics.
//   - NilSafeSetter: silently abandons the write on the first nil link,
//     leaving the object graph untouched.
//   - AllocSetter: allocates every missing link, attaches it to its parent
//     (field assignment, or a setter method derived from the getter name by
//     convention), and then performs the write.
//
// # Absence
//
// Only values of nilable kinds (pointer, interface, map, slice, func, chan)
// can be absent. Links of value kinds can never break a chain, and the
// compiled closures carry no guard for them.
//
// # Writability
//
// Setters require a pointer (or interface) entry type: writing through a
// plain struct value would mutate a copy. A getter hop that returns a plain
// value has the same problem anywhere before the final hop, and compiling
// such a path as a setter fails with ErrUnwritable.
//
// # Concurrency
//
// A Compiler and every closure it produces are safe for concurrent use.
// Compilation consults a per-Compiler memoization cache for conventional
// setter lookup; entries are immutable type facts, so racing writers agree.
package access
