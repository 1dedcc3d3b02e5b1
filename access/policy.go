package access

import (
	"errors"
	"fmt"

	"pathcaster/internal/common"
)

var (
	ErrUnknownPolicy = errors.New("unknown null policy")
	ErrWrongPolicy   = errors.New("policy does not apply to this accessor shape")
)

// Policy selects how a compiled accessor treats nil links in the middle of
// its chain. Getters accept PolicyRaw, PolicyZero, and PolicyOption; setters
// accept PolicyRaw, PolicySkip, and PolicyAlloc.
type Policy int

const (
	PolicyRaw    Policy = iota // replay the chain verbatim, nil links panic
	PolicyZero                 // produce the value type's zero value on a nil link
	PolicyOption               // produce optional.None on a nil link, optional.Some otherwise
	PolicySkip                 // silently abandon the write on a nil link
	PolicyAlloc                // allocate and attach every missing link, then write
)

// String returns the policy name as it is spelled in mapping files.
func (p Policy) String() string {
	switch p {
	case PolicyRaw:
		return "raw"
	case PolicyZero:
		return "zero"
	case PolicyOption:
		return "option"
	case PolicySkip:
		return "skip"
	case PolicyAlloc:
		return "alloc"
	default:
		return common.UnknownStr
	}
}

// ParsePolicy parses a policy name as it is spelled in mapping files.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "raw":
		return PolicyRaw, nil
	case "zero":
		return PolicyZero, nil
	case "option":
		return PolicyOption, nil
	case "skip":
		return PolicySkip, nil
	case "alloc":
		return PolicyAlloc, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Reads reports whether the policy applies to getter compilation.
func (p Policy) Reads() bool {
	return p == PolicyRaw || p == PolicyZero || p == PolicyOption
}

// Writes reports whether the policy applies to setter compilation.
func (p Policy) Writes() bool {
	return p == PolicyRaw || p == PolicySkip || p == PolicyAlloc
}
