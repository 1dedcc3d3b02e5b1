package mapper

import (
	"pathcaster/access"
	"pathcaster/internal/match"
	"pathcaster/mapping"
	"pathcaster/primitive"
)

// Option configures a Mapper under construction.
type Option func(*config)

// config collects raw option values. New validates and compiles them; the
// option functions themselves only stash.
type config struct {
	rules       *mapping.File
	types       []any
	transforms  []any
	named       map[string]any
	conventions access.Conventions

	minScore      float64
	minGap        float64
	ambiguity     float64
	maxCandidates int
	maxDepth      int

	conversions primitive.CategoryEnum
	strict      bool
}

func defaultConfig() config {
	return config{
		minScore:      match.DefaultMinScore,
		minGap:        match.DefaultMinGap,
		ambiguity:     match.DefaultAmbiguityThreshold,
		maxCandidates: 5,
		maxDepth:      10,
		conversions:   primitive.CategorySafeNumber | primitive.CategoryEnumString,
	}
}

// WithRules pins explicit bindings from a parsed mapping file. Type pairs
// declared in the file are resolved eagerly by New.
func WithRules(f *mapping.File) Option {
	return func(c *config) { c.rules = f }
}

// WithTypes registers example values whose types become resolvable by the
// names used in rule files, e.g. "store.Order". Pointers register their
// element type. Types only reached through nested resolution or Map calls
// do not need registering.
func WithTypes(values ...any) Option {
	return func(c *config) { c.types = append(c.types, values...) }
}

// WithTransforms registers transform functions under the names of their
// function symbols. Each must have one of the recognized shapes; see
// ParseTransform.
func WithTransforms(fns ...any) Option {
	return func(c *config) { c.transforms = append(c.transforms, fns...) }
}

// WithNamedTransform registers a transform function under an explicit name,
// which anonymous functions and method values need.
func WithNamedTransform(name string, fn any) Option {
	return func(c *config) {
		if c.named == nil {
			c.named = map[string]any{}
		}

		c.named[name] = fn
	}
}

// WithConventions replaces the getter-to-setter rewrite table used when
// deriving writable paths and enumerating accessor candidates.
func WithConventions(table access.Conventions) Option {
	return func(c *config) { c.conventions = table }
}

// WithMatching tunes auto-match acceptance: the minimum combined score and
// the minimum gap to the runner-up candidate.
func WithMatching(minScore, minGap float64) Option {
	return func(c *config) {
		c.minScore = minScore
		c.minGap = minGap
	}
}

// WithConversions selects which primitive conversion categories bindings may
// use without a transform. The default allows lossless numeric widening and
// enum-string bridging.
func WithConversions(allowed primitive.CategoryEnum) Option {
	return func(c *config) { c.conversions = allowed }
}

// WithMaxDepth limits how deep nested struct pairs are resolved.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// Strict makes New fail on any diagnostic, warnings included. Without it,
// unmapped targets and dropped bindings surface on the Plan only.
func Strict() Option {
	return func(c *config) { c.strict = true }
}
