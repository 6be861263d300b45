package extract

import (
	"context"
	"log/slog"
	"runtime"
	"strings"

	"github.com/panjf2000/ants/v2"

	"github.com/calyptra/loom/ai"
	"github.com/calyptra/loom/core"
)

// Method selects an extraction strategy.
type Method string

const (
	// MethodAuto picks the strongest available strategy, stepping down on
	// unavailability or runtime failure: generative, statistical, rule.
	MethodAuto Method = "auto"
	// MethodRule forces rule-based extraction.
	MethodRule Method = "rule"
	// MethodStatistical forces tagger-based extraction (falls back to rule
	// when no tagger is configured).
	MethodStatistical Method = "statistical"
	// MethodGenerative forces two-pass generative extraction.
	MethodGenerative Method = "generative"
)

// DefaultMaxConcepts bounds results for the non-generative strategies.
const DefaultMaxConcepts = 25

// Result carries the output of one extraction run.
type Result struct {
	Concepts      []*core.Concept
	Relationships []*core.Relationship
	// Method is the strategy that actually produced the result, which may
	// differ from the requested one after fallback.
	Method Method
}

// Extractor is the unified extraction entry point over all strategies.
type Extractor struct {
	rule        *RuleStrategy
	statistical *StatisticalStrategy
	generative  *GenerativeStrategy
	pool        *ants.Pool
	maxConcepts int
	monitor     Monitor
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithGenerator enables the generative strategy.
func WithGenerator(generator ai.TextGenerator) Option {
	return func(e *Extractor) error {
		if generator == nil {
			return nil
		}
		g, err := NewGenerativeStrategy(generator, e.pool, e.monitor, e.logger)
		if err != nil {
			return err
		}
		e.generative = g
		return nil
	}
}

// WithTagger enables the statistical strategy.
func WithTagger(tagger ai.PhraseTagger) Option {
	return func(e *Extractor) error {
		e.statistical = NewStatisticalStrategy(tagger, e.logger)
		return nil
	}
}

// WithMaxConcepts sets the result cap for rule and statistical extraction.
// The generative path manages its own cap. Default is DefaultMaxConcepts.
func WithMaxConcepts(n int) Option {
	return func(e *Extractor) error {
		if n > 0 {
			e.maxConcepts = n
		}
		return nil
	}
}

// WithMonitor sets the extraction monitor. Default is a no-op.
func WithMonitor(m Monitor) Option {
	return func(e *Extractor) error {
		if m != nil {
			e.monitor = m
		}
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// NewExtractor creates an extractor. With no options only the rule strategy
// is available. Monitor and logger options should precede WithGenerator so
// the generative strategy picks them up.
func NewExtractor(opts ...Option) (*Extractor, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		rule:        NewRuleStrategy(),
		pool:        pool,
		maxConcepts: DefaultMaxConcepts,
		monitor:     &noopMonitor{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			pool.Release()
			return nil, err
		}
	}
	if e.statistical == nil {
		e.statistical = NewStatisticalStrategy(nil, e.logger)
	}
	return e, nil
}

// Release frees the worker pool. The extractor must not be used afterwards.
func (e *Extractor) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Extract runs the requested strategy over the text. Every returned concept
// carries a provenance Source tag naming the strategy that produced it.
func (e *Extractor) Extract(ctx context.Context, text string, method Method) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	switch method {
	case MethodRule:
		concepts, err := e.rule.Extract(ctx, text, e.maxConcepts)
		if err != nil {
			return nil, err
		}
		return &Result{Concepts: concepts, Method: MethodRule}, nil

	case MethodStatistical:
		concepts, err := e.statistical.Extract(ctx, text, e.maxConcepts)
		if err != nil {
			return nil, err
		}
		return &Result{Concepts: concepts, Method: methodFor(concepts, MethodStatistical)}, nil

	case MethodGenerative:
		if e.generative == nil {
			return nil, ErrGeneratorUnavailable
		}
		concepts, relationships, err := e.generative.Extract(ctx, text, e.maxConcepts)
		if err != nil {
			return nil, err
		}
		return &Result{Concepts: concepts, Relationships: relationships, Method: MethodGenerative}, nil

	case MethodAuto, "":
		return e.extractAuto(ctx, text)

	default:
		return nil, ErrUnknownMethod
	}
}

// extractAuto walks the fallback chain. Runtime failure of a stronger
// strategy steps down instead of surfacing, so auto extraction completes
// whenever at least the rule strategy can run.
func (e *Extractor) extractAuto(ctx context.Context, text string) (*Result, error) {
	if e.generative != nil {
		result, err := e.Extract(ctx, text, MethodGenerative)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		e.logger.Warn("generative extraction failed, stepping down", "err", err)
	}

	if e.statistical.Available() {
		result, err := e.Extract(ctx, text, MethodStatistical)
		if err == nil {
			return result, nil
		}
		e.logger.Warn("statistical extraction failed, stepping down", "err", err)
	}

	return e.Extract(ctx, text, MethodRule)
}

// methodFor resolves the provenance method actually used, since the
// statistical strategy silently falls back to rule when no tagger exists.
func methodFor(concepts []*core.Concept, requested Method) Method {
	if len(concepts) > 0 && concepts[0].Source == SourceRule {
		return MethodRule
	}
	return requested
}
