// Package veritas is the calculation façade: the single entry point that
// runs a query through the full pipeline (normalize, parse, validate,
// evaluate, prove) and returns either a Response or a structured Failure.
//
// The façade owns no arithmetic of its own. It sequences the stage
// packages, maps their typed errors onto the boundary error taxonomy, and
// handles the cross-cutting concerns: request validation, cancellation,
// caching, and logging.
package veritas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/eval"
	"github.com/aindus-labs/veritas/pkg/funcs"
	"github.com/aindus-labs/veritas/pkg/parser"
	"github.com/aindus-labs/veritas/pkg/proof"
	"github.com/aindus-labs/veritas/pkg/validate"
)

// Request is a single calculation request.
type Request struct {
	Query             string        `json:"query" validate:"required,max=1000"`
	Variables         core.Bindings `json:"variables,omitempty"`
	EnableProofs      bool          `json:"enable_proofs,omitempty"`
	VerificationLevel string        `json:"verification_level,omitempty" validate:"omitempty,oneof=standard high maximum"`
}

// Response is a completed calculation. Proof serializes as
// "veritas_proof" and is explicitly null when the request did not ask
// for one, so callers can distinguish "no proof requested" from a
// truncated payload.
type Response struct {
	Answer          string      `json:"answer"`
	Value           float64     `json:"value"`
	CalculationID   string      `json:"calculation_id"`
	ExecutionTimeMS float64     `json:"execution_time_ms"`
	Proof           *core.Proof `json:"veritas_proof"`
}

// DefaultLimits are the complexity bounds used when no configuration
// overrides them.
var DefaultLimits = core.Limits{MaxDepth: 100, MaxNodes: 1000}

// Calculator runs calculations. It is immutable after construction and
// safe for concurrent use.
type Calculator struct {
	registry  *funcs.Registry
	limits    core.Limits
	penalties proof.PenaltySchedule
	logger    *slog.Logger
	checker   *validator.Validate
	cache     *lru.Cache[string, cacheEntry]
}

// cacheEntry holds the replayable part of a completed calculation. IDs and
// timings are minted fresh on every hit; the hash inputs are replayed
// verbatim so cached and uncached responses verify identically.
type cacheEntry struct {
	normalized string
	value      float64
	steps      []core.Step
	risks      []eval.Risk
	depth      int
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRegistry replaces the default function registry.
func WithRegistry(registry *funcs.Registry) Option {
	return func(c *Calculator) { c.registry = registry }
}

// WithLimits sets the complexity bounds for standard verification.
func WithLimits(limits core.Limits) Option {
	return func(c *Calculator) { c.limits = limits }
}

// WithPenalties sets the confidence penalty schedule.
func WithPenalties(penalties proof.PenaltySchedule) Option {
	return func(c *Calculator) { c.penalties = penalties }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) { c.logger = logger }
}

// WithCache enables the result cache with the given capacity. A size of
// zero or less leaves caching off.
func WithCache(size int) Option {
	return func(c *Calculator) {
		if size <= 0 {
			return
		}
		cache, err := lru.New[string, cacheEntry](size)
		if err != nil {
			return
		}
		c.cache = cache
	}
}

// New creates a Calculator with the default registry, limits, and penalty
// schedule, then applies the options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		registry:  funcs.Default(),
		limits:    DefaultLimits,
		penalties: proof.DefaultPenalties(),
		logger:    slog.Default(),
		checker:   validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Functions returns the active registry, for callers that list or
// complete function names.
func (c *Calculator) Functions() *funcs.Registry {
	return c.registry
}

// Calculate runs one request through the pipeline. On failure the
// returned error is always a *core.Failure recording the error kind and
// the stage that rejected the request.
func (c *Calculator) Calculate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	calculationID := uuid.NewString()
	logger := c.logger.With("calculation_id", calculationID)

	// Stage: received. Boundary checks on the request itself, before any
	// of its content is interpreted.
	if err := c.checkRequest(req); err != nil {
		logger.Warn("request rejected", "error", err)
		return nil, err
	}
	if err := checkCancelled(ctx, core.StageReceived); err != nil {
		return nil, err
	}

	level, _ := core.ParseLevel(req.VerificationLevel)
	limits := c.limits.ForLevel(level)

	// Stage: tokenized. Normalization runs the lexer over the full input,
	// so any character outside the token alphabet fails here.
	normalized, err := parser.Normalize(req.Query)
	if err != nil {
		return nil, c.fail(logger, core.StageTokenized, req.Query, err)
	}
	if err := checkCancelled(ctx, core.StageTokenized); err != nil {
		return nil, err
	}

	// Stage: parsed.
	p := parser.NewParser(req.Query)
	expr, err := p.Parse()
	if err != nil {
		return nil, c.fail(logger, core.StageParsed, req.Query, err)
	}
	if err := checkCancelled(ctx, core.StageParsed); err != nil {
		return nil, err
	}

	// Stage: validated. Complexity bounds first, then name resolution.
	// Syntactic nesting is checked alongside AST depth because grouping
	// parentheses do not survive into the tree.
	v := validate.New(c.registry, limits)
	if err := v.CheckNesting(p.MaxNesting()); err != nil {
		return nil, c.fail(logger, core.StageValidated, req.Query, err)
	}
	if _, err := v.Validate(expr, req.Variables); err != nil {
		return nil, c.fail(logger, core.StageValidated, req.Query, err)
	}
	if err := checkCancelled(ctx, core.StageValidated); err != nil {
		return nil, err
	}

	cacheKey := proof.CacheKey(normalized, req.Variables, level)
	if c.cache != nil {
		if entry, ok := c.cache.Get(cacheKey); ok {
			logger.Debug("cache hit", "query", normalized)
			return c.respond(req, entry, limits, calculationID, start), nil
		}
	}

	// Stage: evaluated.
	result, err := eval.New(c.registry).Evaluate(expr, req.Variables)
	if err != nil {
		return nil, c.fail(logger, core.StageEvaluated, req.Query, err)
	}
	if err := checkCancelled(ctx, core.StageEvaluated); err != nil {
		return nil, err
	}

	depth, _ := validate.Measure(expr)
	entry := cacheEntry{
		normalized: normalized,
		value:      result.Value,
		steps:      result.Steps,
		risks:      result.Risks,
		depth:      depth,
	}
	if c.cache != nil {
		c.cache.Add(cacheKey, entry)
	}

	resp := c.respond(req, entry, limits, calculationID, start)
	logger.Info("calculation completed",
		"query", normalized,
		"answer", resp.Answer,
		"duration_ms", resp.ExecutionTimeMS,
	)
	return resp, nil
}

// respond assembles a Response from a completed (or cached) evaluation,
// building the proof when the request asked for one.
func (c *Calculator) respond(req Request, entry cacheEntry, limits core.Limits, calculationID string, start time.Time) *Response {
	resp := &Response{
		Answer:        core.FormatAnswer(entry.value),
		Value:         entry.value,
		CalculationID: calculationID,
	}

	if req.EnableProofs {
		resp.Proof = proof.NewBuilder(c.penalties).Build(proof.Input{
			NormalizedQuery: entry.normalized,
			Bindings:        req.Variables,
			Steps:           entry.steps,
			Result:          entry.value,
			Risks:           entry.risks,
			Depth:           entry.depth,
			MaxDepth:        limits.MaxDepth,
		})
	}

	resp.ExecutionTimeMS = float64(time.Since(start).Microseconds()) / 1000
	return resp
}

// checkRequest enforces the boundary constraints: struct tags first, then
// every binding must be a finite number.
func (c *Calculator) checkRequest(req Request) error {
	if err := c.checker.Struct(req); err != nil {
		return &core.Failure{
			Kind:    core.KindInvalidRequest,
			Stage:   core.StageReceived,
			Message: requestMessage(err),
		}
	}
	for name, value := range req.Variables {
		if math.IsInf(value, 0) || math.IsNaN(value) {
			return &core.Failure{
				Kind:    core.KindInvalidRequest,
				Stage:   core.StageReceived,
				Message: fmt.Sprintf("variable %q is not a finite number", name),
			}
		}
	}
	return nil
}

// requestMessage flattens a validator error into a short boundary message.
func requestMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s exceeds maximum length %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// fail maps a stage package's typed error onto the boundary taxonomy.
func (c *Calculator) fail(logger *slog.Logger, stage core.Stage, query string, err error) *core.Failure {
	failure := classify(stage, query, err)
	logger.Warn("calculation failed",
		"stage", string(failure.Stage),
		"kind", string(failure.Kind),
		"error", failure.Message,
	)
	return failure
}

// classify converts the typed errors of the stage packages into Failures.
// Lex and parse errors carry spans over the query, so their Failures quote
// the offending fragment verbatim. Messages never carry internal detail
// beyond what the typed error already exposes to callers.
func classify(stage core.Stage, query string, err error) *core.Failure {
	var lexErr *parser.LexError
	if errors.As(err, &lexErr) {
		return &core.Failure{
			Kind:     core.KindLexError,
			Stage:    core.StageTokenized,
			Position: lexErr.Pos,
			Fragment: lexErr.Span.Text(query),
			Message:  fmt.Sprintf("unrecognized character %q", lexErr.Char),
		}
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return &core.Failure{
			Kind:     core.KindParseError,
			Stage:    core.StageParsed,
			Position: parseErr.Pos,
			Fragment: parseErr.Span.Text(query),
			Message:  fmt.Sprintf("unexpected %s, expected %s", parseErr.Found, parseErr.Expected),
		}
	}

	var complexityErr *validate.ComplexityError
	if errors.As(err, &complexityErr) {
		return &core.Failure{
			Kind:    core.KindComplexityError,
			Stage:   core.StageValidated,
			Message: complexityErr.Error(),
		}
	}

	var nameErr *validate.UnknownNameError
	if errors.As(err, &nameErr) {
		return &core.Failure{
			Kind:     core.KindUnknownNameError,
			Stage:    core.StageValidated,
			Position: nameErr.Pos,
			Fragment: nameErr.Name,
			Message:  fmt.Sprintf("%s %q %s", nameErr.Kind, nameErr.Name, nameErr.Reason),
		}
	}

	var evalErr *eval.Error
	if errors.As(err, &evalErr) {
		return &core.Failure{
			Kind:     core.KindEvalError,
			Stage:    core.StageEvaluated,
			Position: evalErr.Pos,
			Message:  fmt.Sprintf("%s: %s", evalErr.Kind, evalErr.Detail),
		}
	}

	return &core.Failure{Kind: core.KindInvalidRequest, Stage: stage, Message: err.Error()}
}

// checkCancelled converts context cancellation into a timeout Failure at
// the stage boundary just crossed.
func checkCancelled(ctx context.Context, stage core.Stage) error {
	if err := ctx.Err(); err != nil {
		return &core.Failure{
			Kind:    core.KindTimeoutError,
			Stage:   stage,
			Message: "calculation cancelled: " + err.Error(),
		}
	}
	return nil
}
