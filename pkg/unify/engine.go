package unify

import (
	"fmt"
	"log/slog"

	"github.com/cwmp-protocol/cwmp-go/pkg/log"
	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
)

// Config configures an Engine and the Catalog built on it.
type Config struct {
	// Plan says where canonical declarations come from.
	Plan Plan

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives a SchemaEvent for every installed graph.
	// If nil, capture is disabled.
	ProtocolLogger log.Logger
}

// DefaultConfig returns a Config using DefaultPlan.
func DefaultConfig() (Config, error) {
	p, err := DefaultPlan()
	if err != nil {
		return Config{}, err
	}
	return Config{Plan: p}, nil
}

type step struct {
	name string
	run  func(resolver, Plan) (*rewrite, error)
}

// steps are independent of each other; the order only fixes log output.
var steps = []step{
	{"headers", headers},
	{"body", body},
	{"method-list", methodList},
	{"faults", faults},
}

// Engine rewrites a raw multi-version graph into the canonical graph.
// An Engine holds no per-run state and is safe for concurrent use.
type Engine struct {
	plan   Plan
	logger *slog.Logger
}

// NewEngine creates an engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{plan: cfg.Plan, logger: cfg.Logger}
}

// Plan returns the engine's plan.
func (e *Engine) Plan() Plan { return e.plan }

// Unify returns the frozen canonical graph for raw. raw is never modified.
// Any lookup failure aborts the whole run.
func (e *Engine) Unify(raw *schema.Graph) (*schema.Graph, error) {
	g := raw.Clone()
	r := resolver{g: g}

	for _, s := range steps {
		rw, err := s.run(r, e.plan)
		if err != nil {
			return nil, fmt.Errorf("unify %s: %w", s.name, err)
		}
		st := rw.apply(g)
		e.debugLog("unify: step applied",
			"step", s.name,
			"puts", st.puts,
			"rewritten", st.rewritten,
			"deleted", st.deleted)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("unify: %w", err)
	}
	g.Freeze()
	return g, nil
}

func (e *Engine) debugLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
