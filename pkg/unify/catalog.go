package unify

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cwmp-protocol/cwmp-go/pkg/log"
	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/version"
)

// Loader produces a fresh raw graph.
type Loader func() (*schema.Graph, error)

// Catalog holds the canonical graph in effect. Readers never see a partially
// built graph: Reload builds to completion and then swaps atomically.
type Catalog struct {
	engine         *Engine
	load           Loader
	current        atomic.Pointer[installed]
	reloads        singleflight.Group
	logger         *slog.Logger
	protocolLogger log.Logger
}

type installed struct {
	graph       *schema.Graph
	fingerprint string
}

// NewCatalog builds the first canonical graph from load.
func NewCatalog(cfg Config, load Loader) (*Catalog, error) {
	c := &Catalog{
		engine:         NewEngine(cfg),
		load:           load,
		logger:         cfg.Logger,
		protocolLogger: cfg.ProtocolLogger,
	}
	if _, err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default builds a catalog from the embedded raw schema documents.
func Default() (*Catalog, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	return NewCatalog(cfg, version.RawGraph)
}

// Graph returns the canonical graph in effect. It implements schema.Source.
func (c *Catalog) Graph() *schema.Graph {
	if in := c.current.Load(); in != nil {
		return in.graph
	}
	return nil
}

// Fingerprint returns the fingerprint of the graph in effect.
func (c *Catalog) Fingerprint() string {
	if in := c.current.Load(); in != nil {
		return in.fingerprint
	}
	return ""
}

// Reload loads and unifies a new graph and installs it. Concurrent calls
// share one build. On error the graph in effect is kept.
func (c *Catalog) Reload() (*schema.Graph, error) {
	v, err, _ := c.reloads.Do("reload", func() (any, error) {
		return c.rebuild()
	})
	if err != nil {
		return nil, err
	}
	return v.(*schema.Graph), nil
}

func (c *Catalog) rebuild() (*schema.Graph, error) {
	start := time.Now()

	raw, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("loading raw graph: %w", err)
	}
	g, err := c.engine.Unify(raw)
	if err != nil {
		c.emitError(err)
		return nil, err
	}
	fp, err := schema.Fingerprint(g)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting canonical graph: %w", err)
	}

	previous := c.Fingerprint()
	c.current.Store(&installed{graph: g, fingerprint: fp})

	elapsed := time.Since(start)
	if c.logger != nil {
		c.logger.Info("canonical schema installed",
			"fingerprint", fp,
			"nodes", g.Len(),
			"previous", previous,
			"elapsed", elapsed)
	}
	log.Emit(c.protocolLogger, log.Event{
		Layer:    log.LayerSchema,
		Category: log.CategorySchema,
		Schema: &log.SchemaEvent{
			Fingerprint: fp,
			Nodes:       g.Len(),
			Previous:    previous,
			Duration:    elapsed,
		},
	})
	return g, nil
}

func (c *Catalog) emitError(err error) {
	if c.logger != nil {
		c.logger.Error("canonical schema rejected", "error", err)
	}
	log.Emit(c.protocolLogger, log.Event{
		Layer:    log.LayerSchema,
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerSchema,
			Message: err.Error(),
			Context: "unify",
		},
	})
}

var _ schema.Source = (*Catalog)(nil)
