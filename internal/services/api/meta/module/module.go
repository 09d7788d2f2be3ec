// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"nichelens/internal/adapters/embedding"
	"nichelens/internal/modkit"
	"nichelens/internal/modkit/httpkit"

	metahttp "nichelens/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	register func(httpkit.Router)

	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		startedAt: time.Now(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: "nichelens-api",
			StartedAt:   m.startedAt,
			PG:          deps.PG,
			CH:          deps.CH,
			Embedding:   embeddingPinger(deps),
		})
		if external != nil {
			external(r)
		}
	}

	return m
}

// embeddingPinger returns the embedding client for readiness checks, or nil
// when the index is not configured so the check reports skipped
func embeddingPinger(deps modkit.Deps) any {
	cfg := deps.Cfg.Prefix("EMBEDDING_")
	base := cfg.MayString("BASE_URL", "")
	if base == "" {
		return nil
	}
	client, err := embedding.NewClient(embedding.Options{
		BaseURL: base,
		APIKey:  cfg.MayString("API_KEY", ""),
		Timeout: cfg.MayDuration("TIMEOUT", 0),
	})
	if err != nil {
		return nil
	}
	return client
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
