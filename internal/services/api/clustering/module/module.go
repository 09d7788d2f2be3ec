// Package module wires the clustering API into HTTP via modkit
package module

import (
	"net/http"

	"nichelens/internal/adapters/embedding"
	"nichelens/internal/core/cluster"
	"nichelens/internal/modkit"
	"nichelens/internal/modkit/httpkit"
	"nichelens/internal/modkit/repokit"
	"nichelens/internal/services/api/clustering/domain"
	corpusrepo "nichelens/internal/services/corpus/repo"
	corpussvc "nichelens/internal/services/corpus/service"

	clusteringhttp "nichelens/internal/services/api/clustering/http"
	"nichelens/internal/services/api/clustering/service"
)

// Ports exposes the service port for cross-module lookups
type Ports struct {
	Service domain.ServicePort
}

// Module implements the clustering module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)

	svc domain.ServicePort
}

// New constructs the clustering module. Without EMBEDDING_BASE_URL only the
// keyword strategy is available; vector and graph fail explicitly
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("clustering"), modkit.WithPrefix("/clustering")}, opts...)...)

	corpus := corpussvc.New(repokit.TxRunner(deps.PG), corpusrepo.NewHybrid(deps.CH))

	source, neighbors := embeddingIndex(deps)
	svc := service.New(corpus, source, neighbors)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = Ports{Service: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		clusteringhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
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

// embeddingIndex builds the embedding client when configured. Both seams
// stay nil otherwise so strategies that need them fail explicitly
func embeddingIndex(deps modkit.Deps) (service.EmbeddingSource, cluster.NeighborFinder) {
	cfg := deps.Cfg.Prefix("EMBEDDING_")
	base := cfg.MayString("BASE_URL", "")
	if base == "" {
		return nil, nil
	}
	client, err := embedding.NewClient(embedding.Options{
		BaseURL: base,
		APIKey:  cfg.MayString("API_KEY", ""),
		Timeout: cfg.MayDuration("TIMEOUT", 0),
	})
	if err != nil {
		deps.Log.Warn().Err(err).Msg("embedding index misconfigured; vector and graph strategies disabled")
		return nil, nil
	}
	return client, client
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
