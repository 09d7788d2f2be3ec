// Package module wires the niche analysis API into HTTP via modkit
package module

import (
	"net/http"
	"time"

	"nichelens/internal/core/freq"
	"nichelens/internal/modkit"
	"nichelens/internal/modkit/httpkit"
	"nichelens/internal/modkit/repokit"
	"nichelens/internal/platform/config"
	"nichelens/internal/services/api/niche/domain"
	corpusrepo "nichelens/internal/services/corpus/repo"
	corpussvc "nichelens/internal/services/corpus/service"

	nichehttp "nichelens/internal/services/api/niche/http"
	"nichelens/internal/services/api/niche/service"
)

// Ports exposes the service port for cross-module lookups
type Ports struct {
	Service domain.ServicePort
}

// Module implements the niche analysis module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)

	svc domain.ServicePort
}

// New constructs the niche module. The corpus reader rides the same store
// handles; the ClickHouse scan path engages automatically when CH is wired
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("niche"), modkit.WithPrefix("/niche")}, opts...)...)

	corpus := corpussvc.New(repokit.TxRunner(deps.PG), corpusrepo.NewHybrid(deps.CH))

	cfg := deps.Cfg.Prefix("NICHE_")
	var svc domain.ServicePort = service.New(corpus, analyzerConfig(deps.Cfg.Prefix("ANALYZER_")))
	if cfg.MayBool("CACHE_ENABLED", false) {
		svc = service.NewCached(
			svc,
			cfg.MayInt("CACHE_SIZE", 256),
			cfg.MayDuration("CACHE_TTL", 5*time.Minute),
		)
	}

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
		nichehttp.Register(r, m.svc)
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

// analyzerConfig reads tuned-constant overrides. Unset keys keep the
// production defaults
func analyzerConfig(cfg config.Conf) service.Config {
	minDF := freq.DefaultMinDFPolicy()
	minDF.SmallFraction = cfg.MayFloat64("MINDF_SMALL", minDF.SmallFraction)
	minDF.MediumFraction = cfg.MayFloat64("MINDF_MEDIUM", minDF.MediumFraction)
	minDF.LargeFraction = cfg.MayFloat64("MINDF_LARGE", minDF.LargeFraction)
	minDF.SmallCutoff = cfg.MayInt("MINDF_SMALL_CUTOFF", minDF.SmallCutoff)
	minDF.LargeCutoff = cfg.MayInt("MINDF_LARGE_CUTOFF", minDF.LargeCutoff)

	classify := freq.DefaultClassifyConfig()
	classify.Ideal.MinRootHashtags = cfg.MayInt("IDEAL_ROOTS", classify.Ideal.MinRootHashtags)
	classify.Ideal.MinProfiles = cfg.MayInt("IDEAL_PROFILES", classify.Ideal.MinProfiles)
	classify.Moderate.MinRootHashtags = cfg.MayInt("MODERATE_ROOTS", classify.Moderate.MinRootHashtags)
	classify.Moderate.MinProfiles = cfg.MayInt("MODERATE_PROFILES", classify.Moderate.MinProfiles)
	classify.Weak.MinRootHashtags = cfg.MayInt("WEAK_ROOTS", classify.Weak.MinRootHashtags)
	classify.Weak.MinProfiles = cfg.MayInt("WEAK_PROFILES", classify.Weak.MinProfiles)
	classify.Suitability.MinRelatedHashtags = cfg.MayInt("SUITABLE_RELATED", classify.Suitability.MinRelatedHashtags)
	classify.Suitability.MinRootHashtags = cfg.MayInt("SUITABLE_ROOTS", classify.Suitability.MinRootHashtags)
	classify.Suitability.MinProfiles = cfg.MayInt("SUITABLE_PROFILES", classify.Suitability.MinProfiles)

	return service.Config{
		MinDF:    minDF,
		Classify: classify,
		TopK:     cfg.MayInt("TOP_K", 0),
		TopN:     cfg.MayInt("TOP_PAIRS", 0),
	}
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
