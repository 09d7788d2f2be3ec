// Package api provides the HTTP API for the application
package api

import (
	"nichelens/internal/platform/config"
	"nichelens/internal/platform/logger"
	phttp "nichelens/internal/platform/net/http"
	"nichelens/internal/platform/store"

	"nichelens/internal/modkit"
	"nichelens/internal/modkit/httpkit"
	"nichelens/internal/modkit/module"
	"nichelens/internal/modkit/swaggerkit"

	campaignmod "nichelens/internal/services/api/campaign/module"
	clusteringmod "nichelens/internal/services/api/clustering/module"
	metamod "nichelens/internal/services/api/meta/module"
	nichemod "nichelens/internal/services/api/niche/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Log: *opt.Logger,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	mods := []module.Module{
		metamod.New(deps),
		nichemod.New(deps),
		clusteringmod.New(deps),
		campaignmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
