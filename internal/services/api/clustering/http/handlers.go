// Package http provides HTTP transport for the clustering API
package http

import (
	stdhttp "net/http"

	"nichelens/internal/modkit/httpkit"
	"nichelens/internal/services/api/clustering/domain"
)

// Register mounts clustering endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.ExecuteInput](r, "/execute", h.execute)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Execute a clustering run
// @Tags Clustering
// @Accept json
// @Produce json
// @Param payload body domain.ExecuteInput true "Clustering request"
// @Success 200 {object} domain.ExecuteResp "ok"
// @Router /clustering/execute [post]
func (h *handlers) execute(r *stdhttp.Request, in domain.ExecuteInput) (any, error) {
	return h.svc.Execute(r.Context(), in)
}
