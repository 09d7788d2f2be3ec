// Package http provides HTTP transport for the niche analysis API
package http

import (
	stdhttp "net/http"

	"nichelens/internal/modkit/httpkit"
	"nichelens/internal/services/api/niche/domain"
)

// Register mounts niche endpoints on the given router.
// POST with JSON bodies keeps query shapes composable
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.ValidateInput](r, "/validate", h.validate)
	httpkit.PostJSON[domain.AnalyzeInput](r, "/analyze", h.analyze)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Validate niche viability
// @Tags Niche
// @Accept json
// @Produce json
// @Param payload body domain.ValidateInput true "Niche seeds"
// @Success 200 {object} domain.ValidateResp "ok"
// @Router /niche/validate [post]
func (h *handlers) validate(r *stdhttp.Request, in domain.ValidateInput) (any, error) {
	return h.svc.Validate(r.Context(), in)
}

// @Summary Full niche analysis with co-occurrence
// @Tags Niche
// @Accept json
// @Produce json
// @Param payload body domain.AnalyzeInput true "Analysis request"
// @Success 200 {object} domain.AnalyzeResp "ok"
// @Router /niche/analyze [post]
func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	return h.svc.Analyze(r.Context(), in)
}
