// Package http provides HTTP transport for the campaign lifecycle API
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nichelens/internal/modkit/httpkit"
	perr "nichelens/internal/platform/errors"
	"nichelens/internal/services/api/campaign/domain"
)

// Register mounts campaign endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/{id}/status", h.status)
	httpkit.PostJSON[domain.TransitionInput](r, "/{id}/transition", h.transition)
	httpkit.PostJSON[domain.AcceptResultInput](r, "/{id}/result", h.acceptResult)
}

type handlers struct{ svc domain.ServicePort }

func campaignID(r *stdhttp.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, perr.InvalidArgf("invalid campaign id %q", raw)
	}
	return id, nil
}

// @Summary Create a campaign in draft
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Campaign"
// @Success 200 {object} domain.StatusResp "ok"
// @Router /campaigns [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	return h.svc.Create(r.Context(), in)
}

// @Summary Campaign status with allowed transitions
// @Tags Campaigns
// @Produce json
// @Param id path string true "Campaign id"
// @Success 200 {object} domain.StatusResp "ok"
// @Router /campaigns/{id}/status [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	id, err := campaignID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.GetStatus(r.Context(), id)
}

// @Summary Apply a lifecycle transition
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path string true "Campaign id"
// @Param payload body domain.TransitionInput true "Target status"
// @Success 200 {object} domain.TransitionResp "ok"
// @Router /campaigns/{id}/transition [post]
func (h *handlers) transition(r *stdhttp.Request, in domain.TransitionInput) (any, error) {
	id, err := campaignID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Transition(r.Context(), id, in)
}

// @Summary Accept a clustering result onto a draft campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path string true "Campaign id"
// @Param payload body domain.AcceptResultInput true "Clustering result"
// @Success 200 {object} domain.StatusResp "ok"
// @Router /campaigns/{id}/result [post]
func (h *handlers) acceptResult(r *stdhttp.Request, in domain.AcceptResultInput) (any, error) {
	id, err := campaignID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.AcceptResult(r.Context(), id, in)
}
