// Package service implements campaign lifecycle management. Transition
// validation is pure logic in core/lifecycle; this layer adds the
// compare-and-set persistence and guard lookups
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nichelens/internal/core/lifecycle"
	"nichelens/internal/modkit/repokit"
	perr "nichelens/internal/platform/errors"
	"nichelens/internal/platform/logger"
	"nichelens/internal/services/api/campaign/domain"
	"nichelens/internal/services/api/campaign/repo"
)

// Service is the concrete implementation of domain.ServicePort
type Service struct {
	DB   repokit.TxRunner
	Repo repokit.Binder[repo.Storage]
	log  logger.Logger
	now  func() time.Time
}

// New constructs a campaign service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	if db == nil {
		panic("campaign.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("campaign.Service requires a non-nil repo Binder")
	}
	return &Service{DB: db, Repo: binder, log: *logger.Named("campaign"), now: time.Now}
}

// Create implements domain.ServicePort
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (domain.StatusResp, error) {
	var out domain.StatusResp
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		c, err := s.Repo.Bind(q).Create(ctx, in)
		if err != nil {
			return perr.FromPostgres(err, "campaign create")
		}
		out = statusResp(c, 0)
		return nil
	})
	if err != nil {
		return domain.StatusResp{}, err
	}
	s.log.Info().Str("campaign_id", out.ID).Msg("campaign created")
	return out, nil
}

// GetStatus implements domain.ServicePort
func (s *Service) GetStatus(ctx context.Context, id uuid.UUID) (domain.StatusResp, error) {
	var out domain.StatusResp
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Repo.Bind(q)
		c, err := st.Get(ctx, id)
		if err != nil {
			if repo.IsNotFound(err) {
				return perr.NotFoundf("campaign %s not found", id)
			}
			return perr.Wrap(err, perr.ErrorCodeDB, "campaign read")
		}
		subs, err := st.SubClusterCount(ctx, id)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "sub-cluster count")
		}
		out = statusResp(c, subs)
		return nil
	})
	if err != nil {
		return domain.StatusResp{}, err
	}
	return out, nil
}

// Transition implements domain.ServicePort. Validation runs against the
// freshly read status and the write compares against that same status, so a
// concurrent transition loses cleanly with a conflict instead of applying
func (s *Service) Transition(ctx context.Context, id uuid.UUID, in domain.TransitionInput) (domain.TransitionResp, error) {
	to, err := lifecycle.Parse(in.To)
	if err != nil {
		return domain.TransitionResp{}, err
	}

	var out domain.TransitionResp
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Repo.Bind(q)

		c, err := st.Get(ctx, id)
		if err != nil {
			if repo.IsNotFound(err) {
				return perr.NotFoundf("campaign %s not found", id)
			}
			return perr.Wrap(err, perr.ErrorCodeDB, "campaign read")
		}

		guard := lifecycle.Guard{
			HasClusterResult: c.ClusterRunID != "",
			LeadCount:        c.LeadCount,
		}
		if err := lifecycle.Validate(c.Status, to, guard); err != nil {
			return err
		}

		eff := lifecycle.EffectsFor(to, c.StartedAt != nil, s.now())
		updated, won, err := st.CASStatus(ctx, id, c.Status, to, eff)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "campaign status write")
		}
		if !won {
			return perr.Conflictf("campaign status changed concurrently; re-read and retry")
		}

		out = domain.TransitionResp{
			ID:          updated.ID.String(),
			From:        string(c.Status),
			To:          string(updated.Status),
			StartedAt:   updated.StartedAt,
			CompletedAt: updated.CompletedAt,
			UpdatedAt:   updated.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return domain.TransitionResp{}, err
	}

	s.log.Info().
		Str("campaign_id", out.ID).
		Str("from", out.From).
		Str("to", out.To).
		Msg("campaign transitioned")
	return out, nil
}

// AcceptResult implements domain.ServicePort. Results replace atomically:
// the sub-cluster swap, the run-id stamp, and the lead associations commit
// together or not at all
func (s *Service) AcceptResult(ctx context.Context, id uuid.UUID, in domain.AcceptResultInput) (domain.StatusResp, error) {
	var out domain.StatusResp
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Repo.Bind(q)

		c, err := st.Get(ctx, id)
		if err != nil {
			if repo.IsNotFound(err) {
				return perr.NotFoundf("campaign %s not found", id)
			}
			return perr.Wrap(err, perr.ErrorCodeDB, "campaign read")
		}
		if !lifecycle.Editable(c.Status) {
			return perr.Conflictf("campaign is %s; revert to draft to change its clustering result", c.Status)
		}

		subs := make([]domain.SubClusterRecord, 0, len(in.SubClusters))
		leadSet := make(map[string]struct{})
		for i, sc := range in.SubClusters {
			subs = append(subs, domain.SubClusterRecord{
				Position:       i,
				Name:           sc.Name,
				MemberIDs:      sc.MemberIDs,
				MemberCount:    len(sc.MemberIDs),
				TopHashtags:    sc.TopHashtags,
				ThemeKeywords:  sc.ThemeKeywords,
				RelevanceScore: sc.RelevanceScore,
			})
			for _, mid := range sc.MemberIDs {
				leadSet[mid] = struct{}{}
			}
		}
		leadIDs := make([]string, 0, len(leadSet))
		for lid := range leadSet {
			leadIDs = append(leadIDs, lid)
		}

		if err := st.ReplaceResult(ctx, id, in.RunID, subs); err != nil {
			return perr.FromPostgres(err, "clustering result write")
		}
		if err := st.AttachLeads(ctx, id, leadIDs); err != nil {
			return perr.FromPostgres(err, "campaign lead attach")
		}

		updated, err := st.Get(ctx, id)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "campaign re-read")
		}
		out = statusResp(updated, len(subs))
		return nil
	})
	if err != nil {
		return domain.StatusResp{}, err
	}

	s.log.Info().
		Str("campaign_id", out.ID).
		Str("run_id", out.ClusterRunID).
		Int("sub_clusters", out.SubClusterCount).
		Int("leads", out.LeadCount).
		Msg("clustering result accepted")
	return out, nil
}

func statusResp(c domain.Campaign, subClusters int) domain.StatusResp {
	allowed := lifecycle.AllowedTransitions(c.Status)
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		names = append(names, string(a))
	}
	return domain.StatusResp{
		ID:                 c.ID.String(),
		Name:               c.Name,
		NicheName:          c.NicheName,
		Status:             string(c.Status),
		Editable:           lifecycle.Editable(c.Status),
		AllowedTransitions: names,
		ClusterRunID:       c.ClusterRunID,
		LeadCount:          c.LeadCount,
		SubClusterCount:    subClusters,
		StartedAt:          c.StartedAt,
		CompletedAt:        c.CompletedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
