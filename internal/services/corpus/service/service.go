// Package service implements the corpus reader: frozen snapshots of leads
// and hashtag observations for downstream analysis
package service

import (
	"context"
	"time"

	"nichelens/internal/modkit/repokit"
	perr "nichelens/internal/platform/errors"
	"nichelens/internal/services/corpus/domain"
	"nichelens/internal/services/corpus/repo"
)

// Service reads corpus snapshots. All reads for one snapshot run inside a
// single transaction so analysis sees one point in time
type Service struct {
	DB   repokit.TxRunner
	Repo repokit.Binder[repo.Storage]
	now  func() time.Time
}

// New constructs a corpus service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	if db == nil {
		panic("corpus.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("corpus.Service requires a non-nil repo Binder")
	}
	return &Service{DB: db, Repo: binder, now: time.Now}
}

// Snapshot reads leads and occurrences under one transaction
func (s *Service) Snapshot(ctx context.Context, f domain.Filters) (domain.Snapshot, error) {
	f = f.WithDefaults()
	now := s.now()
	snap := domain.Snapshot{TakenAt: now}

	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Repo.Bind(q)

		leads, err := st.Leads(ctx, f, now)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "corpus leads read")
		}
		occs, err := st.Occurrences(ctx, f, now)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "corpus occurrences read")
		}
		total, err := st.CountLeads(ctx, f, now)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "corpus lead count")
		}

		snap.Leads = leads
		snap.Occurrences = occs
		snap.TotalLeads = total
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// CountLeads reports how many leads the filters currently match
func (s *Service) CountLeads(ctx context.Context, f domain.Filters) (int, error) {
	f = f.WithDefaults()
	now := s.now()

	var n int
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		n, e = s.Repo.Bind(q).CountLeads(ctx, f, now)
		return e
	})
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "corpus lead count")
	}
	return n, nil
}
