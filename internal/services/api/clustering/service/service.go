// Package service executes clustering runs: scoped corpus fetch, optional
// concurrent embedding lookups, strategy dispatch, and result shaping
package service

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"nichelens/internal/core/cluster"
	"nichelens/internal/core/humanize"
	"nichelens/internal/core/normalize"
	perr "nichelens/internal/platform/errors"
	"nichelens/internal/platform/logger"
	"nichelens/internal/services/api/clustering/domain"
	corpusdomain "nichelens/internal/services/corpus/domain"
	corpussvc "nichelens/internal/services/corpus/service"
)

const embeddingBatch = 256

// CorpusReader is the snapshot dependency; satisfied by the corpus service
type CorpusReader interface {
	Snapshot(ctx context.Context, f corpusdomain.Filters) (corpusdomain.Snapshot, error)
}

var _ CorpusReader = (*corpussvc.Service)(nil)

// EmbeddingSource fetches precomputed vectors for leads
type EmbeddingSource interface {
	Embeddings(ctx context.Context, leadIDs []string) (map[string][]float32, error)
}

// Service is the concrete implementation of domain.ServicePort.
// Embeddings and neighbors may be nil when no index is configured; the
// vector and graph strategies then fail explicitly instead of degrading
type Service struct {
	corpus     CorpusReader
	embeddings EmbeddingSource
	neighbors  cluster.NeighborFinder
	norm       *normalize.Normalizer
	log        logger.Logger
}

// New constructs a clustering service
func New(corpus CorpusReader, embeddings EmbeddingSource, neighbors cluster.NeighborFinder) *Service {
	if corpus == nil {
		panic("clustering.Service requires a non-nil corpus reader")
	}
	return &Service{
		corpus:     corpus,
		embeddings: embeddings,
		neighbors:  neighbors,
		norm:       normalize.New(),
		log:        *logger.Named("clustering"),
	}
}

// Execute implements domain.ServicePort
func (s *Service) Execute(ctx context.Context, in domain.ExecuteInput) (domain.ExecuteResp, error) {
	if !cluster.ValidStrategy(in.Strategy) {
		return domain.ExecuteResp{}, perr.InvalidArgf("unknown clustering strategy %q", in.Strategy)
	}

	runID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	log := s.log.With().Str("run_id", runID).Str("strategy", in.Strategy).Logger()

	params := cluster.Params{
		K:                   in.K,
		MaxLeads:            in.MaxLeads,
		MinClusterSize:      in.MinClusterSize,
		NeighborCap:         in.NeighborCap,
		SimilarityThreshold: in.SimilarityThreshold,
	}
	if params.MaxLeads <= 0 || params.MaxLeads > cluster.DefaultMaxLeads {
		params.MaxLeads = cluster.DefaultMaxLeads
	}

	snap, err := s.corpus.Snapshot(ctx, corpusdomain.Filters{
		Geography:    in.Geography,
		SeedKeywords: s.norm.Many(in.Seeds),
		LeadIDs:      in.LeadIDs,
		MaxLeads:     params.MaxLeads,
	})
	if err != nil {
		return domain.ExecuteResp{}, err
	}

	leads := make([]cluster.Lead, 0, len(snap.Leads))
	for _, l := range snap.Leads {
		leads = append(leads, cluster.Lead{ID: l.ID, Hashtags: s.norm.Many(l.Hashtags)})
	}

	strategy, err := s.strategyFor(in.Strategy)
	if err != nil {
		return domain.ExecuteResp{}, err
	}
	if in.Strategy == cluster.StrategyVector && len(leads) >= 2 {
		if err := s.attachEmbeddings(ctx, leads); err != nil {
			return domain.ExecuteResp{}, err
		}
	}

	start := time.Now()
	outcome, err := strategy.Cluster(ctx, leads, params)
	if err != nil {
		return domain.ExecuteResp{}, err
	}

	resp := domain.ExecuteResp{
		RunID:            runID,
		Strategy:         outcome.Strategy,
		InsufficientData: outcome.Insufficient,
		CoveredLeads:     outcome.CoveredLeads,
		EligibleLeads:    len(leads),
		SubClusters:      make([]domain.SubClusterView, 0, len(outcome.SubClusters)),
	}
	for _, sc := range outcome.SubClusters {
		resp.SubClusters = append(resp.SubClusters, domain.SubClusterView{
			Name:           sc.Name,
			Display:        humanize.Hashtag(sc.Name),
			MemberIDs:      sc.MemberIDs,
			MemberCount:    sc.MemberCount,
			TopHashtags:    sc.TopHashtags,
			ThemeKeywords:  sc.ThemeKeywords,
			RelevanceScore: sc.RelevanceScore,
		})
	}

	log.Info().
		Int("eligible", resp.EligibleLeads).
		Int("covered", resp.CoveredLeads).
		Int("clusters", len(resp.SubClusters)).
		Bool("insufficient", resp.InsufficientData).
		Dur("elapsed", time.Since(start)).
		Msg("clustering run complete")

	return resp, nil
}

// strategyFor resolves the strategy, failing up front when its external
// dependency is missing; no silent fallback
func (s *Service) strategyFor(name string) (cluster.Strategy, error) {
	switch name {
	case cluster.StrategyKeyword:
		return cluster.NewKeyword(), nil
	case cluster.StrategyVector:
		if s.embeddings == nil {
			return nil, perr.Unavailablef("vector strategy requires an embedding index; retry with the keyword strategy")
		}
		return cluster.NewVector(), nil
	case cluster.StrategyGraph:
		if s.neighbors == nil {
			return nil, perr.Unavailablef("graph strategy requires a neighbor index; retry with the keyword strategy")
		}
		return cluster.NewGraph(s.neighbors), nil
	}
	return nil, perr.InvalidArgf("unknown clustering strategy %q", name)
}

// attachEmbeddings fetches vectors in concurrent batches and pins them onto
// the lead slice. Cluster assignment only starts once every batch landed
func (s *Service) attachEmbeddings(ctx context.Context, leads []cluster.Lead) error {
	ids := make([]string, len(leads))
	byID := make(map[string]int, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
		byID[l.ID] = i
	}

	vectors := make([]map[string][]float32, 0, len(ids)/embeddingBatch+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var batches [][]string
	for start := 0; start < len(ids); start += embeddingBatch {
		end := start + embeddingBatch
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
		vectors = append(vectors, nil)
	}
	for i, batch := range batches {
		g.Go(func() error {
			got, err := s.embeddings.Embeddings(gctx, batch)
			if err != nil {
				return err
			}
			vectors[i] = got
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, m := range vectors {
		for id, vec := range m {
			if i, ok := byID[id]; ok {
				leads[i].Vector = vec
			}
		}
	}
	return nil
}
