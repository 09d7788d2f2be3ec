// Package service orchestrates the niche analysis pipeline: frozen corpus
// snapshot, canonicalization, frequency thresholds, classification, and
// bounded co-occurrence
package service

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"nichelens/internal/core/cooccur"
	"nichelens/internal/core/freq"
	"nichelens/internal/core/humanize"
	"nichelens/internal/core/normalize"
	perr "nichelens/internal/platform/errors"
	"nichelens/internal/platform/logger"
	"nichelens/internal/services/api/niche/domain"
	corpusdomain "nichelens/internal/services/corpus/domain"
	corpussvc "nichelens/internal/services/corpus/service"
)

// Config bundles the tuned analysis constants. Zero values take defaults
type Config struct {
	MinDF    freq.MinDFPolicy
	Classify freq.ClassifyConfig
	TopK     int
	TopN     int
}

func (c Config) withDefaults() Config {
	if c.MinDF == (freq.MinDFPolicy{}) {
		c.MinDF = freq.DefaultMinDFPolicy()
	}
	if c.Classify.Weak.MinProfiles == 0 {
		c.Classify = freq.DefaultClassifyConfig()
	}
	if c.TopK <= 0 {
		c.TopK = cooccur.DefaultTopK
	}
	if c.TopN <= 0 {
		c.TopN = cooccur.DefaultTopN
	}
	return c
}

// CorpusReader is the snapshot dependency; satisfied by the corpus service
type CorpusReader interface {
	Snapshot(ctx context.Context, f corpusdomain.Filters) (corpusdomain.Snapshot, error)
}

var _ CorpusReader = (*corpussvc.Service)(nil)

// Service is the concrete implementation of domain.ServicePort
type Service struct {
	corpus CorpusReader
	cfg    Config
	norm   *normalize.Normalizer
	log    logger.Logger
}

// New constructs a niche analysis service
func New(corpus CorpusReader, cfg Config) *Service {
	if corpus == nil {
		panic("niche.Service requires a non-nil corpus service")
	}
	return &Service{
		corpus: corpus,
		cfg:    cfg.withDefaults(),
		norm:   normalize.New(),
		log:    *logger.Named("niche"),
	}
}

// Validate implements domain.ServicePort
func (s *Service) Validate(ctx context.Context, in domain.ValidateInput) (domain.ValidateResp, error) {
	run, err := s.analyze(ctx, in, false, 0, 0)
	if err != nil {
		return domain.ValidateResp{}, err
	}
	return run.ValidateResp, nil
}

// Analyze implements domain.ServicePort
func (s *Service) Analyze(ctx context.Context, in domain.AnalyzeInput) (domain.AnalyzeResp, error) {
	return s.analyze(ctx, in.ValidateInput, true, in.TopK, in.TopPairs)
}

// analyze runs the shared pipeline. Co-occurrence only runs when requested
// since it is the most expensive stage
func (s *Service) analyze(
	ctx context.Context,
	in domain.ValidateInput,
	withPairs bool,
	topK, topN int,
) (domain.AnalyzeResp, error) {
	seeds := s.norm.Many(in.Seeds)
	if len(seeds) == 0 {
		// validation precedes any store access
		return domain.AnalyzeResp{}, perr.Validationf("seeds contain no usable keywords after canonicalization")
	}

	runID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	log := s.log.With().Str("run_id", runID).Str("niche", in.NicheName).Logger()

	start := time.Now()
	snap, err := s.corpus.Snapshot(ctx, corpusdomain.Filters{
		Geography:    in.Geography,
		SeedKeywords: seeds,
		MaxLeads:     in.MaxLeads,
	})
	if err != nil {
		return domain.AnalyzeResp{}, err
	}

	occs := make([]freq.Occurrence, 0, len(snap.Occurrences))
	for _, o := range snap.Occurrences {
		tag, ok := s.norm.Hashtag(o.Hashtag)
		if !ok {
			continue
		}
		occs = append(occs, freq.Occurrence{
			Hashtag:     tag,
			Source:      freq.Source(o.Source),
			LeadID:      o.LeadID,
			Contactable: o.Contactable,
		})
	}

	table := freq.BuildTable(occs)
	minDF := s.cfg.MinDF.MinDocumentFrequency(snap.TotalLeads)
	filtered := freq.FilterByMinDF(table, minDF)
	th := freq.ComputeThresholds(filtered, minDF)

	// with nothing above the noise floor the zeroed thresholds would admit
	// every matching tag as a root; that is insufficient data, not a niche
	var cls freq.Classification
	if len(filtered) == 0 {
		cls = freq.InsufficientData(seeds, s.cfg.Classify)
	} else {
		cls = freq.Classify(seeds, table, th, s.cfg.Classify)
	}

	resp := domain.AnalyzeResp{ValidateResp: domain.ValidateResp{
		RunID:                 runID,
		NicheName:             in.NicheName,
		Tier:                  string(cls.Tier),
		RootHashtags:          viewsOf(cls.RootHashtags),
		CandidateHashtags:     viewsOf(cls.CandidateHashtags),
		RelatedHashtagCount:   cls.RelatedCount,
		EstimatedProfileCount: cls.EstimatedProfileCount,
		ContactRate:           cls.ContactRate(),
		ProfileDeficit:        cls.ProfileDeficit,
		Suggestions:           cls.Suggestions,
		SuitableForCampaign:   cls.SuitableForCampaign,
		TotalLeads:            snap.TotalLeads,
		Thresholds: domain.ThresholdsView{
			MinDocumentFrequency: th.MinDocumentFrequency,
			P90:                  th.P90,
			P50:                  th.P50,
			Root:                 th.Root,
			Candidate:            th.Candidate,
		},
	}}

	if withPairs {
		leadTags := make([][]string, 0, len(snap.Leads))
		for _, l := range snap.Leads {
			leadTags = append(leadTags, s.norm.Many(l.Hashtags))
		}
		res := cooccur.TopPairs(leadTags, table, cooccur.Options{TopK: orDefault(topK, s.cfg.TopK), TopN: orDefault(topN, s.cfg.TopN)})
		resp.CoOccurrence = make([]domain.PairView, 0, len(res.Pairs))
		for _, p := range res.Pairs {
			resp.CoOccurrence = append(resp.CoOccurrence, domain.PairView{A: p.A, B: p.B, Count: p.Count})
		}
	}

	log.Info().
		Str("tier", resp.Tier).
		Int("total_leads", snap.TotalLeads).
		Int("vocabulary", len(table)).
		Int("min_df", minDF).
		Int("roots", len(resp.RootHashtags)).
		Int("profiles", resp.EstimatedProfileCount).
		Dur("elapsed", time.Since(start)).
		Msg("niche analysis complete")

	return resp, nil
}

func viewsOf(stats []freq.HashtagStat) []domain.HashtagView {
	out := make([]domain.HashtagView, 0, len(stats))
	for _, s := range stats {
		out = append(out, domain.HashtagView{
			Hashtag:     s.Hashtag,
			Display:     humanize.Hashtag(s.Hashtag),
			Frequency:   s.Frequency,
			UniqueLeads: s.UniqueLeads,
		})
	}
	return out
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
