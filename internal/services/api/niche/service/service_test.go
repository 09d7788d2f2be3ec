package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	perr "nichelens/internal/platform/errors"
	"nichelens/internal/services/api/niche/domain"
	corpusdomain "nichelens/internal/services/corpus/domain"
)

// fakeCorpus serves a canned snapshot and records the filters it saw
type fakeCorpus struct {
	snap    corpusdomain.Snapshot
	err     error
	filters corpusdomain.Filters
	calls   int
}

func (f *fakeCorpus) Snapshot(_ context.Context, filters corpusdomain.Filters) (corpusdomain.Snapshot, error) {
	f.calls++
	f.filters = filters
	if f.err != nil {
		return corpusdomain.Snapshot{}, f.err
	}
	return f.snap, nil
}

// marketingSnapshot mirrors the 10k-lead scenario: three matching tags with
// frequencies 120 / 80 / 15
func marketingSnapshot() corpusdomain.Snapshot {
	snap := corpusdomain.Snapshot{TotalLeads: 10_000, TakenAt: time.Now()}
	add := func(tag string, n int) {
		for i := 0; i < n; i++ {
			snap.Occurrences = append(snap.Occurrences, corpusdomain.Occurrence{
				LeadID:  fmt.Sprintf("%s_%d", tag, i),
				Hashtag: tag,
				Source:  "bio",
			})
		}
	}
	add("Marketing_Digital", 120) // canonicalizes to marketing_digital
	add("marketing_tips", 80)
	add("neuromarketing", 15)
	for i := 0; i < 50; i++ {
		snap.Leads = append(snap.Leads, corpusdomain.Lead{
			ID:       fmt.Sprintf("lead_%d", i),
			Hashtags: []string{"Marketing_Digital", "marketing_tips"},
		})
	}
	return snap
}

func TestValidatePipeline(t *testing.T) {
	fc := &fakeCorpus{snap: marketingSnapshot()}
	svc := New(fc, Config{})

	out, err := svc.Validate(context.Background(), domain.ValidateInput{
		NicheName: "marketing",
		Seeds:     []string{"#Marketing"},
		Geography: "br",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if out.RunID == "" {
		t.Fatal("missing run id")
	}
	if out.Thresholds.MinDocumentFrequency != 50 {
		t.Fatalf("min_df = %d, want 50 for 10k leads", out.Thresholds.MinDocumentFrequency)
	}
	if out.Thresholds.Root != 120 || out.Thresholds.Candidate != 100 {
		t.Fatalf("thresholds = %+v, want root 120 candidate 100", out.Thresholds)
	}
	if len(out.RootHashtags) != 1 || out.RootHashtags[0].Hashtag != "marketing_digital" {
		t.Fatalf("roots = %+v", out.RootHashtags)
	}
	if out.RootHashtags[0].Display != "Marketing Digital" {
		t.Fatalf("display = %q", out.RootHashtags[0].Display)
	}
	if out.Tier != "nonexistent" {
		t.Fatalf("tier = %s, want nonexistent", out.Tier)
	}
	if out.SuitableForCampaign {
		t.Fatal("scenario must not be campaign-suitable")
	}

	// seeds were canonicalized before reaching the corpus
	if len(fc.filters.SeedKeywords) != 1 || fc.filters.SeedKeywords[0] != "marketing" {
		t.Fatalf("corpus seed filter = %v", fc.filters.SeedKeywords)
	}
	if fc.filters.Geography != "br" {
		t.Fatalf("corpus geography = %q", fc.filters.Geography)
	}
}

func TestValidateRejectsUnusableSeedsBeforeStoreAccess(t *testing.T) {
	fc := &fakeCorpus{snap: marketingSnapshot()}
	svc := New(fc, Config{})

	_, err := svc.Validate(context.Background(), domain.ValidateInput{
		NicheName: "x",
		Seeds:     []string{"💪", "++"},
	})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if fc.calls != 0 {
		t.Fatal("store was accessed despite invalid seeds")
	}
}

func TestValidatePropagatesCorpusFailure(t *testing.T) {
	fc := &fakeCorpus{err: perr.DBf("corpus read failed")}
	svc := New(fc, Config{})

	_, err := svc.Validate(context.Background(), domain.ValidateInput{
		NicheName: "x",
		Seeds:     []string{"marketing"},
	})
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v, want db error", err)
	}
}

func TestAnalyzeIncludesCoOccurrence(t *testing.T) {
	fc := &fakeCorpus{snap: marketingSnapshot()}
	svc := New(fc, Config{})

	out, err := svc.Analyze(context.Background(), domain.AnalyzeInput{
		ValidateInput: domain.ValidateInput{NicheName: "marketing", Seeds: []string{"marketing"}},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(out.CoOccurrence) == 0 {
		t.Fatal("want co-occurrence pairs from leads sharing two tags")
	}
	top := out.CoOccurrence[0]
	if top.A != "marketing_digital" || top.B != "marketing_tips" || top.Count != 50 {
		t.Fatalf("top pair = %+v, want marketing_digital/marketing_tips x50", top)
	}
}

func TestEmptyCorpusYieldsNonexistent(t *testing.T) {
	fc := &fakeCorpus{snap: corpusdomain.Snapshot{}}
	svc := New(fc, Config{})

	out, err := svc.Validate(context.Background(), domain.ValidateInput{
		NicheName: "ghost",
		Seeds:     []string{"ghost"},
	})
	if err != nil {
		t.Fatalf("empty corpus must not error: %v", err)
	}
	if out.Tier != "nonexistent" || out.EstimatedProfileCount != 0 {
		t.Fatalf("out = %+v, want zeroed nonexistent", out)
	}
	if len(out.Suggestions) == 0 {
		t.Fatal("nonexistent outcome must still recommend collection targets")
	}
}

// A large corpus where every matching tag sits below the min-df floor has no
// usable signal: zeroed thresholds must not promote the sub-floor tags into
// roots, however many raw matches and leads they carry
func TestSubFloorCorpusYieldsNonexistent(t *testing.T) {
	snap := corpusdomain.Snapshot{TotalLeads: 200_000, TakenAt: time.Now()} // min_df = 2000
	for tag := 0; tag < 6; tag++ {
		for i := 0; i < 600; i++ {
			snap.Occurrences = append(snap.Occurrences, corpusdomain.Occurrence{
				LeadID:  fmt.Sprintf("lead_%d_%d", tag, i),
				Hashtag: fmt.Sprintf("marketing_%d", tag),
				Source:  "bio",
			})
		}
	}

	fc := &fakeCorpus{snap: snap}
	svc := New(fc, Config{})

	out, err := svc.Validate(context.Background(), domain.ValidateInput{
		NicheName: "marketing",
		Seeds:     []string{"marketing"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if out.Thresholds.MinDocumentFrequency != 2000 {
		t.Fatalf("min_df = %d, want 2000 for 200k leads", out.Thresholds.MinDocumentFrequency)
	}
	if out.Tier != "nonexistent" {
		t.Fatalf("tier = %s, want nonexistent (no tag cleared min_df)", out.Tier)
	}
	if len(out.RootHashtags) != 0 || len(out.CandidateHashtags) != 0 {
		t.Fatalf("roots = %+v candidates = %+v, want none", out.RootHashtags, out.CandidateHashtags)
	}
	if out.ProfileDeficit == 0 {
		t.Fatal("insufficient-data outcome must carry a profile deficit")
	}
	if len(out.Suggestions) == 0 {
		t.Fatal("insufficient-data outcome must still recommend collection targets")
	}
	if out.SuitableForCampaign {
		t.Fatal("sub-floor corpus must not be campaign-suitable")
	}
}

func TestCachedValidate(t *testing.T) {
	fc := &fakeCorpus{snap: marketingSnapshot()}
	cached := NewCached(New(fc, Config{}), 16, time.Minute)

	in := domain.ValidateInput{NicheName: "marketing", Seeds: []string{"marketing"}}
	first, err := cached.Validate(context.Background(), in)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	second, err := cached.Validate(context.Background(), in)
	if err != nil {
		t.Fatalf("Validate (cached): %v", err)
	}
	if fc.calls != 1 {
		t.Fatalf("corpus calls = %d, want 1 (second served from cache)", fc.calls)
	}
	if first.RunID != second.RunID {
		t.Fatal("cached result must carry the originating run id")
	}

	// different seeds miss the cache
	if _, err := cached.Validate(context.Background(), domain.ValidateInput{
		NicheName: "marketing", Seeds: []string{"sales"},
	}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if fc.calls != 2 {
		t.Fatalf("corpus calls = %d, want 2", fc.calls)
	}
}

func TestCacheKeyCollisionResistance(t *testing.T) {
	distinct := func(a, b domain.ValidateInput) {
		t.Helper()
		if ka, kb := cacheKey(a), cacheKey(b); ka == kb {
			t.Fatalf("key collision: %+v and %+v both map to %q", a, b, ka)
		}
	}

	// delimiter characters in one field must not masquerade as another
	distinct(
		domain.ValidateInput{NicheName: "a|b", Seeds: []string{"x"}},
		domain.ValidateInput{NicheName: "a", Geography: "b", Seeds: []string{"x"}},
	)
	distinct(
		domain.ValidateInput{NicheName: "n", Seeds: []string{"a,b"}},
		domain.ValidateInput{NicheName: "n", Seeds: []string{"a", "b"}},
	)
	distinct(
		domain.ValidateInput{NicheName: "n", Geography: "br1", Seeds: []string{"x"}},
		domain.ValidateInput{NicheName: "n", Geography: "br", Seeds: []string{"1x"}},
	)

	// seed order is irrelevant to the analysis, so it shares a key
	a := cacheKey(domain.ValidateInput{NicheName: "n", Seeds: []string{"a", "b"}})
	b := cacheKey(domain.ValidateInput{NicheName: "n", Seeds: []string{"b", "a"}})
	if a != b {
		t.Fatalf("seed order changed the key: %q vs %q", a, b)
	}
}

func TestCachedErrorsNotCached(t *testing.T) {
	fc := &fakeCorpus{err: perr.DBf("down")}
	cached := NewCached(New(fc, Config{}), 16, time.Minute)

	in := domain.ValidateInput{NicheName: "x", Seeds: []string{"x"}}
	for i := 0; i < 2; i++ {
		if _, err := cached.Validate(context.Background(), in); err == nil {
			t.Fatal("want error")
		}
	}
	if fc.calls != 2 {
		t.Fatalf("corpus calls = %d, want 2 (errors never cached)", fc.calls)
	}
}
