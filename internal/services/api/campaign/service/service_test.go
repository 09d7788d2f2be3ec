package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"nichelens/internal/core/lifecycle"
	"nichelens/internal/modkit/repokit"
	perr "nichelens/internal/platform/errors"
	"nichelens/internal/platform/store"
	"nichelens/internal/services/api/campaign/domain"
	"nichelens/internal/services/api/campaign/repo"
)

// noopDB satisfies repokit.TxRunner; the fake storage never touches SQL
type noopDB struct{}

func (noopDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (noopDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (noopDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (db noopDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	return fn(db)
}

// memStorage is an in-memory campaign store with CAS semantics
type memStorage struct {
	campaigns map[uuid.UUID]*domain.Campaign
	subs      map[uuid.UUID][]domain.SubClusterRecord
	leads     map[uuid.UUID]map[string]struct{}

	// when set, flips the stored status right before CAS to simulate a race
	raceTo lifecycle.Status
}

func newMemStorage() *memStorage {
	return &memStorage{
		campaigns: map[uuid.UUID]*domain.Campaign{},
		subs:      map[uuid.UUID][]domain.SubClusterRecord{},
		leads:     map[uuid.UUID]map[string]struct{}{},
	}
}

type memBinder struct{ st *memStorage }

func (b memBinder) Bind(repokit.Queryer) repo.Storage { return b.st }

func (m *memStorage) Create(_ context.Context, in domain.CreateInput) (domain.Campaign, error) {
	c := domain.Campaign{
		ID:        uuid.New(),
		Name:      in.Name,
		NicheName: in.NicheName,
		Seeds:     in.Seeds,
		Geography: in.Geography,
		Status:    lifecycle.StatusDraft,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.campaigns[c.ID] = &c
	return c, nil
}

func (m *memStorage) Get(_ context.Context, id uuid.UUID) (domain.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return domain.Campaign{}, pgx.ErrNoRows
	}
	out := *c
	out.LeadCount = len(m.leads[id])
	return out, nil
}

func (m *memStorage) SubClusterCount(_ context.Context, id uuid.UUID) (int, error) {
	return len(m.subs[id]), nil
}

func (m *memStorage) CASStatus(
	_ context.Context,
	id uuid.UUID,
	from, to lifecycle.Status,
	eff lifecycle.Effects,
) (domain.Campaign, bool, error) {
	c := m.campaigns[id]
	if m.raceTo != "" {
		c.Status = m.raceTo
		m.raceTo = ""
	}
	if c.Status != from {
		return domain.Campaign{}, false, nil
	}
	c.Status = to
	if eff.StartedAt != nil {
		c.StartedAt = eff.StartedAt
	}
	if eff.CompletedAt != nil {
		c.CompletedAt = eff.CompletedAt
	}
	c.UpdatedAt = time.Now()
	out := *c
	out.LeadCount = len(m.leads[id])
	return out, true, nil
}

func (m *memStorage) ReplaceResult(_ context.Context, id uuid.UUID, runID string, subs []domain.SubClusterRecord) error {
	m.subs[id] = subs
	m.campaigns[id].ClusterRunID = runID
	return nil
}

func (m *memStorage) AttachLeads(_ context.Context, id uuid.UUID, leadIDs []string) error {
	set := m.leads[id]
	if set == nil {
		set = map[string]struct{}{}
		m.leads[id] = set
	}
	for _, lid := range leadIDs {
		set[lid] = struct{}{}
	}
	return nil
}

func newService(st *memStorage) *Service {
	return New(noopDB{}, memBinder{st: st})
}

func mustCreate(t *testing.T, svc *Service) uuid.UUID {
	t.Helper()
	out, err := svc.Create(context.Background(), domain.CreateInput{
		Name: "camp", NicheName: "fitness", Seeds: []string{"fitness"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id, err := uuid.Parse(out.ID)
	if err != nil {
		t.Fatalf("bad id %q", out.ID)
	}
	return id
}

func acceptResult(t *testing.T, svc *Service, id uuid.UUID) {
	t.Helper()
	_, err := svc.AcceptResult(context.Background(), id, domain.AcceptResultInput{
		RunID: "01TESTRUN",
		SubClusters: []domain.ResultSubCluster{
			{Name: "crossfit", MemberIDs: []string{uuid.NewString(), uuid.NewString()}, RelevanceScore: 0.9},
		},
	})
	if err != nil {
		t.Fatalf("AcceptResult: %v", err)
	}
}

func transition(t *testing.T, svc *Service, id uuid.UUID, to string) domain.TransitionResp {
	t.Helper()
	out, err := svc.Transition(context.Background(), id, domain.TransitionInput{To: to})
	if err != nil {
		t.Fatalf("Transition to %s: %v", to, err)
	}
	return out
}

func TestCreateStartsInDraft(t *testing.T) {
	svc := newService(newMemStorage())
	out, err := svc.Create(context.Background(), domain.CreateInput{
		Name: "c", NicheName: "n", Seeds: []string{"s"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Status != "draft" || !out.Editable {
		t.Fatalf("resp = %+v, want editable draft", out)
	}
	if len(out.AllowedTransitions) != 1 || out.AllowedTransitions[0] != "ready" {
		t.Fatalf("allowed = %v, want [ready]", out.AllowedTransitions)
	}
}

func TestReadyGuardRequiresResultAndLeads(t *testing.T) {
	st := newMemStorage()
	svc := newService(st)
	id := mustCreate(t, svc)

	_, err := svc.Transition(context.Background(), id, domain.TransitionInput{To: "ready"})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("bare draft -> ready: err = %v, want conflict", err)
	}

	acceptResult(t, svc, id)
	out := transition(t, svc, id, "ready")
	if out.From != "draft" || out.To != "ready" {
		t.Fatalf("transition = %+v", out)
	}
}

func TestFullLifecycleTimestamps(t *testing.T) {
	st := newMemStorage()
	svc := newService(st)
	id := mustCreate(t, svc)
	acceptResult(t, svc, id)

	transition(t, svc, id, "ready")
	act := transition(t, svc, id, "active")
	if act.StartedAt == nil {
		t.Fatal("first activation must stamp started_at")
	}
	started := *act.StartedAt

	transition(t, svc, id, "paused")
	resumed := transition(t, svc, id, "active")
	if resumed.StartedAt == nil || !resumed.StartedAt.Equal(started) {
		t.Fatalf("resume re-stamped started_at: %v vs %v", resumed.StartedAt, started)
	}

	done := transition(t, svc, id, "completed")
	if done.CompletedAt == nil {
		t.Fatal("completion must stamp completed_at")
	}

	_, err := svc.Transition(context.Background(), id, domain.TransitionInput{To: "active"})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("completed is terminal: err = %v, want conflict", err)
	}
}

func TestTransitionAcceptsLegacyAlias(t *testing.T) {
	st := newMemStorage()
	svc := newService(st)
	id := mustCreate(t, svc)
	acceptResult(t, svc, id)

	out := transition(t, svc, id, "ready_for_outreach")
	if out.To != "ready" {
		t.Fatalf("alias transition landed on %q, want ready", out.To)
	}
}

func TestTransitionLostRaceConflicts(t *testing.T) {
	st := newMemStorage()
	svc := newService(st)
	id := mustCreate(t, svc)
	acceptResult(t, svc, id)
	transition(t, svc, id, "ready")

	// another writer flips the status between our read and our write
	st.raceTo = lifecycle.StatusDraft
	_, err := svc.Transition(context.Background(), id, domain.TransitionInput{To: "active"})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("lost CAS: err = %v, want conflict", err)
	}
}

func TestAcceptResultOnlyInDraft(t *testing.T) {
	st := newMemStorage()
	svc := newService(st)
	id := mustCreate(t, svc)
	acceptResult(t, svc, id)
	transition(t, svc, id, "ready")

	_, err := svc.AcceptResult(context.Background(), id, domain.AcceptResultInput{
		RunID:       "01OTHERRUN",
		SubClusters: []domain.ResultSubCluster{{Name: "x", MemberIDs: []string{uuid.NewString()}}},
	})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("err = %v, want conflict with revert-to-draft guidance", err)
	}
}

func TestAcceptResultReplacesAndAttaches(t *testing.T) {
	st := newMemStorage()
	svc := newService(st)
	id := mustCreate(t, svc)

	lead := uuid.NewString()
	out, err := svc.AcceptResult(context.Background(), id, domain.AcceptResultInput{
		RunID: "01RUNA",
		SubClusters: []domain.ResultSubCluster{
			{Name: "a", MemberIDs: []string{lead}},
			{Name: "b", MemberIDs: []string{uuid.NewString(), lead}},
		},
	})
	if err != nil {
		t.Fatalf("AcceptResult: %v", err)
	}
	if out.SubClusterCount != 2 || out.ClusterRunID != "01RUNA" {
		t.Fatalf("resp = %+v", out)
	}
	// shared member counted once
	if out.LeadCount != 2 {
		t.Fatalf("lead count = %d, want 2 distinct", out.LeadCount)
	}

	// re-running replaces the previous result
	out, err = svc.AcceptResult(context.Background(), id, domain.AcceptResultInput{
		RunID:       "01RUNB",
		SubClusters: []domain.ResultSubCluster{{Name: "c", MemberIDs: []string{uuid.NewString()}}},
	})
	if err != nil {
		t.Fatalf("AcceptResult: %v", err)
	}
	if out.SubClusterCount != 1 || out.ClusterRunID != "01RUNB" {
		t.Fatalf("resp after replace = %+v", out)
	}
}

func TestGetStatusNotFound(t *testing.T) {
	svc := newService(newMemStorage())
	_, err := svc.GetStatus(context.Background(), uuid.New())
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	st := newMemStorage()
	svc := newService(st)
	id := mustCreate(t, svc)

	_, err := svc.Transition(context.Background(), id, domain.TransitionInput{To: "archived"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}
