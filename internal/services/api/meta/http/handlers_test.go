package http

import (
	stdctx "context"
	"errors"
	"testing"
	"time"
)

type pinger struct{ err error }

func (p pinger) Ping(stdctx.Context) error { return p.err }

func readyOf(t *testing.T, d Deps) ReadyResponse {
	t.Helper()
	h := &handlers{deps: d}
	out, err := h.ready(nil)
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	return out.(ReadyResponse)
}

func TestReadyAllHealthy(t *testing.T) {
	resp := readyOf(t, Deps{PG: pinger{}, CH: pinger{}, Embedding: pinger{}})
	if resp.Status != "ok" {
		t.Fatalf("status = %q, want ok", resp.Status)
	}
	for _, c := range resp.Checks {
		if c.Status != "ok" {
			t.Fatalf("check %s = %q", c.Name, c.Status)
		}
	}
}

func TestReadyOptionalDepsSkip(t *testing.T) {
	resp := readyOf(t, Deps{PG: pinger{}})
	if resp.Status != "ok" {
		t.Fatalf("missing optional deps should not degrade: %q", resp.Status)
	}
	if resp.Checks[1].Status != "skipped" || resp.Checks[2].Status != "skipped" {
		t.Fatalf("ch/embedding = %q/%q, want skipped", resp.Checks[1].Status, resp.Checks[2].Status)
	}
}

func TestReadyDegradesAndFails(t *testing.T) {
	down := pinger{err: errors.New("connection refused")}

	resp := readyOf(t, Deps{PG: pinger{}, CH: down})
	if resp.Status != "degraded" {
		t.Fatalf("ch down: status = %q, want degraded", resp.Status)
	}

	resp = readyOf(t, Deps{PG: down, CH: pinger{}})
	if resp.Status != "fail" {
		t.Fatalf("pg down: status = %q, want fail", resp.Status)
	}
	if resp.Checks[0].Error == "" {
		t.Fatalf("pg failure should carry the error message")
	}
}

func TestHealthPayload(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	h := &handlers{deps: Deps{ServiceName: "nichelens-api", StartedAt: started}}

	out, err := h.health(nil)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp := out.(HealthResponse)
	if !resp.OK || resp.Service != "nichelens-api" {
		t.Fatalf("health = %+v", resp)
	}
}
