package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nichelens/internal/modkit/repokit"
	"nichelens/internal/platform/store"
	"nichelens/internal/services/corpus/domain"
)

// NewHybrid constructs a corpus binder that scans occurrences from the
// ClickHouse projection when one is wired, falling back to Postgres for
// everything else. The projection is append-only and mirrored by ingestion;
// analysis never writes to it
func NewHybrid(ch store.Clickhouse) repokit.Binder[Storage] { return &hybridBinder{ch: ch} }

type hybridBinder struct{ ch store.Clickhouse }

// Bind implements repokit.Binder
func (b *hybridBinder) Bind(q repokit.Queryer) Storage {
	if b.ch == nil {
		return &pg{q: q}
	}
	return &hybrid{pg: pg{q: q}, ch: b.ch}
}

type hybrid struct {
	pg
	ch store.Clickhouse
}

// Occurrences scans the columnar projection, which keeps wide reads off the
// primary at large corpus sizes. Scoping semantics match the Postgres path
func (s *hybrid) Occurrences(ctx context.Context, f domain.Filters, now time.Time) ([]domain.Occurrence, error) {
	f = f.WithDefaults()

	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return "?" }

	sb.WriteString(`
		SELECT lead_id, hashtag, source, contactable, seen_at
		FROM lead_hashtag_events
		WHERE seen_at >= ` + arg(now.Add(-f.HashtagWindow)) + `
		  AND captured_at >= ` + arg(now.Add(-f.LeadWindow)))
	if f.Geography != "" {
		sb.WriteString("\n\t\t  AND geography = " + arg(f.Geography))
	}
	if len(f.LeadIDs) > 0 {
		sb.WriteString("\n\t\t  AND lead_id IN " + arg(f.LeadIDs))
	}
	if len(f.SeedKeywords) > 0 {
		sb.WriteString("\n\t\t  AND (")
		for i, seed := range f.SeedKeywords {
			if i > 0 {
				sb.WriteString(" OR ")
			}
			sb.WriteString("positionCaseInsensitive(hashtag, " + arg(seed) + ") > 0")
		}
		sb.WriteString(")")
	}

	rows, err := s.ch.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("clickhouse occurrence scan: %w", err)
	}
	defer rows.Close()

	var out []domain.Occurrence
	for rows.Next() {
		var o domain.Occurrence
		if err := rows.Scan(&o.LeadID, &o.Hashtag, &o.Source, &o.Contactable, &o.SeenAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
