// Package repo provides the corpus repository over Postgres
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nichelens/internal/modkit/repokit"
	"nichelens/internal/services/corpus/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new corpus repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the corpus repository
type Storage interface {
	Leads(ctx context.Context, f domain.Filters, now time.Time) ([]domain.Lead, error)
	Occurrences(ctx context.Context, f domain.Filters, now time.Time) ([]domain.Occurrence, error)
	CountLeads(ctx context.Context, f domain.Filters, now time.Time) (int, error)
}

// leadWhere appends the shared lead scoping clauses
func leadWhere(sb *strings.Builder, arg func(any) string, f domain.Filters, now time.Time, alias string) {
	fmt.Fprintf(sb, " WHERE %s.captured_at >= %s\n", alias, arg(now.Add(-f.LeadWindow)))
	if f.Geography != "" {
		fmt.Fprintf(sb, "  AND %s.geography = %s\n", alias, arg(f.Geography))
	}
	if len(f.LeadIDs) > 0 {
		fmt.Fprintf(sb, "  AND %s.id = ANY(%s::uuid[])\n", alias, arg(f.LeadIDs))
	}
	if len(f.SeedKeywords) > 0 {
		// seed scoping is a coarse pre-filter; exact substring semantics
		// live in the classifier
		sb.WriteString("  AND EXISTS (SELECT 1 FROM lead_hashtags sh WHERE sh.lead_id = " + alias + ".id AND (")
		for i, seed := range f.SeedKeywords {
			if i > 0 {
				sb.WriteString(" OR ")
			}
			sb.WriteString("sh.hashtag ILIKE " + arg("%"+seed+"%"))
		}
		sb.WriteString("))\n")
	}
}

// Leads implements Storage
func (s *pg) Leads(ctx context.Context, f domain.Filters, now time.Time) ([]domain.Lead, error) {
	f = f.WithDefaults()

	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT
			l.id::text,
			l.username,
			COALESCE(l.geography, ''),
			l.contactable,
			l.captured_at,
			COALESCE(array_agg(lh.hashtag) FILTER (WHERE lh.hashtag IS NOT NULL), '{}')
		FROM leads l
		LEFT JOIN lead_hashtags lh
			ON lh.lead_id = l.id AND lh.seen_at >= ` + arg(now.Add(-f.HashtagWindow)))
	leadWhere(&sb, arg, f, now, "l")
	sb.WriteString(" GROUP BY l.id, l.username, l.geography, l.contactable, l.captured_at")
	sb.WriteString(" ORDER BY l.captured_at DESC, l.id")
	sb.WriteString(" LIMIT " + arg(f.MaxLeads))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.Username, &l.Geography, &l.Contactable, &l.CapturedAt, &l.Hashtags); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Occurrences implements Storage
func (s *pg) Occurrences(ctx context.Context, f domain.Filters, now time.Time) ([]domain.Occurrence, error) {
	f = f.WithDefaults()

	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT
			lh.lead_id::text,
			lh.hashtag,
			lh.source::text,
			l.contactable,
			lh.seen_at
		FROM lead_hashtags lh
		JOIN leads l ON l.id = lh.lead_id`)
	leadWhere(&sb, arg, f, now, "l")
	sb.WriteString("  AND lh.seen_at >= " + arg(now.Add(-f.HashtagWindow)))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
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

// CountLeads implements Storage
func (s *pg) CountLeads(ctx context.Context, f domain.Filters, now time.Time) (int, error) {
	f = f.WithDefaults()

	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString("SELECT COUNT(*) FROM leads l")
	leadWhere(&sb, arg, f, now, "l")

	var n int
	if err := s.q.QueryRow(ctx, sb.String(), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
