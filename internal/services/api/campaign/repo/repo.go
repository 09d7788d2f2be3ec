// Package repo provides the campaign repository over Postgres
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"nichelens/internal/core/lifecycle"
	"nichelens/internal/modkit/repokit"
	"nichelens/internal/services/api/campaign/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new campaign repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the campaign repository. Status writes are compare-and-set
// so two concurrent transitions cannot both win
type Storage interface {
	Create(ctx context.Context, in domain.CreateInput) (domain.Campaign, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Campaign, error)
	SubClusterCount(ctx context.Context, id uuid.UUID) (int, error)
	CASStatus(ctx context.Context, id uuid.UUID, from, to lifecycle.Status, eff lifecycle.Effects) (domain.Campaign, bool, error)
	ReplaceResult(ctx context.Context, id uuid.UUID, runID string, subs []domain.SubClusterRecord) error
	AttachLeads(ctx context.Context, id uuid.UUID, leadIDs []string) error
}

const campaignCols = `
	c.id::text, c.name, c.niche_name, c.seeds, COALESCE(c.geography, ''),
	c.status::text, COALESCE(c.cluster_run_id, ''),
	(SELECT COUNT(*) FROM campaign_leads cl WHERE cl.campaign_id = c.id),
	c.started_at, c.completed_at, c.created_at, c.updated_at`

func scanCampaign(row repokit.Row) (domain.Campaign, error) {
	var (
		c      domain.Campaign
		id     string
		status string
	)
	err := row.Scan(
		&id, &c.Name, &c.NicheName, &c.Seeds, &c.Geography,
		&status, &c.ClusterRunID, &c.LeadCount,
		&c.StartedAt, &c.CompletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Campaign{}, err
	}
	c.ID, err = uuid.Parse(id)
	if err != nil {
		return domain.Campaign{}, err
	}
	c.Status = lifecycle.Status(status)
	return c, nil
}

// Create implements Storage
func (s *pg) Create(ctx context.Context, in domain.CreateInput) (domain.Campaign, error) {
	row := s.q.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO campaigns (id, name, niche_name, seeds, geography, status)
			VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4, ''), 'draft')
			RETURNING *
		)
		SELECT `+strings.ReplaceAll(campaignCols, "c.", "ins.")+` FROM ins`,
		in.Name, in.NicheName, in.Seeds, in.Geography,
	)
	return scanCampaign(row)
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id uuid.UUID) (domain.Campaign, error) {
	row := s.q.QueryRow(ctx, `SELECT `+campaignCols+` FROM campaigns c WHERE c.id = $1`, id.String())
	return scanCampaign(row)
}

// SubClusterCount implements Storage
func (s *pg) SubClusterCount(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := s.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM campaign_subclusters WHERE campaign_id = $1`, id.String(),
	).Scan(&n)
	return n, err
}

// CASStatus implements Storage. The WHERE clause on the previous status is
// the compare half of compare-and-set; zero rows updated means the status
// changed underneath the caller
func (s *pg) CASStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to lifecycle.Status,
	eff lifecycle.Effects,
) (domain.Campaign, bool, error) {
	row := s.q.QueryRow(ctx, `
		WITH upd AS (
			UPDATE campaigns SET
				status = $3,
				started_at = COALESCE($4, started_at),
				completed_at = COALESCE($5, completed_at),
				updated_at = now()
			WHERE id = $1 AND status = $2
			RETURNING *
		)
		SELECT `+strings.ReplaceAll(campaignCols, "c.", "upd.")+` FROM upd`,
		id.String(), string(from), string(to), eff.StartedAt, eff.CompletedAt,
	)
	c, err := scanCampaign(row)
	if err != nil {
		if isNoRows(err) {
			return domain.Campaign{}, false, nil
		}
		return domain.Campaign{}, false, err
	}
	return c, true, nil
}

// ReplaceResult implements Storage: delete-then-insert so re-running
// clustering on a draft fully replaces the previous result. A run can
// legitimately produce zero sub-clusters; the delete and the run id stamp
// still apply. Caller wraps this and the lead attach in one transaction
func (s *pg) ReplaceResult(ctx context.Context, id uuid.UUID, runID string, subs []domain.SubClusterRecord) error {
	if _, err := s.q.Exec(ctx,
		`DELETE FROM campaign_subclusters WHERE campaign_id = $1`, id.String(),
	); err != nil {
		return err
	}

	if len(subs) > 0 {
		var sb strings.Builder
		sb.WriteString(`INSERT INTO campaign_subclusters
			(campaign_id, position, name, member_ids, member_count, top_hashtags, theme_keywords, relevance_score)
			VALUES `)
		args := make([]any, 0, len(subs)*8)
		for i, sc := range subs {
			if i > 0 {
				sb.WriteByte(',')
			}
			base := i*8 + 1
			fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base, base+1, base+2, base+3, base+4, base+5, base+6, base+7)
			args = append(args,
				id.String(), sc.Position, sc.Name, sc.MemberIDs,
				sc.MemberCount, sc.TopHashtags, sc.ThemeKeywords, sc.RelevanceScore,
			)
		}
		if _, err := s.q.Exec(ctx, sb.String(), args...); err != nil {
			return err
		}
	}

	_, err := s.q.Exec(ctx,
		`UPDATE campaigns SET cluster_run_id = $2, updated_at = now() WHERE id = $1`,
		id.String(), runID,
	)
	return err
}

// AttachLeads implements Storage
func (s *pg) AttachLeads(ctx context.Context, id uuid.UUID, leadIDs []string) error {
	if len(leadIDs) == 0 {
		return nil
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO campaign_leads (campaign_id, lead_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT (campaign_id, lead_id) DO NOTHING`,
		id.String(), leadIDs,
	)
	return err
}

func isNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

// IsNotFound reports whether a read failed because the row does not exist
func IsNotFound(err error) bool { return isNoRows(err) }
