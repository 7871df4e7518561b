package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorlabs/praetor/internal/domain"
)

type CaseRepo struct {
	pool *pgxpool.Pool
}

func NewCaseRepo(pool *pgxpool.Pool) *CaseRepo {
	return &CaseRepo{pool: pool}
}

func (r *CaseRepo) FindByGuild(ctx context.Context, guildID string) ([]*domain.CaseFile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, case_number, client_id, title, status, priority,
		        lead_attorney_id, assigned_lawyer_ids, channel_id, result, created_at, closed_at, updated_at
		 FROM cases WHERE guild_id = $1
		 ORDER BY created_at`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("caseRepo.FindByGuild: %w", err)
	}
	defer rows.Close()

	return scanCases(rows, "caseRepo.FindByGuild")
}

func (r *CaseRepo) FindByID(ctx context.Context, id string) (*domain.CaseFile, error) {
	var c domain.CaseFile

	err := r.pool.QueryRow(ctx,
		`SELECT id, guild_id, case_number, client_id, title, status, priority,
		        lead_attorney_id, assigned_lawyer_ids, channel_id, result, created_at, closed_at, updated_at
		 FROM cases WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.GuildID, &c.CaseNumber, &c.ClientID, &c.Title, &c.Status, &c.Priority,
		&c.LeadAttorneyID, &c.AssignedLawyerIDs, &c.ChannelID, &c.Result,
		&c.CreatedAt, &c.ClosedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("caseRepo.FindByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("caseRepo.FindByID: %w", err)
	}

	return &c, nil
}

func (r *CaseRepo) SetChannelID(ctx context.Context, id, channelID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cases SET channel_id = $1, updated_at = now() WHERE id = $2`,
		channelID, id,
	)
	if err != nil {
		return fmt.Errorf("caseRepo.SetChannelID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("caseRepo.SetChannelID: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CaseRepo) SetLeadAttorney(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cases SET lead_attorney_id = $1, updated_at = now() WHERE id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("caseRepo.SetLeadAttorney: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("caseRepo.SetLeadAttorney: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CaseRepo) AddAssignedLawyer(ctx context.Context, id, userID string) error {
	// Set-add: adding a lawyer already in the list keeps the row unchanged
	// so the operation stays idempotent.
	tag, err := r.pool.Exec(ctx,
		`UPDATE cases
		 SET assigned_lawyer_ids = CASE
		         WHEN $1 = ANY(assigned_lawyer_ids) THEN assigned_lawyer_ids
		         ELSE array_append(assigned_lawyer_ids, $1)
		     END,
		     updated_at = now()
		 WHERE id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("caseRepo.AddAssignedLawyer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("caseRepo.AddAssignedLawyer: %w", domain.ErrNotFound)
	}

	return nil
}

func scanCases(rows pgx.Rows, caller string) ([]*domain.CaseFile, error) {
	var cases []*domain.CaseFile
	for rows.Next() {
		var c domain.CaseFile
		if err := rows.Scan(
			&c.ID, &c.GuildID, &c.CaseNumber, &c.ClientID, &c.Title, &c.Status, &c.Priority,
			&c.LeadAttorneyID, &c.AssignedLawyerIDs, &c.ChannelID, &c.Result,
			&c.CreatedAt, &c.ClosedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		cases = append(cases, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return cases, nil
}
