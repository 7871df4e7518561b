package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorlabs/praetor/internal/domain"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

func (r *ApplicationRepo) FindByGuild(ctx context.Context, guildID string) ([]*domain.Application, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, job_id, applicant_id, status, answers, reviewed_by, reviewed_at, created_at
		 FROM applications WHERE guild_id = $1
		 ORDER BY created_at`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("applicationRepo.FindByGuild: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows, "applicationRepo.FindByGuild")
}

func (r *ApplicationRepo) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	var a domain.Application

	err := r.pool.QueryRow(ctx,
		`SELECT id, guild_id, job_id, applicant_id, status, answers, reviewed_by, reviewed_at, created_at
		 FROM applications WHERE id = $1`,
		id,
	).Scan(
		&a.ID, &a.GuildID, &a.JobID, &a.ApplicantID, &a.Status,
		&a.Answers, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("applicationRepo.FindByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("applicationRepo.FindByID: %w", err)
	}

	return &a, nil
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("applicationRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("applicationRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func scanApplications(rows pgx.Rows, caller string) ([]*domain.Application, error) {
	var apps []*domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(
			&a.ID, &a.GuildID, &a.JobID, &a.ApplicantID, &a.Status,
			&a.Answers, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		apps = append(apps, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return apps, nil
}
