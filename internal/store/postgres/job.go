package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorlabs/praetor/internal/domain"
)

type JobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

func (r *JobRepo) FindByGuild(ctx context.Context, guildID string) ([]*domain.Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, title, description, staff_role, role_id, is_open, questions, posted_by, created_at, closed_at
		 FROM jobs WHERE guild_id = $1
		 ORDER BY created_at`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("jobRepo.FindByGuild: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows, "jobRepo.FindByGuild")
}

func (r *JobRepo) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	var j domain.Job

	err := r.pool.QueryRow(ctx,
		`SELECT id, guild_id, title, description, staff_role, role_id, is_open, questions, posted_by, created_at, closed_at
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(
		&j.ID, &j.GuildID, &j.Title, &j.Description, &j.StaffRole, &j.RoleID,
		&j.IsOpen, &j.Questions, &j.PostedBy, &j.CreatedAt, &j.ClosedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("jobRepo.FindByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("jobRepo.FindByID: %w", err)
	}

	return &j, nil
}

func scanJobs(rows pgx.Rows, caller string) ([]*domain.Job, error) {
	var jobs []*domain.Job
	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(
			&j.ID, &j.GuildID, &j.Title, &j.Description, &j.StaffRole, &j.RoleID,
			&j.IsOpen, &j.Questions, &j.PostedBy, &j.CreatedAt, &j.ClosedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return jobs, nil
}
