package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorlabs/praetor/internal/domain"
)

type StaffRepo struct {
	pool *pgxpool.Pool
}

func NewStaffRepo(pool *pgxpool.Pool) *StaffRepo {
	return &StaffRepo{pool: pool}
}

func (r *StaffRepo) FindByGuild(ctx context.Context, guildID string) ([]*domain.Staff, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, user_id, username, role, status, hired_at, hired_by, promotion_count, created_at, updated_at
		 FROM staff WHERE guild_id = $1
		 ORDER BY hired_at`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("staffRepo.FindByGuild: %w", err)
	}
	defer rows.Close()

	return scanStaff(rows, "staffRepo.FindByGuild")
}

func (r *StaffRepo) FindByID(ctx context.Context, id string) (*domain.Staff, error) {
	var s domain.Staff

	err := r.pool.QueryRow(ctx,
		`SELECT id, guild_id, user_id, username, role, status, hired_at, hired_by, promotion_count, created_at, updated_at
		 FROM staff WHERE id = $1`,
		id,
	).Scan(
		&s.ID, &s.GuildID, &s.UserID, &s.Username, &s.Role, &s.Status,
		&s.HiredAt, &s.HiredBy, &s.PromotionCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("staffRepo.FindByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("staffRepo.FindByID: %w", err)
	}

	return &s, nil
}

func (r *StaffRepo) FindByUserID(ctx context.Context, guildID, userID string) (*domain.Staff, error) {
	var s domain.Staff

	err := r.pool.QueryRow(ctx,
		`SELECT id, guild_id, user_id, username, role, status, hired_at, hired_by, promotion_count, created_at, updated_at
		 FROM staff WHERE guild_id = $1 AND user_id = $2`,
		guildID, userID,
	).Scan(
		&s.ID, &s.GuildID, &s.UserID, &s.Username, &s.Role, &s.Status,
		&s.HiredAt, &s.HiredBy, &s.PromotionCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("staffRepo.FindByUserID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("staffRepo.FindByUserID: %w", err)
	}

	return &s, nil
}

func (r *StaffRepo) UpdateStatus(ctx context.Context, id string, status domain.StaffStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("staffRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("staffRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func scanStaff(rows pgx.Rows, caller string) ([]*domain.Staff, error) {
	var staff []*domain.Staff
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(
			&s.ID, &s.GuildID, &s.UserID, &s.Username, &s.Role, &s.Status,
			&s.HiredAt, &s.HiredBy, &s.PromotionCount, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		staff = append(staff, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return staff, nil
}
