package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorlabs/praetor/internal/domain"
)

type RetainerRepo struct {
	pool *pgxpool.Pool
}

func NewRetainerRepo(pool *pgxpool.Pool) *RetainerRepo {
	return &RetainerRepo{pool: pool}
}

func (r *RetainerRepo) FindByGuild(ctx context.Context, guildID string) ([]*domain.Retainer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, client_id, lawyer_id, status, agreement_text, client_name, signed_at, created_at
		 FROM retainers WHERE guild_id = $1
		 ORDER BY created_at`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("retainerRepo.FindByGuild: %w", err)
	}
	defer rows.Close()

	return scanRetainers(rows, "retainerRepo.FindByGuild")
}

func (r *RetainerRepo) FindByID(ctx context.Context, id string) (*domain.Retainer, error) {
	var ret domain.Retainer

	err := r.pool.QueryRow(ctx,
		`SELECT id, guild_id, client_id, lawyer_id, status, agreement_text, client_name, signed_at, created_at
		 FROM retainers WHERE id = $1`,
		id,
	).Scan(
		&ret.ID, &ret.GuildID, &ret.ClientID, &ret.LawyerID, &ret.Status,
		&ret.AgreementText, &ret.ClientName, &ret.SignedAt, &ret.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("retainerRepo.FindByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("retainerRepo.FindByID: %w", err)
	}

	return &ret, nil
}

func scanRetainers(rows pgx.Rows, caller string) ([]*domain.Retainer, error) {
	var retainers []*domain.Retainer
	for rows.Next() {
		var ret domain.Retainer
		if err := rows.Scan(
			&ret.ID, &ret.GuildID, &ret.ClientID, &ret.LawyerID, &ret.Status,
			&ret.AgreementText, &ret.ClientName, &ret.SignedAt, &ret.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		retainers = append(retainers, &ret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return retainers, nil
}
