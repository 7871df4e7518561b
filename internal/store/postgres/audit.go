package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorlabs/praetor/internal/domain"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: marshal details: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_log (id, guild_id, actor_type, actor_id, action, target_kind, target_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.GuildID, entry.ActorType, entry.ActorID, entry.Action,
		entry.TargetKind, entry.TargetID, details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: %w", err)
	}

	return nil
}

func (r *AuditRepo) ListByGuild(ctx context.Context, guildID string, limit, offset int) ([]*domain.AuditEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, actor_type, actor_id, action, target_kind, target_id, details, created_at
		 FROM audit_log WHERE guild_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		guildID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByGuild: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows, "auditRepo.ListByGuild")
}

func scanAuditEntries(rows pgx.Rows, caller string) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	for rows.Next() {
		var (
			e       domain.AuditEntry
			details []byte
		)
		if err := rows.Scan(
			&e.ID, &e.GuildID, &e.ActorType, &e.ActorID, &e.Action,
			&e.TargetKind, &e.TargetID, &details, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("%s: unmarshal details: %w", caller, err)
			}
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return entries, nil
}
