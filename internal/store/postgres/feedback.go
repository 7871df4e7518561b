package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorlabs/praetor/internal/domain"
)

type FeedbackRepo struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepo(pool *pgxpool.Pool) *FeedbackRepo {
	return &FeedbackRepo{pool: pool}
}

func (r *FeedbackRepo) FindByGuild(ctx context.Context, guildID string) ([]*domain.Feedback, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, submitter_id, submitter_name, target_staff_id, rating, comment, created_at
		 FROM feedback WHERE guild_id = $1
		 ORDER BY created_at`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("feedbackRepo.FindByGuild: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows, "feedbackRepo.FindByGuild")
}

func scanFeedback(rows pgx.Rows, caller string) ([]*domain.Feedback, error) {
	var feedback []*domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(
			&f.ID, &f.GuildID, &f.SubmitterID, &f.SubmitterName,
			&f.TargetStaffID, &f.Rating, &f.Comment, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		feedback = append(feedback, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return feedback, nil
}
