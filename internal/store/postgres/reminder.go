package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorlabs/praetor/internal/domain"
)

type ReminderRepo struct {
	pool *pgxpool.Pool
}

func NewReminderRepo(pool *pgxpool.Pool) *ReminderRepo {
	return &ReminderRepo{pool: pool}
}

func (r *ReminderRepo) FindByGuild(ctx context.Context, guildID string) ([]*domain.Reminder, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, user_id, channel_id, case_id, message, scheduled_for, active, delivered_at, created_at
		 FROM reminders WHERE guild_id = $1
		 ORDER BY scheduled_for`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("reminderRepo.FindByGuild: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows, "reminderRepo.FindByGuild")
}

func (r *ReminderRepo) FindByID(ctx context.Context, id string) (*domain.Reminder, error) {
	var rem domain.Reminder

	err := r.pool.QueryRow(ctx,
		`SELECT id, guild_id, user_id, channel_id, case_id, message, scheduled_for, active, delivered_at, created_at
		 FROM reminders WHERE id = $1`,
		id,
	).Scan(
		&rem.ID, &rem.GuildID, &rem.UserID, &rem.ChannelID, &rem.CaseID,
		&rem.Message, &rem.ScheduledFor, &rem.Active, &rem.DeliveredAt, &rem.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reminderRepo.FindByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reminderRepo.FindByID: %w", err)
	}

	return &rem, nil
}

func (r *ReminderRepo) SetChannelID(ctx context.Context, id, channelID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reminders SET channel_id = $1 WHERE id = $2`,
		channelID, id,
	)
	if err != nil {
		return fmt.Errorf("reminderRepo.SetChannelID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reminderRepo.SetChannelID: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ReminderRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reminders SET active = false WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("reminderRepo.Deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reminderRepo.Deactivate: %w", domain.ErrNotFound)
	}

	return nil
}

func scanReminders(rows pgx.Rows, caller string) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(
			&rem.ID, &rem.GuildID, &rem.UserID, &rem.ChannelID, &rem.CaseID,
			&rem.Message, &rem.ScheduledFor, &rem.Active, &rem.DeliveredAt, &rem.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		reminders = append(reminders, &rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return reminders, nil
}
