package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

type Store struct {
	pool         *pgxpool.Pool
	staff        *StaffRepo
	cases        *CaseRepo
	applications *ApplicationRepo
	jobs         *JobRepo
	retainers    *RetainerRepo
	feedback     *FeedbackRepo
	reminders    *ReminderRepo
	audit        *AuditRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:         pool,
		staff:        NewStaffRepo(pool),
		cases:        NewCaseRepo(pool),
		applications: NewApplicationRepo(pool),
		jobs:         NewJobRepo(pool),
		retainers:    NewRetainerRepo(pool),
		feedback:     NewFeedbackRepo(pool),
		reminders:    NewReminderRepo(pool),
		audit:        NewAuditRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Staff() domain.StaffRepository              { return s.staff }
func (s *Store) Cases() domain.CaseRepository               { return s.cases }
func (s *Store) Applications() domain.ApplicationRepository { return s.applications }
func (s *Store) Jobs() domain.JobRepository                 { return s.jobs }
func (s *Store) Retainers() domain.RetainerRepository       { return s.retainers }
func (s *Store) Feedback() domain.FeedbackRepository        { return s.feedback }
func (s *Store) Reminders() domain.ReminderRepository       { return s.reminders }
func (s *Store) Audit() domain.AuditRepository              { return s.audit }

// Repositories bundles the collections the integrity engine consumes.
func (s *Store) Repositories() integrity.Repositories {
	return integrity.Repositories{
		Staff:        s.staff,
		Cases:        s.cases,
		Applications: s.applications,
		Jobs:         s.jobs,
		Retainers:    s.retainers,
		Feedback:     s.feedback,
		Reminders:    s.reminders,
	}
}
