package main

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/praetorlabs/praetor/internal/config"
	"github.com/praetorlabs/praetor/internal/integrity"
	"github.com/praetorlabs/praetor/internal/integrity/rules"
	"github.com/praetorlabs/praetor/internal/platform"
	"github.com/praetorlabs/praetor/internal/store/postgres"
	redisstore "github.com/praetorlabs/praetor/internal/store/redis"
)

// app bundles the wired services shared by all subcommands.
type app struct {
	cfg     *config.Config
	store   *postgres.Store
	pubsub  *redisstore.PubSub // nil when withRedis is false
	checker platform.ExistenceChecker
	scanner *integrity.Scanner
	engine  *integrity.Engine
}

// newApp loads configuration and wires storage, the rule registry, and the
// integrity services. withRedis controls whether scan events are published;
// one-shot CLI runs skip the broker.
func newApp(ctx context.Context, withRedis bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return nil, fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return nil, err
	}

	var pubsub *redisstore.PubSub
	if withRedis {
		pubsub, err = redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	var checker platform.ExistenceChecker
	if cfg.Slack.BotToken != "" {
		checker = platform.NewSlackChecker(slacklib.New(cfg.Slack.BotToken), float64(cfg.Slack.RPS), cfg.Slack.Burst)
		log.Info().Msg("workspace existence checks enabled")
	}

	repos := store.Repositories()

	registry := integrity.NewRegistry()
	if err := rules.RegisterAll(registry, rules.Deps{
		Staff: repos.Staff,
		Jobs:  repos.Jobs,
		Cases: repos.Cases,
	}); err != nil {
		if pubsub != nil {
			_ = pubsub.Close()
		}
		store.Close()
		return nil, err
	}

	cache := integrity.NewResultCache(cfg.Integrity.CacheTTL)
	validator := integrity.NewValidator(registry, cache)
	executor := integrity.NewExecutor(cfg.Integrity.MaxConcurrent)

	var publisher integrity.EventPublisher
	if pubsub != nil {
		publisher = pubsub
	}

	return &app{
		cfg:     cfg,
		store:   store,
		pubsub:  pubsub,
		checker: checker,
		scanner: integrity.NewScanner(repos, validator, executor, publisher),
		engine:  integrity.NewEngine(repos, store.Audit(), cache),
	}, nil
}

// scanContext builds a validation context for one guild honoring the
// configured validation level.
func (a *app) scanContext(guildID string) *integrity.Context {
	vc := &integrity.Context{
		GuildID: guildID,
		Level:   integrity.LevelLenient,
	}
	if a.cfg.Integrity.Strict() && a.checker != nil {
		vc.Checker = a.checker
		vc.Level = integrity.LevelStrict
	}
	return vc
}

func (a *app) close() {
	if a.pubsub != nil {
		if err := a.pubsub.Close(); err != nil {
			log.Warn().Err(err).Msg("closing redis")
		}
	}
	a.store.Close()
}
