package platform

import (
	"context"
	"fmt"

	slacklib "github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

// SlackAPI abstracts the subset of the Slack client used by SlackChecker.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	GetTeamInfoContext(ctx context.Context) (*slacklib.TeamInfo, error)
	GetConversationInfoContext(ctx context.Context, input *slacklib.GetConversationInfoInput) (*slacklib.Channel, error)
	GetUserInfoContext(ctx context.Context, user string) (*slacklib.User, error)
}

// SlackChecker implements ExistenceChecker against a Slack workspace.
// All calls go through a client-side rate limiter so that a full integrity
// scan cannot trip the platform's Tier 3 API limits.
type SlackChecker struct {
	api     SlackAPI
	limiter *rate.Limiter
}

// Compile-time interface check.
var _ ExistenceChecker = (*SlackChecker)(nil) //nolint:gochecknoglobals // compile-time check

// NewSlackChecker creates a SlackChecker with the given API client and
// rate limit budget.
func NewSlackChecker(api SlackAPI, requestsPerSecond float64, burst int) *SlackChecker {
	return &SlackChecker{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// GuildExists reports whether guildID is the workspace the bot token is
// installed in. Slack bot tokens are workspace-scoped, so any other ID is
// by definition gone from this bot's point of view.
func (c *SlackChecker) GuildExists(ctx context.Context, guildID string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("platform.SlackChecker.GuildExists: %w", err)
	}

	team, err := c.api.GetTeamInfoContext(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("platform.SlackChecker.GuildExists: %w", err)
	}

	return team.ID == guildID, nil
}

// ChannelExists reports whether the conversation still exists and has not
// been archived.
func (c *SlackChecker) ChannelExists(ctx context.Context, _, channelID string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("platform.SlackChecker.ChannelExists: %w", err)
	}

	channel, err := c.api.GetConversationInfoContext(ctx, &slacklib.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("platform.SlackChecker.ChannelExists: %w", err)
	}

	return !channel.IsArchived, nil
}

// MemberExists reports whether the user account still exists and is not
// deactivated.
func (c *SlackChecker) MemberExists(ctx context.Context, _, userID string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("platform.SlackChecker.MemberExists: %w", err)
	}

	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("platform.SlackChecker.MemberExists: %w", err)
	}

	return !user.Deleted, nil
}

// isNotFound classifies Slack's string-coded API errors that mean the
// referenced entity is gone rather than the call having failed.
func isNotFound(err error) bool {
	switch err.Error() {
	case "channel_not_found", "user_not_found", "users_not_found", "team_not_found", "account_inactive":
		return true
	default:
		return false
	}
}
