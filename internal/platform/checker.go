// Package platform abstracts the chat platform consulted by strict
// validation rules for existence checks on guilds, channels, and members.
package platform

import "context"

// ExistenceChecker answers whether platform-side entities referenced by
// stored records still exist. Implementations must treat "not found" as
// (false, nil); an error return means the check itself could not be made.
type ExistenceChecker interface {
	GuildExists(ctx context.Context, guildID string) (bool, error)
	ChannelExists(ctx context.Context, guildID, channelID string) (bool, error)
	MemberExists(ctx context.Context, guildID, userID string) (bool, error)
}
