// Package chat provides transport-agnostic gating for inbound messages:
// an allowlist over users, channels and guilds, and a per-sender rate
// limiter.
package chat

import "strings"

// Gate admits messages based on configured allowlists. An empty list
// allows everything for that dimension.
type Gate struct {
	users    map[string]struct{}
	channels map[string]struct{}
	guilds   map[string]struct{}
}

func NewGate(userIDs, channelIDs, guildIDs []string) *Gate {
	return &Gate{
		users:    toSet(userIDs),
		channels: toSet(channelIDs),
		guilds:   toSet(guildIDs),
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func member(set map[string]struct{}, id string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[id]
	return ok
}

// Allow reports whether a message from userID in channelID/guildID may be
// handled.
func (g *Gate) Allow(userID, channelID, guildID string) bool {
	return member(g.users, userID) && member(g.channels, channelID) && member(g.guilds, guildID)
}
