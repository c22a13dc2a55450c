// Package notify fans newly ingested hackathons out to guild channels and
// subscribed users. Rendering and delivery mechanics live behind the Sender
// interface; this package only decides who receives what.
package notify

import (
	"context"
	"log/slog"

	"hackradar/internal/model"
	"hackradar/internal/storage"
)

// Sender delivers one record to a destination. Implementations decide how
// the record is rendered.
type Sender interface {
	SendChannel(channelID string, h model.Hackathon) error
	SendDM(userID string, h model.Hackathon) error
}

// Notifier filters new records against stored preferences and dispatches
// them through a Sender.
type Notifier struct {
	store  storage.Storage
	sender Sender
	log    *slog.Logger
}

// New creates a Notifier.
func New(store storage.Storage, sender Sender, log *slog.Logger) *Notifier {
	return &Notifier{
		store:  store,
		sender: sender,
		log:    log,
	}
}

// MatchesGuild reports whether a record passes both of a guild's filters:
// the platform selection must match the record's source and the theme
// selection must match at least one tag.
func MatchesGuild(h model.Hackathon, cfg model.GuildConfig) bool {
	if !cfg.Platforms.Matches(h.Source) {
		return false
	}
	if cfg.Themes.All {
		return true
	}
	for _, tag := range h.Tags {
		if cfg.Themes.Matches(tag) {
			return true
		}
	}
	return false
}

// MatchesTheme reports whether a subscribed theme is a case-insensitive
// substring of any tag on the record.
func MatchesTheme(h model.Hackathon, theme string) bool {
	sel := model.Selection{Values: []string{theme}}
	for _, tag := range h.Tags {
		if sel.Matches(tag) {
			return true
		}
	}
	return false
}

// Broadcast delivers new records to every configured guild channel and
// every matching user subscription. Each send is independent: a failed
// delivery is logged and never aborts the batch.
func (n *Notifier) Broadcast(ctx context.Context, hackathons []model.Hackathon) {
	if len(hackathons) == 0 {
		return
	}
	n.broadcastGuilds(ctx, hackathons)
	n.broadcastSubscribers(ctx, hackathons)
}

func (n *Notifier) broadcastGuilds(ctx context.Context, hackathons []model.Hackathon) {
	configs, err := n.store.ListGuildConfigs(ctx)
	if err != nil {
		n.log.Error("list guild configs", "error", err)
		return
	}

	for _, cfg := range configs {
		if cfg.Paused {
			n.log.Debug("guild paused, skipping", "guild_id", cfg.GuildID)
			continue
		}
		for _, h := range hackathons {
			if !MatchesGuild(h, cfg) {
				continue
			}
			if err := n.sender.SendChannel(cfg.ChannelID, h); err != nil {
				n.log.Error("send to channel", "guild_id", cfg.GuildID, "channel_id", cfg.ChannelID, "error", err)
			}
		}
	}
}

func (n *Notifier) broadcastSubscribers(ctx context.Context, hackathons []model.Hackathon) {
	subs, err := n.store.ListAllSubscriptions(ctx)
	if err != nil {
		n.log.Error("list subscriptions", "error", err)
		return
	}

	for _, h := range hackathons {
		// A record matching several of a user's themes is sent once.
		delivered := make(map[string]bool)
		for _, sub := range subs {
			if delivered[sub.UserID] || !MatchesTheme(h, sub.Theme) {
				continue
			}
			if err := n.sender.SendDM(sub.UserID, h); err != nil {
				n.log.Error("send dm", "user_id", sub.UserID, "error", err)
				continue
			}
			delivered[sub.UserID] = true
		}
	}
}
