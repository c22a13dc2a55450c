// Package bot is the Discord-facing layer: slash commands in, notification
// messages out. All aggregation logic lives below it.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"hackradar/internal/ingest"
	"hackradar/internal/model"
	"hackradar/internal/storage"
)

// Bot wires the Discord session to the store and the ingestion pipeline.
type Bot struct {
	session  *discordgo.Session
	store    storage.Storage
	ingestor *ingest.Ingestor
	log      *slog.Logger
}

// New creates a Bot with the given Discord token.
func New(token string, store storage.Storage, ingestor *ingest.Ingestor, log *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session:  session,
		store:    store,
		ingestor: ingestor,
		log:      log,
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	session.AddHandler(b.onGuildDelete)

	return b, nil
}

// Run opens the gateway connection, registers the slash commands, and
// blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer func() { _ = b.session.Close() }()

	appID := b.session.State.User.ID
	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return fmt.Errorf("register command %s: %w", cmd.Name, err)
		}
	}

	b.log.Info("bot connected", "user", b.session.State.User.Username)
	<-ctx.Done()
	return nil
}

// SendChannel delivers a hackathon notification to a guild channel.
func (b *Bot) SendChannel(channelID string, h model.Hackathon) error {
	_, err := b.session.ChannelMessageSend(channelID, FormatHackathon(h))
	if err != nil {
		return fmt.Errorf("send to channel %s: %w", channelID, err)
	}
	return nil
}

// SendDM delivers a hackathon notification to a user's direct messages.
func (b *Bot) SendDM(userID string, h model.Hackathon) error {
	ch, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open dm channel for %s: %w", userID, err)
	}
	if _, err := b.session.ChannelMessageSend(ch.ID, FormatHackathon(h)); err != nil {
		return fmt.Errorf("send dm to %s: %w", userID, err)
	}
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("discord ready", "guilds", len(r.Guilds))
}

// onGuildDelete drops the stored configuration when the bot is removed
// from a guild. Outage events are ignored.
func (b *Bot) onGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return
	}
	if err := b.store.DeleteGuildConfig(context.Background(), g.ID); err != nil {
		b.log.Error("delete guild config", "guild_id", g.ID, "error", err)
		return
	}
	b.log.Info("removed guild config", "guild_id", g.ID)
}
