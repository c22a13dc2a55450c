// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"time"

	"hackradar/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	// UpsertHackathon inserts the record or overwrites every mutable field
	// of an existing row with the same id. It reports whether the id was
	// seen for the first time.
	UpsertHackathon(ctx context.Context, h model.Hackathon) (bool, error)
	GetHackathon(ctx context.Context, id string) (*model.Hackathon, error)
	SearchByTag(ctx context.Context, keyword string, limit int) ([]model.Hackathon, error)
	ListByPlatform(ctx context.Context, name string, limit int) ([]model.Hackathon, error)
	ListUpcoming(ctx context.Context, days int) ([]model.Hackathon, error)
	ListUpcomingRange(ctx context.Context, from, to time.Time, sources []string) ([]model.Hackathon, error)

	SaveGuildPreferences(ctx context.Context, guildID, channelID string, platforms, themes []string) (*model.GuildConfig, error)
	GetGuildConfig(ctx context.Context, guildID string) (*model.GuildConfig, error)
	ListGuildConfigs(ctx context.Context) ([]model.GuildConfig, error)
	DeleteGuildConfig(ctx context.Context, guildID string) error
	// SetPaused flips the notification pause flag. It reports false when
	// no configuration exists for the guild yet.
	SetPaused(ctx context.Context, guildID string, paused bool) (bool, error)

	// Subscribe is idempotent per (user, theme); it reports whether a new
	// subscription was created.
	Subscribe(ctx context.Context, userID, theme string) (bool, error)
	// Unsubscribe reports whether a subscription was actually removed.
	Unsubscribe(ctx context.Context, userID, theme string) (bool, error)
	ListUserSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error)
	ListAllSubscriptions(ctx context.Context) ([]model.Subscription, error)

	Close() error
}
