package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"hackradar/internal/model"
	"hackradar/migrations"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02T15:04:05Z"
)

const hackathonColumns = `id, title, start_date, end_date, location, url, mode, status, source,
	 tags, banner_url, prize_pool, team_size, eligibility`

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// UpsertHackathon inserts a new row or overwrites all mutable fields of an
// existing one, in a single transaction. It reports whether the row is new.
func (s *SQLite) UpsertHackathon(ctx context.Context, h model.Hackathon) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM hackathons WHERE id = ?`, h.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check hackathon: %w", err)
	}

	if exists > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE hackathons
			 SET title = ?, start_date = ?, end_date = ?, location = ?, url = ?, mode = ?,
			     status = ?, source = ?, tags = ?, banner_url = ?, prize_pool = ?,
			     team_size = ?, eligibility = ?
			 WHERE id = ?`,
			h.Title, h.StartDate.Format(dateLayout), h.EndDate.Format(dateLayout),
			h.Location, h.URL, string(h.Mode), h.Status, h.Source, model.JoinTags(h.Tags),
			h.BannerURL, h.PrizePool, h.TeamSize, h.Eligibility, h.ID,
		)
		if err != nil {
			return false, fmt.Errorf("update hackathon: %w", err)
		}
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO hackathons (`+hackathonColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Title, h.StartDate.Format(dateLayout), h.EndDate.Format(dateLayout),
		h.Location, h.URL, string(h.Mode), h.Status, h.Source, model.JoinTags(h.Tags),
		h.BannerURL, h.PrizePool, h.TeamSize, h.Eligibility,
	)
	if err != nil {
		return false, fmt.Errorf("insert hackathon: %w", err)
	}
	return true, tx.Commit()
}

// GetHackathon returns a single hackathon by its id.
func (s *SQLite) GetHackathon(ctx context.Context, id string) (*model.Hackathon, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+hackathonColumns+` FROM hackathons WHERE id = ?`, id,
	)
	h, err := scanHackathon(row)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// SearchByTag returns up to limit hackathons whose tag string contains the
// keyword, case-insensitively.
func (s *SQLite) SearchByTag(ctx context.Context, keyword string, limit int) ([]model.Hackathon, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+hackathonColumns+` FROM hackathons WHERE tags LIKE ? LIMIT ?`,
		"%"+keyword+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query by tag: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanHackathons(rows)
}

// ListByPlatform returns up to limit upcoming hackathons whose source
// contains name, case-insensitively, ordered by start date.
func (s *SQLite) ListByPlatform(ctx context.Context, name string, limit int) ([]model.Hackathon, error) {
	today := time.Now().UTC().Format(dateLayout)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+hackathonColumns+` FROM hackathons
		 WHERE source LIKE ? AND start_date >= ?
		 ORDER BY start_date LIMIT ?`,
		"%"+name+"%", today, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query by platform: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanHackathons(rows)
}

// ListUpcoming returns hackathons starting within [today, today+days],
// ordered by start date.
func (s *SQLite) ListUpcoming(ctx context.Context, days int) ([]model.Hackathon, error) {
	today := time.Now().UTC()
	from := today.Format(dateLayout)
	to := today.AddDate(0, 0, days).Format(dateLayout)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+hackathonColumns+` FROM hackathons
		 WHERE start_date >= ? AND start_date <= ?
		 ORDER BY start_date`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query upcoming: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanHackathons(rows)
}

// ListUpcomingRange returns hackathons starting on or after from and ending
// on or before to, optionally restricted to the given sources, ordered by
// start date.
func (s *SQLite) ListUpcomingRange(ctx context.Context, from, to time.Time, sources []string) ([]model.Hackathon, error) {
	query := `SELECT ` + hackathonColumns + ` FROM hackathons WHERE start_date >= ? AND end_date <= ?`
	args := []any{from.Format(dateLayout), to.Format(dateLayout)}
	if len(sources) > 0 {
		query += ` AND source IN (?` + strings.Repeat(", ?", len(sources)-1) + `)`
		for _, src := range sources {
			args = append(args, src)
		}
	}
	query += ` ORDER BY start_date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query upcoming range: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanHackathons(rows)
}

// SaveGuildPreferences creates or updates a guild's notification settings.
// Empty platform or theme lists are stored as the "all" sentinel so that an
// empty selection means unfiltered. The pause flag survives updates.
func (s *SQLite) SaveGuildPreferences(ctx context.Context, guildID, channelID string, platforms, themes []string) (*model.GuildConfig, error) {
	platformSel := model.NewSelection(platforms)
	themeSel := model.NewSelection(themes)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO guild_configs (guild_id, channel_id, subscribed_platforms, subscribed_themes, notifications_paused)
		 VALUES (?, ?, ?, ?, 0)
		 ON CONFLICT (guild_id) DO UPDATE SET
		     channel_id = excluded.channel_id,
		     subscribed_platforms = excluded.subscribed_platforms,
		     subscribed_themes = excluded.subscribed_themes`,
		guildID, channelID, platformSel.String(), themeSel.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("save guild preferences: %w", err)
	}
	return s.GetGuildConfig(ctx, guildID)
}

// GetGuildConfig returns a guild's configuration, or nil if none exists.
func (s *SQLite) GetGuildConfig(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT guild_id, channel_id, subscribed_platforms, subscribed_themes, notifications_paused
		 FROM guild_configs WHERE guild_id = ?`, guildID,
	)
	cfg, err := scanGuildConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ListGuildConfigs returns all guild configurations.
func (s *SQLite) ListGuildConfigs(ctx context.Context) ([]model.GuildConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT guild_id, channel_id, subscribed_platforms, subscribed_themes, notifications_paused
		 FROM guild_configs ORDER BY guild_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query guild configs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var configs []model.GuildConfig
	for rows.Next() {
		cfg, err := scanGuildConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *cfg)
	}
	return configs, rows.Err()
}

// DeleteGuildConfig removes a guild's configuration, typically after the
// bot has been removed from the guild.
func (s *SQLite) DeleteGuildConfig(ctx context.Context, guildID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM guild_configs WHERE guild_id = ?`, guildID)
	if err != nil {
		return fmt.Errorf("delete guild config: %w", err)
	}
	return nil
}

// SetPaused flips a guild's notification pause flag. It reports false when
// the guild has no configuration yet; no row is created in that case.
func (s *SQLite) SetPaused(ctx context.Context, guildID string, paused bool) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE guild_configs SET notifications_paused = ? WHERE guild_id = ?`,
		boolToInt(paused), guildID,
	)
	if err != nil {
		return false, fmt.Errorf("set paused: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Subscribe records a per-user theme subscription. Subscribing twice to the
// same theme is a no-op; the return value reports whether a row was created.
func (s *SQLite) Subscribe(ctx context.Context, userID, theme string) (bool, error) {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscriptions (user_id, theme, created_at) VALUES (?, ?, ?)`,
		userID, theme, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Unsubscribe removes a per-user theme subscription and reports whether a
// row existed.
func (s *SQLite) Unsubscribe(ctx context.Context, userID, theme string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND theme = ?`, userID, theme,
	)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListUserSubscriptions returns all theme subscriptions of one user.
func (s *SQLite) ListUserSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, theme, created_at FROM subscriptions WHERE user_id = ? ORDER BY theme`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanSubscriptions(rows)
}

// ListAllSubscriptions returns every theme subscription.
func (s *SQLite) ListAllSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, theme, created_at FROM subscriptions ORDER BY user_id, theme`,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanSubscriptions(rows)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scannable interface {
	Scan(dest ...any) error
}

func scanHackathon(row scannable) (*model.Hackathon, error) {
	var h model.Hackathon
	var startStr, endStr, modeStr, tagsStr string
	var banner, prize, teamSize, eligibility sql.NullString
	err := row.Scan(&h.ID, &h.Title, &startStr, &endStr, &h.Location, &h.URL, &modeStr,
		&h.Status, &h.Source, &tagsStr, &banner, &prize, &teamSize, &eligibility)
	if err != nil {
		return nil, fmt.Errorf("scan hackathon: %w", err)
	}
	h.StartDate, _ = time.Parse(dateLayout, startStr)
	h.EndDate, _ = time.Parse(dateLayout, endStr)
	h.Mode = model.Mode(modeStr)
	h.Tags = model.SplitTags(tagsStr)
	h.BannerURL = banner.String
	h.PrizePool = prize.String
	h.TeamSize = teamSize.String
	h.Eligibility = eligibility.String
	return &h, nil
}

func scanHackathons(rows *sql.Rows) ([]model.Hackathon, error) {
	var hackathons []model.Hackathon
	for rows.Next() {
		h, err := scanHackathon(rows)
		if err != nil {
			return nil, err
		}
		hackathons = append(hackathons, *h)
	}
	return hackathons, rows.Err()
}

func scanGuildConfig(row scannable) (*model.GuildConfig, error) {
	var cfg model.GuildConfig
	var platforms, themes string
	var paused int
	err := row.Scan(&cfg.GuildID, &cfg.ChannelID, &platforms, &themes, &paused)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan guild config: %w", err)
	}
	cfg.Platforms = model.ParseSelection(platforms)
	cfg.Themes = model.ParseSelection(themes)
	cfg.Paused = paused == 1
	return &cfg, nil
}

func scanSubscriptions(rows *sql.Rows) ([]model.Subscription, error) {
	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		var createdStr string
		if err := rows.Scan(&sub.UserID, &sub.Theme, &createdStr); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		sub.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
