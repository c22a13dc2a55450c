package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	searchLimit   = 5
	platformLimit = 10
	upcomingDays  = 7
)

var adminOnly = int64(discordgo.PermissionAdministrator)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "hackathons",
		Description: "Show hackathons starting soon",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "days",
				Description: "How many days ahead to look (default 7)",
			},
		},
	},
	{
		Name:        "search",
		Description: "Search hackathons by theme keyword",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "keyword",
				Description: "Theme to search for, e.g. AI or blockchain",
				Required:    true,
			},
		},
	},
	{
		Name:        "platform",
		Description: "Show upcoming hackathons from one platform",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Platform name, e.g. Devpost",
				Required:    true,
			},
		},
	},
	{
		Name:        "calendar",
		Description: "Show hackathons held within one calendar month",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "month",
				Description: "Month to show, e.g. 2026-03 (default: current month)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "platforms",
				Description: "Comma-separated platforms to include (empty = all)",
			},
		},
	},
	{
		Name:        "fetch",
		Description: "Fetch hackathons now and post anything new here",
	},
	{
		Name:                     "setpreferences",
		Description:              "Choose the notification channel and filters for this server",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Channel to post notifications in",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "platforms",
				Description: "Comma-separated platforms to include (empty = all)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "themes",
				Description: "Comma-separated themes to include (empty = all)",
			},
		},
	},
	{
		Name:                     "pause",
		Description:              "Pause hackathon notifications for this server",
		DefaultMemberPermissions: &adminOnly,
	},
	{
		Name:                     "resume",
		Description:              "Resume hackathon notifications for this server",
		DefaultMemberPermissions: &adminOnly,
	},
	{
		Name:        "subscribe",
		Description: "Get a DM when a hackathon matches a theme",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "theme",
				Description: "Theme to subscribe to",
				Required:    true,
			},
		},
	},
	{
		Name:        "unsubscribe",
		Description: "Stop theme DMs",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "theme",
				Description: "Theme to unsubscribe from",
				Required:    true,
			},
		},
	},
	{
		Name:        "mysubscriptions",
		Description: "List your theme subscriptions",
	},
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx := context.Background()
	data := i.ApplicationCommandData()
	b.log.Debug("command", "name", data.Name, "guild_id", i.GuildID)

	switch data.Name {
	case "hackathons":
		b.handleUpcoming(ctx, s, i)
	case "search":
		b.handleSearch(ctx, s, i)
	case "platform":
		b.handlePlatform(ctx, s, i)
	case "calendar":
		b.handleCalendar(ctx, s, i)
	case "fetch":
		b.handleFetch(ctx, s, i)
	case "setpreferences":
		b.handleSetPreferences(ctx, s, i)
	case "pause":
		b.handleSetPaused(ctx, s, i, true)
	case "resume":
		b.handleSetPaused(ctx, s, i, false)
	case "subscribe":
		b.handleSubscribe(ctx, s, i)
	case "unsubscribe":
		b.handleUnsubscribe(ctx, s, i)
	case "mysubscriptions":
		b.handleMySubscriptions(ctx, s, i)
	}
}

func (b *Bot) handleUpcoming(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	days := upcomingDays
	if opt, ok := options(i)["days"]; ok && opt.IntValue() > 0 {
		days = int(opt.IntValue())
	}

	results, err := b.store.ListUpcoming(ctx, days)
	if err != nil {
		b.log.Error("list upcoming", "error", err)
		b.reply(s, i, "Something went wrong, please try again later.")
		return
	}
	b.reply(s, i, FormatHackathonList(fmt.Sprintf("Hackathons starting within %d days", days), results))
}

func (b *Bot) handleSearch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	keyword := options(i)["keyword"].StringValue()

	results, err := b.store.SearchByTag(ctx, keyword, searchLimit)
	if err != nil {
		b.log.Error("search", "keyword", keyword, "error", err)
		b.reply(s, i, "Something went wrong, please try again later.")
		return
	}
	if len(results) == 0 {
		b.reply(s, i, fmt.Sprintf("No hackathons found for %q.", keyword))
		return
	}
	b.reply(s, i, FormatHackathonList(fmt.Sprintf("Hackathons matching %q", keyword), results))
}

func (b *Bot) handlePlatform(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := options(i)["name"].StringValue()

	results, err := b.store.ListByPlatform(ctx, name, platformLimit)
	if err != nil {
		b.log.Error("list by platform", "name", name, "error", err)
		b.reply(s, i, "Something went wrong, please try again later.")
		return
	}
	if len(results) == 0 {
		b.reply(s, i, fmt.Sprintf("No upcoming hackathons from %q.", name))
		return
	}
	b.reply(s, i, FormatHackathonList(fmt.Sprintf("Upcoming on %s", name), results))
}

// handleCalendar lists hackathons that both start and end within one
// calendar month, optionally restricted to a set of platforms.
func (b *Bot) handleCalendar(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	month := time.Now().UTC()
	if opt, ok := options(i)["month"]; ok {
		parsed, err := time.Parse("2006-01", opt.StringValue())
		if err != nil {
			b.reply(s, i, fmt.Sprintf("Could not read %q as a month, expected e.g. 2026-03.", opt.StringValue()))
			return
		}
		month = parsed
	}
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	var sources []string
	if opt, ok := options(i)["platforms"]; ok {
		sources = splitList(opt.StringValue())
	}

	results, err := b.store.ListUpcomingRange(ctx, from, to, sources)
	if err != nil {
		b.log.Error("list upcoming range", "from", from, "to", to, "error", err)
		b.reply(s, i, "Something went wrong, please try again later.")
		return
	}
	b.reply(s, i, FormatHackathonList(fmt.Sprintf("Hackathons in %s", from.Format("January 2006")), results))
}

// handleFetch runs one ingestion cycle on demand and posts every newly
// discovered hackathon to the channel the command was issued in.
func (b *Bot) handleFetch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		b.log.Error("defer response", "error", err)
		return
	}

	created, err := b.ingestor.Run(ctx)
	if err != nil {
		b.log.Error("manual fetch", "error", err)
		b.followUp(s, i, "Fetch failed, please try again later.")
		return
	}
	if len(created) == 0 {
		b.followUp(s, i, "Fetch complete, no new hackathons found.")
		return
	}

	b.followUp(s, i, fmt.Sprintf("Fetch complete, found %d new hackathon(s).", len(created)))
	for _, h := range created {
		if _, err := s.ChannelMessageSend(i.ChannelID, FormatHackathon(h)); err != nil {
			b.log.Error("post fetched hackathon", "channel_id", i.ChannelID, "error", err)
		}
	}
}

func (b *Bot) handleSetPreferences(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := options(i)
	channel := opts["channel"].ChannelValue(nil)

	var platforms, themes []string
	if opt, ok := opts["platforms"]; ok {
		platforms = splitList(opt.StringValue())
	}
	if opt, ok := opts["themes"]; ok {
		themes = splitList(opt.StringValue())
	}

	cfg, err := b.store.SaveGuildPreferences(ctx, i.GuildID, channel.ID, platforms, themes)
	if err != nil {
		b.log.Error("save preferences", "guild_id", i.GuildID, "error", err)
		b.reply(s, i, "Something went wrong, please try again later.")
		return
	}
	b.reply(s, i, fmt.Sprintf("Notifications go to <#%s> (platforms: %s, themes: %s).",
		cfg.ChannelID, cfg.Platforms, cfg.Themes))
}

func (b *Bot) handleSetPaused(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, paused bool) {
	ok, err := b.store.SetPaused(ctx, i.GuildID, paused)
	if err != nil {
		b.log.Error("set paused", "guild_id", i.GuildID, "error", err)
		b.reply(s, i, "Something went wrong, please try again later.")
		return
	}
	if !ok {
		b.reply(s, i, "No notification settings yet. Run /setpreferences first.")
		return
	}
	if paused {
		b.reply(s, i, "Notifications paused.")
	} else {
		b.reply(s, i, "Notifications resumed.")
	}
}

func (b *Bot) handleSubscribe(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	theme := options(i)["theme"].StringValue()

	isNew, err := b.store.Subscribe(ctx, interactionUser(i), theme)
	if err != nil {
		b.log.Error("subscribe", "error", err)
		b.reply(s, i, "Something went wrong, please try again later.")
		return
	}
	if !isNew {
		b.reply(s, i, fmt.Sprintf("You are already subscribed to %q.", theme))
		return
	}
	b.reply(s, i, fmt.Sprintf("Subscribed to %q. You'll get a DM when a matching hackathon appears.", theme))
}

func (b *Bot) handleUnsubscribe(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	theme := options(i)["theme"].StringValue()

	removed, err := b.store.Unsubscribe(ctx, interactionUser(i), theme)
	if err != nil {
		b.log.Error("unsubscribe", "error", err)
		b.reply(s, i, "Something went wrong, please try again later.")
		return
	}
	if !removed {
		b.reply(s, i, fmt.Sprintf("You were not subscribed to %q.", theme))
		return
	}
	b.reply(s, i, fmt.Sprintf("Unsubscribed from %q.", theme))
}

func (b *Bot) handleMySubscriptions(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	subs, err := b.store.ListUserSubscriptions(ctx, interactionUser(i))
	if err != nil {
		b.log.Error("list subscriptions", "error", err)
		b.reply(s, i, "Something went wrong, please try again later.")
		return
	}
	b.reply(s, i, FormatSubscriptions(subs))
}

func (b *Bot) reply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		b.log.Error("respond to interaction", "error", err)
	}
}

func (b *Bot) followUp(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content})
	if err != nil {
		b.log.Error("follow up on interaction", "error", err)
	}
}

func options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// interactionUser returns the invoking user's id for both guild and DM
// interactions.
func interactionUser(i *discordgo.InteractionCreate) string {
	if i.Member != nil {
		return i.Member.User.ID
	}
	return i.User.ID
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
