package bot

import (
	"fmt"
	"strings"

	"hackradar/internal/model"
)

const displayDateLayout = "Jan 2, 2006"

// FormatHackathon renders one hackathon as a notification message.
func FormatHackathon(h model.Hackathon) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s)\n", h.Title, h.Source)
	fmt.Fprintf(&b, "%s - %s | %s | %s | %s\n",
		h.StartDate.Format(displayDateLayout), h.EndDate.Format(displayDateLayout),
		h.Location, h.Mode, h.Status)
	if len(h.Tags) > 0 {
		fmt.Fprintf(&b, "Themes: %s\n", strings.Join(h.Tags, ", "))
	}
	if h.PrizePool != "" {
		fmt.Fprintf(&b, "Prizes: %s\n", h.PrizePool)
	}
	if h.TeamSize != "" {
		fmt.Fprintf(&b, "Team size: %s\n", h.TeamSize)
	}
	if h.Eligibility != "" {
		fmt.Fprintf(&b, "Eligibility: %s\n", h.Eligibility)
	}
	b.WriteString(h.URL)
	return b.String()
}

// FormatHackathonList renders a titled list of hackathons.
func FormatHackathonList(title string, hackathons []model.Hackathon) string {
	if len(hackathons) == 0 {
		return "Nothing found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", title)
	for _, h := range hackathons {
		fmt.Fprintf(&b, "\n- **%s** (%s) %s - %s\n  %s",
			h.Title, h.Source,
			h.StartDate.Format(displayDateLayout), h.EndDate.Format(displayDateLayout),
			h.URL)
	}
	return b.String()
}

// FormatSubscriptions renders a user's theme subscriptions.
func FormatSubscriptions(subs []model.Subscription) string {
	if len(subs) == 0 {
		return "You have no theme subscriptions. Use /subscribe to add one."
	}
	var b strings.Builder
	b.WriteString("Your theme subscriptions:\n")
	for _, sub := range subs {
		fmt.Fprintf(&b, "- %s\n", sub.Theme)
	}
	return b.String()
}
