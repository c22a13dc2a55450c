// Package model defines the domain types used across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Mode says whether an event is held online or at a physical venue.
type Mode string

// Supported event modes.
const (
	ModeOnline  Mode = "Online"
	ModeOffline Mode = "Offline"
)

// LocationEverywhere is the location recorded for online events.
const LocationEverywhere = "Everywhere"

// Hackathon is the canonical record every source adapter produces.
// ID is content-derived and stable across fetch cycles, so re-fetching
// the same event updates the stored row instead of duplicating it.
type Hackathon struct {
	ID          string
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	URL         string
	Mode        Mode
	Status      string
	Source      string
	Tags        []string
	BannerURL   string
	PrizePool   string
	TeamSize    string
	Eligibility string
}

// Validate reports whether the record carries every required field.
func (h *Hackathon) Validate() error {
	switch {
	case h.ID == "":
		return fmt.Errorf("missing id")
	case h.Title == "":
		return fmt.Errorf("missing title")
	case h.URL == "":
		return fmt.Errorf("missing url")
	case h.StartDate.IsZero() || h.EndDate.IsZero():
		return fmt.Errorf("missing dates")
	case h.Location == "":
		return fmt.Errorf("missing location")
	case h.Mode != ModeOnline && h.Mode != ModeOffline:
		return fmt.Errorf("invalid mode %q", h.Mode)
	case h.Status == "":
		return fmt.Errorf("missing status")
	case h.Source == "":
		return fmt.Errorf("missing source")
	}
	return nil
}

// HashID derives a stable record identifier from a source-specific
// natural key, such as the event title or the platform's numeric id.
func HashID(naturalKey string) string {
	h := sha256.Sum256([]byte(naturalKey))
	return fmt.Sprintf("%x", h)
}

// JoinTags serializes a tag list into the stored comma-joined form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags is the inverse of JoinTags. An empty string yields nil.
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// SelectionAll is the stored sentinel meaning "no filter restriction".
const SelectionAll = "all"

// Selection is a set of platform or theme labels with an explicit
// wildcard state. An empty selection means "everything", never
// "nothing": saving no labels must not silence notifications.
type Selection struct {
	All    bool
	Values []string
}

// NewSelection builds a Selection from user-provided labels.
// Empty input collapses to the wildcard.
func NewSelection(values []string) Selection {
	var cleaned []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		cleaned = append(cleaned, v)
	}
	if len(cleaned) == 0 {
		return Selection{All: true}
	}
	return Selection{Values: cleaned}
}

// ParseSelection restores a Selection from its stored form.
func ParseSelection(s string) Selection {
	if s == "" || s == SelectionAll {
		return Selection{All: true}
	}
	return Selection{Values: strings.Split(s, ",")}
}

// String returns the stored form: the "all" sentinel or a comma-joined list.
func (s Selection) String() string {
	if s.All || len(s.Values) == 0 {
		return SelectionAll
	}
	return strings.Join(s.Values, ",")
}

// Matches reports whether any selected label is a case-insensitive
// substring of text. The wildcard matches everything.
func (s Selection) Matches(text string) bool {
	if s.All {
		return true
	}
	lower := strings.ToLower(text)
	for _, v := range s.Values {
		if strings.Contains(lower, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

// GuildConfig holds a chat server's notification preferences.
type GuildConfig struct {
	GuildID   string
	ChannelID string
	Platforms Selection
	Themes    Selection
	Paused    bool
}

// Subscription is a per-user theme subscription delivered by direct message.
type Subscription struct {
	UserID    string
	Theme     string
	CreatedAt time.Time
}
