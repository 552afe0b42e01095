package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultWordLimit is the number of words kept by TruncateMessage when no
// positive limit is given.
const DefaultWordLimit = 6

// DefaultBadgeCap is the largest count the badge shows before switching to
// "99+".
const DefaultBadgeCap = 99

// TimeAgo renders the age of t relative to now as a compact label such as
// "42S", "5M", "3H" or "12D". Future timestamps render as "0S" and a zero
// timestamp renders as "".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	secs := int64(now.Sub(t) / time.Second)
	if secs < 0 {
		secs = 0
	}

	switch {
	case secs < 60:
		return fmt.Sprintf("%dS", secs)
	case secs < 3600:
		return fmt.Sprintf("%dM", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dH", secs/3600)
	default:
		return fmt.Sprintf("%dD", secs/86400)
	}
}

// TruncateMessage keeps the first wordLimit whitespace-separated words of
// text, appending "..." when words were dropped.
func TruncateMessage(text string, wordLimit int) string {
	if wordLimit <= 0 {
		wordLimit = DefaultWordLimit
	}

	words := strings.Fields(text)
	if len(words) <= wordLimit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:wordLimit], " ") + "..."
}

// BadgeLabel renders the unread badge. Zero renders as "" (no badge) and
// counts above limit render as "<limit>+".
func BadgeLabel(count, limit int) string {
	if limit <= 0 {
		limit = DefaultBadgeCap
	}
	switch {
	case count <= 0:
		return ""
	case count > limit:
		return strconv.Itoa(limit) + "+"
	default:
		return strconv.Itoa(count)
	}
}
