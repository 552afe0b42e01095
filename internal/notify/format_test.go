package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "0S"},
		{59 * time.Second, "59S"},
		{59*time.Second + 900*time.Millisecond, "59S"},
		{60 * time.Second, "1M"},
		{119 * time.Second, "1M"},
		{3599 * time.Second, "59M"},
		{3600 * time.Second, "1H"},
		{86399 * time.Second, "23H"},
		{86400 * time.Second, "1D"},
		{400 * 24 * time.Hour, "400D"},
		{-5 * time.Minute, "0S"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(now.Add(-tt.elapsed), now))
		})
	}
}

func TestTimeAgo_ZeroTime(t *testing.T) {
	assert.Equal(t, "", TimeAgo(time.Time{}, time.Now()))
}

func TestTruncateMessage(t *testing.T) {
	assert.Equal(t, "a b c d e f...", TruncateMessage("a b c d e f g h", 6))
	assert.Equal(t, "a b c", TruncateMessage("a b c", 6))
	assert.Equal(t, "a b c d e f", TruncateMessage("a b c d e f", 6))
	assert.Equal(t, "one two", TruncateMessage("  one \n\t two  ", 6))
	assert.Equal(t, "a b...", TruncateMessage("a b c", 2))
	assert.Equal(t, "a b c d e f...", TruncateMessage("a b c d e f g", 0))
	assert.Equal(t, "", TruncateMessage("", 6))
}

func TestBadgeLabel(t *testing.T) {
	assert.Equal(t, "", BadgeLabel(0, 99))
	assert.Equal(t, "5", BadgeLabel(5, 99))
	assert.Equal(t, "99", BadgeLabel(99, 99))
	assert.Equal(t, "99+", BadgeLabel(100, 99))
	assert.Equal(t, "99+", BadgeLabel(150, 99))
	assert.Equal(t, "99+", BadgeLabel(150, 0))
}
