package model

import (
	"strings"
	"time"

	"github.com/nhle/notifybell/internal/jsonval"
)

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotificationTypeProperty NotificationType = "property"
	NotificationTypeLead     NotificationType = "lead"
	NotificationTypeBroker   NotificationType = "broker"
	NotificationTypeGeneral  NotificationType = "general"
)

// ParseNotificationType maps a raw type string to a known type, falling back
// to NotificationTypeGeneral.
func ParseNotificationType(s string) NotificationType {
	switch t := NotificationType(strings.ToLower(strings.TrimSpace(s))); t {
	case NotificationTypeProperty, NotificationTypeLead, NotificationTypeBroker:
		return t
	default:
		return NotificationTypeGeneral
	}
}

// Notification is a single record returned by the notification service.
type Notification struct {
	// ID is the opaque identifier assigned by the service. It is stable
	// across fetches of the same logical notification.
	ID string `json:"id"`

	// Title is a short headline.
	Title string `json:"title"`

	// Message is the free-text body.
	Message string `json:"message"`

	// Type categorizes the notification.
	Type NotificationType `json:"type"`

	// Read is nil when the service did not report read state.
	Read *bool `json:"read,omitempty"`

	// CreatedAt is zero when the timestamp was absent or unparseable.
	CreatedAt time.Time `json:"createdAt"`

	// Raw is the element as received, including fields this package does
	// not interpret.
	Raw jsonval.Value `json:"-"`
}

// createdAtLayouts are tried in order when parsing createdAt.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NotificationFromValue extracts the recognized fields of a notification
// element. Non-object elements yield a record with only Raw set.
func NotificationFromValue(v jsonval.Value) Notification {
	n := Notification{Type: NotificationTypeGeneral, Raw: v}

	n.ID = stringField(v, "id", "_id")
	n.Title = stringField(v, "title")
	n.Message = stringField(v, "message")
	if t, ok := fieldText(v, "type"); ok {
		n.Type = ParseNotificationType(t)
	}
	if f, ok := v.Field("read"); ok {
		if b, ok := f.Bool(); ok {
			n.Read = &b
		}
	}
	if ts := stringField(v, "createdAt", "created_at"); ts != "" {
		n.CreatedAt = parseTimestamp(ts)
	}

	return n
}

// stringField returns the first of keys holding a string or number.
func stringField(v jsonval.Value, keys ...string) string {
	for _, k := range keys {
		f, ok := v.Field(k)
		if !ok {
			continue
		}
		if s, ok := f.Text(); ok {
			return s
		}
		if f.Kind() == jsonval.KindNumber {
			data, _ := f.MarshalJSON()
			return string(data)
		}
	}
	return ""
}

func fieldText(v jsonval.Value, key string) (string, bool) {
	f, ok := v.Field(key)
	if !ok {
		return "", false
	}
	return f.Text()
}

func parseTimestamp(s string) time.Time {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
