// Package notify turns loosely shaped notification service responses into
// records, unread counts and display labels.
package notify

import (
	"github.com/nhle/notifybell/internal/jsonval"
	"github.com/nhle/notifybell/internal/model"
)

// matcher inspects a response envelope and reports the notification array
// it found, if any.
type matcher func(v jsonval.Value) ([]jsonval.Value, bool)

// matchers are tried in order; the first match wins.
var matchers = []matcher{
	matchBareArray,
	matchDataArray,
	matchNestedData,
	matchTopLevelKeys,
}

// Normalize extracts the ordered list of notification elements from a
// response of unknown shape. Unrecognized shapes yield an empty list.
func Normalize(v jsonval.Value) []jsonval.Value {
	for _, m := range matchers {
		if items, ok := m(v); ok {
			return items
		}
	}
	return []jsonval.Value{}
}

// NormalizeRecords normalizes v and decodes each element into a
// notification, keeping server order.
func NormalizeRecords(v jsonval.Value) []model.Notification {
	items := Normalize(v)
	records := make([]model.Notification, 0, len(items))
	for _, item := range items {
		records = append(records, model.NotificationFromValue(item))
	}
	return records
}

func matchBareArray(v jsonval.Value) ([]jsonval.Value, bool) {
	return v.Array()
}

func matchDataArray(v jsonval.Value) ([]jsonval.Value, bool) {
	return v.ArrayField("data")
}

// matchNestedData handles {data: {...}} envelopes: an explicit
// notifications or data array first, then the longest array value.
func matchNestedData(v jsonval.Value) ([]jsonval.Value, bool) {
	data, ok := v.Field("data")
	if !ok {
		return nil, false
	}
	members, ok := data.Members()
	if !ok {
		return nil, false
	}

	if items, ok := data.ArrayField("notifications"); ok {
		return items, true
	}
	if items, ok := data.ArrayField("data"); ok {
		return items, true
	}

	var (
		longest []jsonval.Value
		found   bool
	)
	for _, m := range members {
		items, ok := m.Value.Array()
		if !ok {
			continue
		}
		// Strictly longer only, so ties keep the first array seen.
		if !found || len(items) > len(longest) {
			longest = items
			found = true
		}
	}
	return longest, found
}

func matchTopLevelKeys(v jsonval.Value) ([]jsonval.Value, bool) {
	for _, key := range []string{"notifications", "results", "items"} {
		if items, ok := v.ArrayField(key); ok {
			return items, true
		}
	}
	return nil, false
}
