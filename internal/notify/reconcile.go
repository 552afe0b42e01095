package notify

import (
	"github.com/nhle/notifybell/internal/jsonval"
	"github.com/nhle/notifybell/internal/model"
)

// Pagination is the optional server-supplied metadata used to reconcile the
// unread count. Nil fields were absent from the response.
type Pagination struct {
	TotalUnread        *int
	TotalNotifications *int
}

// IsUnread reports whether n should count as unread. A notification is
// unread unless read, isRead or readStatus says otherwise.
func IsUnread(n model.Notification) bool {
	if n.Read != nil && *n.Read {
		return false
	}
	if f, ok := n.Raw.Field("read"); ok {
		if b, ok := f.Bool(); ok && b {
			return false
		}
	}
	if f, ok := n.Raw.Field("isRead"); ok {
		if b, ok := f.Bool(); ok && b {
			return false
		}
	}
	if f, ok := n.Raw.Field("readStatus"); ok {
		if s, ok := f.Text(); ok && s == "read" {
			return false
		}
	}
	return true
}

// CountUnread returns the number of unread notifications in list.
func CountUnread(list []model.Notification) int {
	count := 0
	for _, n := range list {
		if IsUnread(n) {
			count++
		}
	}
	return count
}

// ExtractPagination finds a pagination object at the top level of the
// response, or one level down under data. It returns nil when neither exists.
func ExtractPagination(v jsonval.Value) *Pagination {
	p, ok := paginationObject(v)
	if !ok {
		if data, found := v.Field("data"); found {
			p, ok = paginationObject(data)
		}
	}
	if !ok {
		return nil
	}

	return &Pagination{
		TotalUnread:        intField(p, "totalUnread"),
		TotalNotifications: intField(p, "totalNotifications"),
	}
}

func paginationObject(v jsonval.Value) (jsonval.Value, bool) {
	p, ok := v.Field("pagination")
	if !ok {
		return jsonval.Null, false
	}
	_, isObj := p.Members()
	return p, isObj
}

// Reconcile derives the unread count. A server-reported totalUnread is
// authoritative, including zero. Without it the locally computed count is
// used, whether or not totalNotifications was reported.
func Reconcile(list []model.Notification, p *Pagination) int {
	if p != nil && p.TotalUnread != nil {
		return max(*p.TotalUnread, 0)
	}
	return CountUnread(list)
}

func intField(v jsonval.Value, key string) *int {
	f, ok := v.Field(key)
	if !ok {
		return nil
	}
	n, ok := f.Int()
	if !ok {
		return nil
	}
	return &n
}
