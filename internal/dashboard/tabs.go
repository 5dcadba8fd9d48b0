package dashboard

import (
	"fmt"
	"strings"

	"sangkumfund/internal/status"
	"sangkumfund/models"
)

type Tab string

const (
	TabOverview      Tab = "overview"
	TabEvents        Tab = "events"
	TabDonations     Tab = "donations"
	TabUsers         Tab = "users"
	TabNotifications Tab = "notifications"
	TabNews          Tab = "news"
)

var Tabs = []Tab{TabOverview, TabEvents, TabDonations, TabUsers, TabNotifications, TabNews}

func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tabs {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", status.ErrUnknownTab, s)
}

type NotificationFilter string

const (
	FilterAll     NotificationFilter = "all"
	FilterPending NotificationFilter = "pending"
	FilterRead    NotificationFilter = "read"
)

func ParseNotificationFilter(s string) (NotificationFilter, error) {
	switch f := NotificationFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterRead:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", status.ErrUnknownFilter, s)
}

// Query narrows a tab's collection. Empty fields match everything.
type Query struct {
	Filter NotificationFilter
	Type   models.NotificationType
	Status models.ArticleStatus
}

// TabView is what one tab renders from a snapshot. Only the collection
// belonging to the tab is set.
type TabView struct {
	Tab           Tab                   `json:"tab"`
	Stats         *Stats                `json:"stats,omitempty"`
	Activity      []ActivityItem        `json:"activity,omitempty"`
	Events        []models.Event        `json:"events,omitempty"`
	Donations     []models.Donation     `json:"donations,omitempty"`
	Users         []models.User         `json:"users,omitempty"`
	Notifications []models.Notification `json:"notifications,omitempty"`
	Articles      []models.Article      `json:"articles,omitempty"`
	Counts        map[string]int        `json:"counts,omitempty"`
}

// View selects the tab's collection from snap. It never fetches.
func View(snap *Snapshot, tab Tab, q Query) TabView {
	v := TabView{Tab: tab}

	switch tab {
	case TabOverview:
		st := snap.Stats
		v.Stats = &st
		v.Activity = snap.Activity
	case TabEvents:
		v.Events = snap.Events
	case TabDonations:
		v.Donations = snap.Donations
	case TabUsers:
		v.Users = snap.Users
	case TabNotifications:
		v.Notifications = FilterNotifications(snap.Notifications, q.Filter, q.Type)
		v.Counts = NotificationCounts(snap.Notifications)
	case TabNews:
		v.Articles = FilterArticles(snap.Articles, q.Status)
		v.Counts = ArticleCounts(snap.Articles)
	}
	return v
}

func FilterNotifications(items []models.Notification, f NotificationFilter, typ models.NotificationType) []models.Notification {
	out := make([]models.Notification, 0, len(items))
	for _, n := range items {
		if typ != "" && n.Type != typ {
			continue
		}
		switch f {
		case FilterPending:
			if n.Read {
				continue
			}
		case FilterRead:
			if !n.Read {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// NotificationCounts backs the filter buttons: all, pending, read and one
// entry per notification type present.
func NotificationCounts(items []models.Notification) map[string]int {
	counts := map[string]int{
		string(FilterAll):     len(items),
		string(FilterPending): 0,
		string(FilterRead):    0,
	}
	for _, n := range items {
		if n.Read {
			counts[string(FilterRead)]++
		} else {
			counts[string(FilterPending)]++
		}
		if n.Type != "" {
			counts[string(n.Type)]++
		}
	}
	return counts
}

func FilterArticles(items []models.Article, st models.ArticleStatus) []models.Article {
	if st == "" {
		return items
	}
	out := make([]models.Article, 0, len(items))
	for _, a := range items {
		if strings.EqualFold(string(a.Status), string(st)) {
			out = append(out, a)
		}
	}
	return out
}

func ArticleCounts(items []models.Article) map[string]int {
	counts := map[string]int{"all": len(items)}
	for _, a := range items {
		if a.Status != "" {
			counts[string(a.Status)]++
		}
	}
	return counts
}
