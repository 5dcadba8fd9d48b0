package dashboard

import (
	"sort"
	"strings"
	"time"

	"sangkumfund/models"

	"github.com/shopspring/decimal"
)

const (
	feedPerSource = 5
	feedSize      = 8
)

const (
	IconEvent    = "fas fa-calendar-plus"
	IconDonation = "fas fa-hand-holding-usd"
	IconUser     = "fas fa-user-plus"
)

// Snapshot is one complete, immutable view of the admin dashboard.
// A new refresh replaces it wholesale.
type Snapshot struct {
	Seq       uint64    `json:"seq"`
	FetchedAt time.Time `json:"fetchedAt"`

	Stats    Stats          `json:"stats"`
	Activity []ActivityItem `json:"activity"`

	Events        []models.Event        `json:"events"`
	Donations     []models.Donation     `json:"donations"`
	Users         []models.User         `json:"users"`
	Notifications []models.Notification `json:"notifications"`
	Articles      []models.Article      `json:"articles"`

	// Degraded lists the sources that failed and were replaced by an
	// empty collection in this snapshot.
	Degraded []string `json:"degraded,omitempty"`
}

// Stats are the headline numbers. Each one comes from the backend summary
// when it sent the field, otherwise it is computed from the lists.
type Stats struct {
	TotalAmount         models.Amount `json:"totalAmount"`
	TotalAmountDisplay  string        `json:"totalAmountDisplay"`
	TotalEvents         int64         `json:"totalEvents"`
	TotalDonations      int64         `json:"totalDonations"`
	TotalUsers          int64         `json:"totalUsers"`
	PendingEvents       int64         `json:"pendingEvents"`
	ActiveUsers         int64         `json:"activeUsers"`
	UnreadNotifications int64         `json:"unreadNotifications"`
	Health              string        `json:"health,omitempty"`
}

type ActivityItem struct {
	Kind        string    `json:"kind"`
	Icon        string    `json:"icon"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

func buildSnapshot(seq uint64, at time.Time, src sources) *Snapshot {
	snap := &Snapshot{
		Seq:           seq,
		FetchedAt:     at,
		Events:        nonNil(src.events),
		Donations:     nonNil(src.donations),
		Users:         nonNil(src.users),
		Notifications: nonNil(src.notifications),
		Articles:      nonNil(src.articles),
		Degraded:      src.degraded,
	}
	snap.Stats = computeStats(snap, src.stats)
	snap.Activity = buildActivity(snap.Events, snap.Donations, snap.Users)
	return snap
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func computeStats(snap *Snapshot, server *models.DashboardStats) Stats {
	var totals models.StatsTotals
	var health models.StatsHealth
	if server != nil {
		totals, health = server.Totals, server.Health
	}

	st := Stats{
		TotalAmount:         sumDonations(snap.Donations),
		TotalEvents:         int64(len(snap.Events)),
		TotalDonations:      int64(len(snap.Donations)),
		TotalUsers:          int64(len(snap.Users)),
		PendingEvents:       countPending(snap.Events),
		ActiveUsers:         countActive(snap.Users),
		UnreadNotifications: countUnread(snap.Notifications),
		Health:              health.Status,
	}

	if totals.TotalAmount != nil {
		st.TotalAmount = *totals.TotalAmount
	}
	override(&st.TotalEvents, totals.TotalEvents)
	override(&st.TotalDonations, totals.TotalDonations)
	override(&st.TotalUsers, totals.TotalUsers)
	override(&st.PendingEvents, totals.PendingEvents, health.PendingEvents)
	override(&st.ActiveUsers, totals.ActiveUsers, health.ActiveUsers)
	override(&st.UnreadNotifications, totals.UnreadNotifications, health.UnreadNotifications)

	st.TotalAmountDisplay = FormatCurrency(st.TotalAmount.Decimal)
	return st
}

// override replaces dst with the first non-nil candidate.
func override(dst *int64, candidates ...*int64) {
	for _, c := range candidates {
		if c != nil {
			*dst = *c
			return
		}
	}
}

func sumDonations(donations []models.Donation) models.Amount {
	total := decimal.Zero
	for _, d := range donations {
		total = total.Add(d.Amount.Decimal)
	}
	return models.Amount{Decimal: total}
}

// countPending matches the status exactly; "pending" is not PENDING.
func countPending(events []models.Event) int64 {
	var n int64
	for _, e := range events {
		if e.Status == models.EventPending {
			n++
		}
	}
	return n
}

func countActive(users []models.User) int64 {
	var n int64
	for _, u := range users {
		if u.IsActive {
			n++
		}
	}
	return n
}

func countUnread(notifications []models.Notification) int64 {
	var n int64
	for _, nt := range notifications {
		if !nt.Read {
			n++
		}
	}
	return n
}

func buildActivity(events []models.Event, donations []models.Donation, users []models.User) []ActivityItem {
	feed := make([]ActivityItem, 0, 3*feedPerSource)

	for _, e := range head(events) {
		feed = append(feed, ActivityItem{
			Kind:        "event",
			Icon:        IconEvent,
			Title:       "New campaign created",
			Description: e.Title,
			At:          e.CreatedAt.Time,
		})
	}
	for _, d := range head(donations) {
		desc := d.Donor() + " donated " + FormatCurrency(d.Amount.Decimal)
		if d.EventTitle != "" {
			desc += " to " + d.EventTitle
		}
		feed = append(feed, ActivityItem{
			Kind:        "donation",
			Icon:        IconDonation,
			Title:       "Donation received",
			Description: desc,
			At:          d.CreatedAt.Time,
		})
	}
	for _, u := range head(users) {
		feed = append(feed, ActivityItem{
			Kind:        "user",
			Icon:        IconUser,
			Title:       "New user registered",
			Description: u.DisplayName(),
			At:          u.CreatedAt.Time,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].At.After(feed[j].At)
	})
	if len(feed) > feedSize {
		feed = feed[:feedSize]
	}
	return feed
}

func head[T any](items []T) []T {
	if len(items) > feedPerSource {
		return items[:feedPerSource]
	}
	return items
}

// FormatCurrency renders an amount as US dollars, e.g. "$1,234.50".
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}
