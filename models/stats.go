package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// DashboardStats is the pre-aggregated summary served by
// /api/admin/stats/dashboard. Every field is optional: a nil pointer means
// the backend did not send it, a non-nil zero is a real zero. A field the
// backend sent in an unusable shape is treated as missing.
type DashboardStats struct {
	Totals StatsTotals `json:"totals"`
	Health StatsHealth `json:"health"`
}

type StatsTotals struct {
	TotalAmount         *Amount `json:"totalAmount"`
	TotalEvents         *int64  `json:"totalEvents"`
	TotalDonations      *int64  `json:"totalDonations"`
	TotalUsers          *int64  `json:"totalUsers"`
	PendingEvents       *int64  `json:"pendingEvents"`
	ActiveUsers         *int64  `json:"activeUsers"`
	UnreadNotifications *int64  `json:"unreadNotifications"`
}

func (t *StatsTotals) UnmarshalJSON(b []byte) error {
	var w struct {
		TotalAmount         json.RawMessage `json:"totalAmount"`
		TotalEvents         json.RawMessage `json:"totalEvents"`
		TotalDonations      json.RawMessage `json:"totalDonations"`
		TotalUsers          json.RawMessage `json:"totalUsers"`
		PendingEvents       json.RawMessage `json:"pendingEvents"`
		ActiveUsers         json.RawMessage `json:"activeUsers"`
		UnreadNotifications json.RawMessage `json:"unreadNotifications"`
	}
	*t = StatsTotals{}
	if json.Unmarshal(b, &w) != nil {
		return nil
	}

	if !isNull(w.TotalAmount) {
		t.TotalAmount = &Amount{parseAmount(w.TotalAmount)}
	}
	t.TotalEvents = parseCount(w.TotalEvents)
	t.TotalDonations = parseCount(w.TotalDonations)
	t.TotalUsers = parseCount(w.TotalUsers)
	t.PendingEvents = parseCount(w.PendingEvents)
	t.ActiveUsers = parseCount(w.ActiveUsers)
	t.UnreadNotifications = parseCount(w.UnreadNotifications)
	return nil
}

type StatsHealth struct {
	Status              string `json:"status,omitempty"`
	PendingEvents       *int64 `json:"pendingEvents"`
	ActiveUsers         *int64 `json:"activeUsers"`
	UnreadNotifications *int64 `json:"unreadNotifications"`
}

func (h *StatsHealth) UnmarshalJSON(b []byte) error {
	var w struct {
		Status              json.RawMessage `json:"status"`
		PendingEvents       json.RawMessage `json:"pendingEvents"`
		ActiveUsers         json.RawMessage `json:"activeUsers"`
		UnreadNotifications json.RawMessage `json:"unreadNotifications"`
	}
	*h = StatsHealth{}
	if json.Unmarshal(b, &w) != nil {
		return nil
	}

	var status string
	if json.Unmarshal(w.Status, &status) == nil {
		h.Status = status
	}
	h.PendingEvents = parseCount(w.PendingEvents)
	h.ActiveUsers = parseCount(w.ActiveUsers)
	h.UnreadNotifications = parseCount(w.UnreadNotifications)
	return nil
}

func isNull(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

// parseCount reads a number or numeric string. Missing, null and
// unparseable values are nil.
func parseCount(b []byte) *int64 {
	if isNull(b) {
		return nil
	}
	b = bytes.TrimSpace(b)

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	n := d.IntPart()
	return &n
}
