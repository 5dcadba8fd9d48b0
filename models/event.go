package models

import "github.com/shopspring/decimal"

type EventStatus string

const (
	EventPending   EventStatus = "PENDING"
	EventApproved  EventStatus = "APPROVED"
	EventActive    EventStatus = "ACTIVE"
	EventCompleted EventStatus = "COMPLETED"
	EventRejected  EventStatus = "REJECTED"
)

// Event is a fundraising campaign.
type Event struct {
	ID            ID          `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Category      string      `json:"category,omitempty"`
	Location      string      `json:"location,omitempty"`
	ImageURL      string      `json:"imageUrl,omitempty"`
	Status        EventStatus `json:"status"`
	GoalAmount    Amount      `json:"goalAmount"`
	CurrentAmount Amount      `json:"currentAmount"`
	OwnerID       ID          `json:"ownerId,omitempty"`
	OwnerName     string      `json:"ownerName,omitempty"`
	StartDate     Timestamp   `json:"startDate"`
	EndDate       Timestamp   `json:"endDate"`
	CreatedAt     Timestamp   `json:"createdAt"`
}

// Progress returns how much of the goal has been raised, in percent,
// rounded to one decimal and capped at 100.
func (e Event) Progress() float64 {
	if !e.GoalAmount.IsPositive() {
		return 0
	}
	pct := e.CurrentAmount.Div(e.GoalAmount.Decimal).Mul(decimal.NewFromInt(100))
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	f, _ := pct.Round(1).Float64()
	return f
}

// EventInput is the body for creating or updating an event.
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	GoalAmount  Amount    `json:"goalAmount"`
	StartDate   Timestamp `json:"startDate"`
	EndDate     Timestamp `json:"endDate"`
}

type Comment struct {
	ID         ID        `json:"id"`
	EventID    ID        `json:"eventId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  Timestamp `json:"createdAt"`
}
