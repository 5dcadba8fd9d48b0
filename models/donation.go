package models

type DonationStatus string

const (
	DonationSuccess DonationStatus = "SUCCESS"
	DonationPending DonationStatus = "PENDING"
	DonationFailed  DonationStatus = "FAILED"
)

type Donation struct {
	ID         ID             `json:"id"`
	Amount     Amount         `json:"amount"`
	DonorName  string         `json:"donorName,omitempty"`
	UserEmail  string         `json:"userEmail,omitempty"`
	EventID    ID             `json:"eventId,omitempty"`
	EventTitle string         `json:"eventTitle,omitempty"`
	Message    string         `json:"message,omitempty"`
	Anonymous  bool           `json:"anonymous,omitempty"`
	Status     DonationStatus `json:"status"`
	CreatedAt  Timestamp      `json:"createdAt"`
}

// Donor returns the best display name for the donor.
func (d Donation) Donor() string {
	switch {
	case d.Anonymous:
		return "Anonymous"
	case d.DonorName != "":
		return d.DonorName
	case d.UserEmail != "":
		return d.UserEmail
	default:
		return "Anonymous"
	}
}

type DonationInput struct {
	EventID   ID     `json:"eventId"`
	Amount    Amount `json:"amount"`
	Message   string `json:"message,omitempty"`
	Anonymous bool   `json:"anonymous"`
}
