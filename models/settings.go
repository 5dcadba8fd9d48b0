package models

// Settings are a user's preferences and integrations.
type Settings struct {
	Language            string `json:"language,omitempty"`
	Currency            string `json:"currency,omitempty"`
	Theme               string `json:"theme,omitempty"`
	EmailNotifications  bool   `json:"emailNotifications"`
	PushNotifications   bool   `json:"pushNotifications"`
	DonationReceipts    bool   `json:"donationReceipts"`
	ProfilePublic       bool   `json:"profilePublic"`
	TelegramConnected   bool   `json:"telegramConnected"`
	TelegramChatID      string `json:"telegramChatId,omitempty"`
	TelegramNotifyEvent bool   `json:"telegramNotifyEvents"`
}

type TelegramLink struct {
	ChatID   string `json:"chatId"`
	Username string `json:"username,omitempty"`
}
