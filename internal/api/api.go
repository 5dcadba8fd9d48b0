// Package api maps each backend operation to exactly one HTTP call.
// Functions return the parsed body; errors are the transport errors of
// the apiclient package. Nothing here caches or retries.
package api

import (
	"fmt"
	"net/url"

	"sangkumfund/internal/apiclient"
	"sangkumfund/models"
)

// Services groups every resource module over one requester.
type Services struct {
	Auth          *AuthService
	Events        *EventService
	Donations     *DonationService
	Users         *UserService
	Notifications *NotificationService
	Settings      *SettingsService
	BusinessCards *BusinessCardService
	Announcements *AnnouncementService
	Articles      *ArticleService
	Admin         *AdminService
}

func NewServices(rq apiclient.Requester, auth *apiclient.AuthContext) *Services {
	return &Services{
		Auth:          NewAuthService(rq, auth),
		Events:        NewEventService(rq),
		Donations:     NewDonationService(rq),
		Users:         NewUserService(rq),
		Notifications: NewNotificationService(rq),
		Settings:      NewSettingsService(rq),
		BusinessCards: NewBusinessCardService(rq),
		Announcements: NewAnnouncementService(rq),
		Articles:      NewArticleService(rq),
		Admin:         NewAdminService(rq),
	}
}

// resourcePath joins a collection path and an escaped id.
func resourcePath(base string, id models.ID, suffix ...string) string {
	p := fmt.Sprintf("%s/%s", base, url.PathEscape(id.String()))
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
