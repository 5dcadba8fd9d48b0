package models

// User is a platform account. Active and blocked are independent flags.
type User struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Role        string    `json:"role"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	IsActive    bool      `json:"isActive"`
	IsBlocked   bool      `json:"isBlocked"`
	LastLoginAt Timestamp `json:"lastLoginAt"`
	CreatedAt   Timestamp `json:"createdAt"`
}

func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

type ProfileInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the login/register response. Older backend builds name
// the token field accessToken.
type AuthResult struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user,omitempty"`
}

func (r AuthResult) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}
