package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// BusinessCard is the client-side shape of a business card. The backend
// stores Contact and Presentation together as one JSON blob in its
// contactInfo column; the blob is split on read and rebuilt on write.
// Keys this client does not model survive the round trip in Extra.
type BusinessCard struct {
	ID           ID
	OwnerID      ID
	FullName     string
	JobTitle     string
	Company      string
	AvatarURL    string
	Contact      CardContact
	Presentation CardPresentation
	CreatedAt    Timestamp

	// plainInfo is a contactInfo that was not JSON, written back as is
	// while the card still carries it only as the address.
	plainInfo string
}

type CardContact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	Address  string `json:"address,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type CardPresentation struct {
	Layout       string `json:"layout,omitempty"`
	Font         string `json:"font,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
	BorderStyle  string `json:"borderStyle,omitempty"`
	Animated     bool   `json:"animated,omitempty"`
	ShowQRCode   bool   `json:"showQrCode,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type (
	cardContactFields      CardContact
	cardPresentationFields CardPresentation
)

var (
	contactKeys      = jsonKeys(reflect.TypeOf(CardContact{}))
	presentationKeys = jsonKeys(reflect.TypeOf(CardPresentation{}))
)

func (c CardContact) MarshalJSON() ([]byte, error) {
	return withExtra(cardContactFields(c), c.Extra)
}

func (c *CardContact) UnmarshalJSON(b []byte) error {
	var f cardContactFields
	extra, err := splitExtra(b, &f, contactKeys)
	if err != nil {
		return err
	}
	*c = CardContact(f)
	c.Extra = extra
	return nil
}

func (p CardPresentation) MarshalJSON() ([]byte, error) {
	return withExtra(cardPresentationFields(p), p.Extra)
}

func (p *CardPresentation) UnmarshalJSON(b []byte) error {
	var f cardPresentationFields
	extra, err := splitExtra(b, &f, presentationKeys)
	if err != nil {
		return err
	}
	*p = CardPresentation(f)
	p.Extra = extra
	return nil
}

// jsonKeys lists the lower-cased json names declared on t.
func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[strings.ToLower(name)] = true
		}
	}
	return keys
}

// splitExtra decodes b into v and returns the keys v does not declare.
func splitExtra(b []byte, v any, known map[string]bool) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(b, v); err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}

	var extra map[string]json.RawMessage
	for key, value := range all {
		if known[strings.ToLower(key)] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key] = value
	}
	return extra, nil
}

// withExtra marshals v and adds the extra keys it does not already set.
func withExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, set := all[key]; !set {
			all[key] = value
		}
	}
	return json.Marshal(all)
}

// businessCardWire is the backend representation.
type businessCardWire struct {
	ID          ID        `json:"id,omitempty"`
	OwnerID     ID        `json:"userId,omitempty"`
	FullName    string    `json:"fullName"`
	JobTitle    string    `json:"jobTitle,omitempty"`
	Company     string    `json:"company,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	ContactInfo string    `json:"contactInfo"`
	CreatedAt   Timestamp `json:"createdAt"`
}

func (c BusinessCard) MarshalJSON() ([]byte, error) {
	info, err := c.contactInfo()
	if err != nil {
		return nil, fmt.Errorf("business card contact info: %w", err)
	}
	return json.Marshal(businessCardWire{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		FullName:    c.FullName,
		JobTitle:    c.JobTitle,
		Company:     c.Company,
		AvatarURL:   c.AvatarURL,
		ContactInfo: info,
		CreatedAt:   c.CreatedAt,
	})
}

func (c BusinessCard) contactInfo() (string, error) {
	if c.plainInfo != "" && c.Contact.Address == c.plainInfo {
		rest := c.Contact
		rest.Address = ""
		if reflect.ValueOf(rest).IsZero() && reflect.ValueOf(c.Presentation).IsZero() {
			return c.plainInfo, nil
		}
	}

	contact, err := json.Marshal(c.Contact)
	if err != nil {
		return "", err
	}
	settings, err := json.Marshal(c.Presentation)
	if err != nil {
		return "", err
	}

	var blob map[string]json.RawMessage
	if err := json.Unmarshal(contact, &blob); err != nil {
		return "", err
	}
	blob["settings"] = settings

	b, err := json.Marshal(blob)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalJSON tolerates a missing or malformed contactInfo; plain text
// left over from early cards is kept as the address.
func (c *BusinessCard) UnmarshalJSON(b []byte) error {
	var w businessCardWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*c = BusinessCard{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		FullName:  w.FullName,
		JobTitle:  w.JobTitle,
		Company:   w.Company,
		AvatarURL: w.AvatarURL,
		CreatedAt: w.CreatedAt,
	}

	info := strings.TrimSpace(w.ContactInfo)
	if info == "" {
		return nil
	}

	contact, presentation, err := splitContactInfo(info)
	if err != nil {
		c.Contact.Address = info
		c.plainInfo = info
		return nil
	}
	c.Contact = contact
	c.Presentation = presentation
	return nil
}

func splitContactInfo(info string) (CardContact, CardPresentation, error) {
	var (
		contact      CardContact
		presentation CardPresentation
		blob         map[string]json.RawMessage
	)
	if err := json.Unmarshal([]byte(info), &blob); err != nil {
		return contact, presentation, err
	}

	if settings, ok := blob["settings"]; ok {
		delete(blob, "settings")
		if !isNull(settings) {
			if err := json.Unmarshal(settings, &presentation); err != nil {
				return contact, presentation, err
			}
		}
	}

	rest, err := json.Marshal(blob)
	if err != nil {
		return contact, presentation, err
	}
	err = json.Unmarshal(rest, &contact)
	return contact, presentation, err
}

// VCard renders the card as a vCard 3.0 document.
func (c BusinessCard) VCard() string {
	var b strings.Builder
	line := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(escapeVCard(value))
		b.WriteString("\r\n")
	}

	b.WriteString("BEGIN:VCARD\r\nVERSION:3.0\r\n")
	line("FN", c.FullName)
	if n := vcardName(c.FullName); n != "" {
		b.WriteString("N:" + n + "\r\n")
	}
	line("ORG", c.Company)
	line("TITLE", c.JobTitle)
	line("TEL;TYPE=CELL", c.Contact.Phone)
	line("EMAIL;TYPE=INTERNET", c.Contact.Email)
	line("URL", c.Contact.Website)
	line("ADR;TYPE=WORK", c.Contact.Address)
	line("PHOTO;VALUE=URI", c.AvatarURL)
	b.WriteString("END:VCARD\r\n")
	return b.String()
}

// vcardName turns "Given Middle Family" into "Family;Given Middle;;;".
func vcardName(full string) string {
	parts := strings.Fields(full)
	for i, p := range parts {
		parts[i] = escapeVCard(p)
	}
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0] + ";;;;"
	}
	last := parts[len(parts)-1]
	return last + ";" + strings.Join(parts[:len(parts)-1], " ") + ";;;"
}

var vcardEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, ",", `\,`, ";", `\;`)

func escapeVCard(s string) string {
	return vcardEscaper.Replace(s)
}
