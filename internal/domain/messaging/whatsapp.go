package messaging

import (
	"net/url"
	"strings"
)

const whatsAppBase = "https://wa.me/"

// DigitsOnly strips everything but 0-9.
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink builds a click-to-chat link. attachmentURL, when set, is
// appended to the text on its own line.
func WhatsAppLink(phone, text, attachmentURL string) (string, error) {
	digits := DigitsOnly(phone)
	if digits == "" {
		return "", ErrPhoneRequired
	}
	if attachmentURL != "" {
		if text != "" {
			text += "\n"
		}
		text += attachmentURL
	}
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return whatsAppBase + digits + "?text=" + encoded, nil
}

// absoluteURL prefixes relative upload URLs with the public base URL.
func absoluteURL(base, u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimRight(base, "/") + u
}
