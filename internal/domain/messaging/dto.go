package messaging

import "strings"

// ComposeForm is the /admin/messages form.
type ComposeForm struct {
	SendEmail    string `form:"send_email"`
	To           string `form:"to"`
	Subject      string `form:"subject"`
	Body         string `form:"body"`
	SendWhatsApp string `form:"send_whatsapp"`
	Phone        string `form:"phone"`
}

type Compose struct {
	SendEmail    bool
	To           string
	Subject      string
	Body         string
	SendWhatsApp bool
	Phone        string
}

func (f ComposeForm) Input() Compose {
	return Compose{
		SendEmail:    f.SendEmail == "on",
		To:           strings.TrimSpace(f.To),
		Subject:      strings.TrimSpace(f.Subject),
		Body:         strings.TrimSpace(f.Body),
		SendWhatsApp: f.SendWhatsApp == "on",
		Phone:        strings.TrimSpace(f.Phone),
	}
}

// SettingsForm is the /admin/settings/email form.
type SettingsForm struct {
	Host     string `form:"mail_host"`
	Port     string `form:"mail_port"`
	Username string `form:"mail_username"`
	Password string `form:"mail_password"`
	From     string `form:"mail_from"`
	UseTLS   string `form:"mail_use_tls"`
	TestTo   string `form:"test_to"`
}

// Notice is a message for the operator about one part of a dispatch.
type Notice struct {
	Category string
	Message  string
}

// Outcome is what happened to a compose submission.
type Outcome struct {
	Notices     []Notice
	WhatsAppURL string
	EmailSent   bool
}

func (o *Outcome) add(category, message string) {
	o.Notices = append(o.Notices, Notice{Category: category, Message: message})
}
