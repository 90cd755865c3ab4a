package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
	defaultMailPort      = 587
)

type AdminCredentials struct {
	Username string
	Password string
}

type MailSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

// Configured reports whether enough is set to attempt delivery.
func (m MailSettings) Configured() bool {
	return strings.TrimSpace(m.Host) != "" && strings.TrimSpace(m.From) != ""
}

// SiteStats are the marketing numbers shown on the home page.
type SiteStats struct {
	Years    int
	Projects int
	Uptime   string
	Support  string
}

// Provider exposes settings that operators change without a restart.
// Every call returns the current value.
type Provider interface {
	AdminCredentials() AdminCredentials
	Mail() MailSettings
	Stats() SiteStats
	WebhookToken() string
}

// EnvProvider re-reads the dotenv file with override semantics on every call
// and then answers from the process environment.
type EnvProvider struct {
	envFile string
	mu      sync.Mutex
}

func NewEnvProvider(envFile string) *EnvProvider {
	return &EnvProvider{envFile: envFile}
}

func (p *EnvProvider) reload() {
	if p.envFile == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	// a missing file leaves the environment as it is
	_ = godotenv.Overload(p.envFile)
}

func (p *EnvProvider) AdminCredentials() AdminCredentials {
	p.reload()
	return AdminCredentials{
		Username: strings.TrimSpace(getEnv("ADMIN_USERNAME", defaultAdminUsername)),
		Password: getEnv("ADMIN_PASSWORD", defaultAdminPassword),
	}
}

func (p *EnvProvider) Mail() MailSettings {
	p.reload()
	return MailSettings{
		Host:     strings.TrimSpace(os.Getenv("MAIL_HOST")),
		Port:     atoiDefault(os.Getenv("MAIL_PORT"), defaultMailPort),
		Username: strings.TrimSpace(os.Getenv("MAIL_USERNAME")),
		Password: os.Getenv("MAIL_PASSWORD"),
		From:     strings.TrimSpace(os.Getenv("MAIL_FROM")),
		UseTLS:   parseBool(getEnv("MAIL_USE_TLS", "true")),
	}
}

func (p *EnvProvider) Stats() SiteStats {
	p.reload()
	return SiteStats{
		Years:    atoiDefault(os.Getenv("STATS_YEARS"), 8),
		Projects: atoiDefault(os.Getenv("STATS_PROJECTS"), 120),
		Uptime:   getEnv("STATS_UPTIME", "99.95%"),
		Support:  getEnv("STATS_SUPPORT", "24/7"),
	}
}

func (p *EnvProvider) WebhookToken() string {
	p.reload()
	return strings.TrimSpace(os.Getenv("MDM_WEBHOOK_TOKEN"))
}

// StaticProvider returns fixed values. Useful in tests and one-shot tools.
type StaticProvider struct {
	Admin   AdminCredentials
	Mailer  MailSettings
	Site    SiteStats
	Webhook string
}

func (p *StaticProvider) AdminCredentials() AdminCredentials { return p.Admin }
func (p *StaticProvider) Mail() MailSettings                 { return p.Mailer }
func (p *StaticProvider) Stats() SiteStats                   { return p.Site }
func (p *StaticProvider) WebhookToken() string               { return p.Webhook }

func atoiDefault(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
